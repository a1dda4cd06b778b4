package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/ArdhiYetu/AY-Backend/internal/shpimport"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		shpPath  = flag.String("shapefile", "", "path to the .shp file (sidecars resolved next to it)")
		district = flag.String("district", "Morogoro", "district name stamped on imported plots")
		ward     = flag.String("ward", "Mbuyuni", "ward name stamped on imported plots")
		village  = flag.String("village", "Mbuyuni", "village name stamped on imported plots")
		dbURL    = flag.String("db", os.Getenv("DATABASE_URL"), "Postgres connection URL")
		dataset  = flag.String("dataset", "", "dataset name (defaults to the shapefile base name)")
		keepTmp  = flag.Bool("keep-tmp", false, "keep the staging table for debugging")
	)
	flag.Parse()

	if *shpPath == "" || *dbURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shpimport.Config{
		ShapefilePath: *shpPath,
		District:      *district,
		Ward:          *ward,
		Village:       *village,
		DatabaseURL:   db.NormalizeDSN(*dbURL),
		DatasetName:   *dataset,
		KeepTmp:       *keepTmp,
	}

	if err := shpimport.Run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}
