package main

import (
	"log"

	"github.com/ArdhiYetu/AY-Backend/internal/auth"
	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/ArdhiYetu/AY-Backend/internal/plots"
	"github.com/ArdhiYetu/AY-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	auth.Init()
	plots.Init()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
