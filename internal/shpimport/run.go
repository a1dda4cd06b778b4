package shpimport

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Tanzania bounds used for the post-import sanity check. Imports whose
// extent falls outside are almost always in the wrong projection.
const (
	tzMinLon = 29.0
	tzMaxLon = 41.0
	tzMinLat = -12.0
	tzMaxLat = -1.0
)

type Config struct {
	ShapefilePath string
	District      string
	Ward          string
	Village       string
	DatabaseURL   string
	// DatasetName defaults to the shapefile base name.
	DatasetName string
	// KeepTmp leaves the staging table in place for debugging.
	KeepTmp bool
}

// Run imports one shapefile into land_plots: stage raw features in a
// temporary table (ogr2ogr when installed, library fallback otherwise),
// normalize the heterogeneous attribute schema into land_plots with
// generated SQL, then record sidecar metadata in shapefile_imports.
func Run(ctx context.Context, cfg Config) error {
	comps, err := ValidateComponents(cfg.ShapefilePath)
	if err != nil {
		return err
	}

	if cfg.DatasetName == "" {
		base := filepath.Base(cfg.ShapefilePath)
		cfg.DatasetName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	// The API server owns the schema; refuse to import into a bare database.
	if _, err := db.ExecContext(ctx, `SELECT 1 FROM land_plots LIMIT 0`); err != nil {
		return errors.New("land_plots table missing; start the API server once to run migrations")
	}

	tmpTable := tmpTableName()
	log.Printf("staging table: %s", tmpTable)
	defer func() {
		if cfg.KeepTmp {
			log.Printf("keeping staging table %s", tmpTable)
			return
		}
		if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, tmpTable)); err != nil {
			log.Printf("drop staging table: %v", err)
		}
	}()

	srid := 4326
	if prj := comps.PRJText(); prj != "" {
		if code := DetectEPSG(prj); code != 0 {
			srid = code
		}
	}
	log.Printf("source SRID: %d", srid)

	staged := false
	if HaveOGR2OGR() {
		if err := importWithOGR2OGR(ctx, cfg.DatabaseURL, cfg.ShapefilePath, tmpTable); err != nil {
			log.Printf("ogr2ogr import failed, falling back to library path: %v", err)
		} else {
			staged = true
			// ogr2ogr already reprojected to 4326.
			srid = 4326
		}
	} else {
		log.Println("ogr2ogr not found, using library fallback")
	}
	if !staged {
		if err := fallbackImport(ctx, db, cfg.ShapefilePath, tmpTable, comps.CPGText(), srid); err != nil {
			return fmt.Errorf("fallback import: %w", err)
		}
	}

	inserted, err := normalize(ctx, db, tmpTable, srid, cfg.District, cfg.Ward, cfg.Village, cfg.DatasetName)
	if err != nil {
		return fmt.Errorf("normalize into land_plots: %w", err)
	}
	log.Printf("inserted %d new plots for dataset %s", inserted, cfg.DatasetName)

	if err := recordImport(ctx, db, comps, cfg.DatasetName); err != nil {
		return fmt.Errorf("record import metadata: %w", err)
	}

	return verifyImport(ctx, db, cfg.DatasetName)
}

// tmpTableName returns a randomized staging table name so concurrent imports
// don't clobber each other.
func tmpTableName() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return "_import_land_plots_" + hex.EncodeToString(b[:])
}

func verifyImport(ctx context.Context, db *sql.DB, datasetName string) error {
	var (
		count                          int64
		minLon, minLat, maxLon, maxLat sql.NullFloat64
	)
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       ST_XMin(ST_Extent(geometry)),
		       ST_YMin(ST_Extent(geometry)),
		       ST_XMax(ST_Extent(geometry)),
		       ST_YMax(ST_Extent(geometry))
		FROM land_plots
		WHERE dataset_name = $1
	`, datasetName).Scan(&count, &minLon, &minLat, &maxLon, &maxLat)
	if err != nil {
		return fmt.Errorf("verify import: %w", err)
	}

	if count == 0 {
		return fmt.Errorf("no plots imported for dataset %s; check the shapefile contents", datasetName)
	}
	log.Printf("dataset %s: %d plots, extent (%.6f, %.6f) to (%.6f, %.6f)",
		datasetName, count, minLon.Float64, minLat.Float64, maxLon.Float64, maxLat.Float64)

	if minLon.Float64 < tzMinLon || maxLon.Float64 > tzMaxLon ||
		minLat.Float64 < tzMinLat || maxLat.Float64 > tzMaxLat {
		log.Printf("WARNING: imported coordinates fall outside Tanzania bounds")
	}
	return nil
}
