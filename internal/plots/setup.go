package plots

import (
	"log"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
)

func Init() {
	// Geometry columns need PostGIS before AutoMigrate can create the table.
	if err := db.EnsurePostGIS(db.DB); err != nil {
		log.Fatal("Failed to enable PostGIS extension: ", err)
	}

	if err := db.DB.AutoMigrate(&LandPlot{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	if err := db.DB.Exec(`
        ALTER TABLE land_plots DROP CONSTRAINT IF EXISTS check_plot_status;
        ALTER TABLE land_plots ADD CONSTRAINT check_plot_status
            CHECK (status IN ('available', 'taken', 'pending'));
    `).Error; err != nil {
		log.Fatal("Failed to create check_plot_status", err)
	}

	// GiST index for bbox and point-in-polygon queries.
	if err := db.DB.Exec(`
        CREATE INDEX IF NOT EXISTS land_plots_geometry_idx
        ON land_plots USING GIST (geometry);
    `).Error; err != nil {
		log.Fatal("Failed to create land_plots_geometry_idx", err)
	}
}
