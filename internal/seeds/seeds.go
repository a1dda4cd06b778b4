package seeds

import (
	"fmt"
	"log"
	"os"

	"github.com/ArdhiYetu/AY-Backend/internal/auth"
	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/ArdhiYetu/AY-Backend/internal/plots"
	"github.com/ArdhiYetu/AY-Backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedAll() error {
	if err := SeedAdminUser(); err != nil {
		return err
	}
	if err := SeedDemoPlots("internal/seeds/data/demo_plots.yaml"); err != nil {
		return err
	}
	return nil
}

// SeedAdminUser creates the initial admin account from ADMIN_USERNAME and
// ADMIN_PASSWORD. Skips quietly when the account already exists, and skips
// with a warning when no password is configured.
func SeedAdminUser() error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("⚠️ ADMIN_PASSWORD not set, skipping admin user seed")
		return nil
	}

	var existing auth.User
	err := db.DB.First(&existing, "username = ?", username).Error
	if err == nil {
		log.Printf("⚠️ Admin user exists, skipping: %s", username)
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("DB error on admin user %s: %w", username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := auth.User{
		UserID:         utils.GenerateUUID(),
		Username:       username,
		HashedPassword: string(hash),
		Role:           "admin",
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("✅ Seeded admin user %s", username)
	return nil
}

// SeedDemoPlots generates a rectangular demo grid from the YAML config and
// inserts the plots that don't exist yet. Area is computed by PostGIS from
// the generated geometry.
func SeedDemoPlots(configPath string) error {
	cfg, err := LoadGridConfig(configPath)
	if err != nil {
		return err
	}
	grid, err := GenerateGrid(cfg)
	if err != nil {
		return err
	}

	seeded := 0
	for _, plot := range grid {
		var existing plots.LandPlot
		err := db.DB.First(&existing, "plot_code = ?", plot.Code).Error
		if err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on plot %s: %w", plot.Code, err)
		}

		err = db.DB.Exec(`
			INSERT INTO land_plots (id, plot_code, status, area_hectares, district, ward, village, dataset_name, geometry, attributes, created_at, updated_at)
			VALUES (
				gen_random_uuid(), ?, 'available',
				ROUND(CAST(ST_Area(geography(ST_GeomFromGeoJSON(?))) / 10000 AS numeric), 4),
				?, ?, ?, ?,
				ST_Multi(ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)),
				'{"source": "seed"}'::jsonb,
				now(), now()
			)`,
			plot.Code, plot.GeometryJSON,
			cfg.District, cfg.Ward, cfg.Village, cfg.DatasetName,
			plot.GeometryJSON,
		).Error
		if err != nil {
			return fmt.Errorf("failed to create plot %s: %w", plot.Code, err)
		}
		seeded++
	}

	log.Printf("✅ Seeded %d demo plots (%d already existed)", seeded, len(grid)-seeded)
	return nil
}
