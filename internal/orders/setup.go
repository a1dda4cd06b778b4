package orders

import (
	"log"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&PlotOrder{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	if err := db.DB.Exec(`
        ALTER TABLE plot_orders DROP CONSTRAINT IF EXISTS check_intended_use;
        ALTER TABLE plot_orders ADD CONSTRAINT check_intended_use
            CHECK (intended_use IN ('residential', 'commercial', 'agricultural', 'industrial', 'mixed'));
        ALTER TABLE plot_orders DROP CONSTRAINT IF EXISTS check_order_status;
        ALTER TABLE plot_orders ADD CONSTRAINT check_order_status
            CHECK (status IN ('pending', 'approved', 'rejected'));
    `).Error; err != nil {
		log.Fatal("Failed to create plot_orders constraints", err)
	}
}
