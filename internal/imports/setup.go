package imports

import (
	"log"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&ShapefileImport{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
