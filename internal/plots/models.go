package plots

import (
	"time"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/google/uuid"
)

const (
	StatusAvailable = "available"
	StatusTaken     = "taken"
	StatusPending   = "pending"
)

type LandPlot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlotCode     string    `gorm:"size:50;uniqueIndex;not null" json:"plot_code"`
	Status       string    `gorm:"size:20;not null;default:'available';index" json:"status"`
	AreaHectares float64   `gorm:"type:numeric(10,4);not null" json:"area_hectares"`
	District     string    `gorm:"size:100;not null;index" json:"district"`
	Ward         string    `gorm:"size:100;not null" json:"ward"`
	Village      string    `gorm:"size:100;not null" json:"village"`
	DatasetName  string    `gorm:"size:100;index" json:"dataset_name"`
	// EWKB hex when read through GORM; API responses use ST_AsGeoJSON instead.
	Geometry   string   `gorm:"type:geometry(MultiPolygon,4326);not null" json:"-"`
	Attributes db.JSONB `gorm:"type:jsonb;default:'{}'" json:"attributes"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (LandPlot) TableName() string { return "land_plots" }
