package imports

import (
	"time"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/google/uuid"
)

// ShapefileImport records the provenance of one imported dataset: sidecar
// file contents, component hashes and the spatial extent of what landed in
// land_plots.
type ShapefileImport struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	DatasetName  string    `gorm:"size:100;uniqueIndex;not null" json:"dataset_name"`
	PRJ          string    `gorm:"column:prj;type:text" json:"prj,omitempty"`
	CPG          string    `gorm:"column:cpg;size:50" json:"cpg,omitempty"`
	DBFSchema    db.JSONB  `gorm:"column:dbf_schema;type:jsonb;default:'{}'" json:"dbf_schema"`
	FileHashes   db.JSONB  `gorm:"type:jsonb;default:'{}'" json:"file_hashes"`
	FeatureCount int64     `gorm:"not null;default:0" json:"feature_count"`
	BBox         string    `gorm:"column:bbox;type:geometry(Polygon,4326)" json:"-"`
	ImportedAt   time.Time `gorm:"autoCreateTime" json:"imported_at"`
}

func (ShapefileImport) TableName() string { return "shapefile_imports" }
