package orders

import (
	"time"

	"github.com/ArdhiYetu/AY-Backend/internal/plots"
	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	UseResidential  = "residential"
	UseCommercial   = "commercial"
	UseAgricultural = "agricultural"
	UseIndustrial   = "industrial"
	UseMixed        = "mixed"
)

type PlotOrder struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlotID           uuid.UUID `gorm:"type:uuid;not null;index" json:"plot_id"`
	CustomerName     string    `gorm:"size:200;not null" json:"customer_name"`
	CustomerPhone    string    `gorm:"size:20;not null" json:"customer_phone"`
	CustomerEmail    string    `gorm:"size:200" json:"customer_email,omitempty"`
	CustomerIDNumber string    `gorm:"size:50;not null;index" json:"customer_id_number"`
	IntendedUse      string    `gorm:"size:50;not null" json:"intended_use"`
	Notes            string    `gorm:"type:text" json:"notes,omitempty"`
	Status           string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Plot plots.LandPlot `gorm:"foreignKey:PlotID" json:"-"`
}

func (PlotOrder) TableName() string { return "plot_orders" }

// OrderWithPlot is the list-endpoint row: an order joined with the plot code
// customers actually recognize.
type OrderWithPlot struct {
	ID               string    `json:"id"`
	PlotID           string    `json:"plot_id"`
	PlotCode         string    `json:"plot_code"`
	CustomerName     string    `json:"customer_name"`
	CustomerPhone    string    `json:"customer_phone"`
	CustomerEmail    string    `json:"customer_email,omitempty"`
	CustomerIDNumber string    `json:"customer_id_number"`
	IntendedUse      string    `json:"intended_use"`
	Notes            string    `json:"notes,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
