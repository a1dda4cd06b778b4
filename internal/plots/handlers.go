package plots

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

const plotSelectColumns = `
	id::text,
	plot_code,
	status,
	area_hectares,
	district,
	ward,
	village,
	COALESCE(attributes, '{}'::jsonb),
	created_at,
	updated_at,
	ST_AsGeoJSON(geometry)::json`

func scanFeatures(query string, args ...interface{}) ([]Feature, error) {
	rows, err := db.DB.Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := []Feature{}
	for rows.Next() {
		var (
			props   PlotProperties
			attrs   []byte
			geom    []byte
			created time.Time
			updated time.Time
		)
		if err := rows.Scan(
			&props.ID,
			&props.PlotCode,
			&props.Status,
			&props.AreaHectares,
			&props.District,
			&props.Ward,
			&props.Village,
			&attrs,
			&created,
			&updated,
			&geom,
		); err != nil {
			return nil, err
		}
		if len(geom) == 0 {
			log.Printf("plot %s has no geometry, skipping", props.PlotCode)
			continue
		}
		props.Attributes = json.RawMessage(attrs)
		props.CreatedAt = created.UTC()
		props.UpdatedAt = updated.UTC()
		features = append(features, NewFeature(props, json.RawMessage(geom)))
	}
	return features, rows.Err()
}

// ListPlotsHandler returns every plot as a GeoJSON FeatureCollection.
func ListPlotsHandler(w http.ResponseWriter, r *http.Request) {
	features, err := scanFeatures(`SELECT ` + plotSelectColumns + ` FROM land_plots ORDER BY plot_code`)
	if err != nil {
		http.Error(w, "Failed to fetch plots", http.StatusInternalServerError)
		log.Printf("list plots: %v", err)
		return
	}
	writeJSON(w, NewFeatureCollection(features))
}

// GetPlotHandler returns a single plot as a GeoJSON Feature.
func GetPlotHandler(w http.ResponseWriter, r *http.Request) {
	plotID := chi.URLParam(r, "plotID")
	if _, err := uuid.Parse(plotID); err != nil {
		http.Error(w, "Plot not found", http.StatusNotFound)
		return
	}

	features, err := scanFeatures(`SELECT `+plotSelectColumns+` FROM land_plots WHERE id = ?`, plotID)
	if err != nil {
		http.Error(w, "Failed to fetch plot", http.StatusInternalServerError)
		log.Printf("get plot %s: %v", plotID, err)
		return
	}
	if len(features) == 0 {
		http.Error(w, "Plot not found", http.StatusNotFound)
		return
	}
	writeJSON(w, features[0])
}

// SearchPlotsHandler filters plots by location fields, status, area range and
// bounding box. A malformed bbox is ignored rather than rejected.
func SearchPlotsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := SearchFilters{
		District: q.Get("district"),
		Ward:     q.Get("ward"),
		Village:  q.Get("village"),
		Status:   q.Get("status"),
	}

	if v := q.Get("min_area"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			http.Error(w, "min_area must be a non-negative number", http.StatusBadRequest)
			return
		}
		filters.MinArea = &f
	}
	if v := q.Get("max_area"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			http.Error(w, "max_area must be a non-negative number", http.StatusBadRequest)
			return
		}
		filters.MaxArea = &f
	}
	if v := q.Get("bbox"); v != "" {
		bbox, err := ParseBBox(v)
		if err != nil {
			log.Printf("invalid bbox %q: %v", v, err)
		} else {
			filters.BBox = &bbox
		}
	}

	where, args := BuildSearchWhere(filters)
	query := `SELECT ` + plotSelectColumns + ` FROM land_plots ` + where + ` ORDER BY plot_code`

	features, err := scanFeatures(query, args...)
	if err != nil {
		http.Error(w, "Failed to search plots", http.StatusInternalServerError)
		log.Printf("search plots: %v", err)
		return
	}
	writeJSON(w, NewFeatureCollection(features))
}

type SystemStats struct {
	TotalPlots        int64   `json:"total_plots"`
	AvailablePlots    int64   `json:"available_plots"`
	TakenPlots        int64   `json:"taken_plots"`
	PendingPlots      int64   `json:"pending_plots"`
	TotalOrders       int64   `json:"total_orders"`
	PendingOrders     int64   `json:"pending_orders"`
	ApprovedOrders    int64   `json:"approved_orders"`
	RejectedOrders    int64   `json:"rejected_orders"`
	Districts         int64   `json:"districts"`
	Wards             int64   `json:"wards"`
	Villages          int64   `json:"villages"`
	TotalAreaHectares float64 `json:"total_area_hectares"`
}

// StatsHandler aggregates plot and order counts for the dashboard.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	var stats SystemStats

	err := db.DB.Raw(`
		SELECT
			COUNT(*) AS total_plots,
			COUNT(*) FILTER (WHERE status = 'available') AS available_plots,
			COUNT(*) FILTER (WHERE status = 'taken') AS taken_plots,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_plots,
			COUNT(DISTINCT district) AS districts,
			COUNT(DISTINCT ward) AS wards,
			COUNT(DISTINCT village) AS villages,
			COALESCE(SUM(area_hectares), 0) AS total_area_hectares
		FROM land_plots
	`).Scan(&stats).Error
	if err != nil {
		http.Error(w, "Failed to fetch statistics", http.StatusInternalServerError)
		log.Printf("plot stats: %v", err)
		return
	}

	err = db.DB.Raw(`
		SELECT
			COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_orders,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved_orders,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_orders
		FROM plot_orders
	`).Scan(&stats).Error
	if err != nil {
		http.Error(w, "Failed to fetch statistics", http.StatusInternalServerError)
		log.Printf("order stats: %v", err)
		return
	}

	writeJSON(w, stats)
}
