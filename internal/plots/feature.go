package plots

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GeoJSON envelope types. Only the shapes the API serves; geometry payloads
// come straight from ST_AsGeoJSON and are never re-parsed.

type Feature struct {
	Type       string          `json:"type"`
	Properties PlotProperties  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type PlotProperties struct {
	ID           string          `json:"id"`
	PlotCode     string          `json:"plot_code"`
	Status       string          `json:"status"`
	AreaHectares float64         `json:"area_hectares"`
	District     string          `json:"district"`
	Ward         string          `json:"ward"`
	Village      string          `json:"village"`
	Attributes   json.RawMessage `json:"attributes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

func NewFeature(props PlotProperties, geometry json.RawMessage) Feature {
	if len(props.Attributes) == 0 {
		props.Attributes = json.RawMessage("{}")
	}
	return Feature{Type: "Feature", Properties: props, Geometry: geometry}
}

// BBox is minx,miny,maxx,maxy in lon/lat order.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// ParseBBox parses the "minx,miny,maxx,maxy" query parameter.
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox must have 4 comma-separated values, got %d", len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("bbox value %q is not a number", p)
		}
		vals[i] = v
	}
	b := BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	if b.MinX > b.MaxX || b.MinY > b.MaxY {
		return BBox{}, fmt.Errorf("bbox min corner exceeds max corner")
	}
	return b, nil
}

// SearchFilters are the supported /plots/search parameters. Nil pointers mean
// "not filtered".
type SearchFilters struct {
	District string
	Ward     string
	Village  string
	Status   string
	MinArea  *float64
	MaxArea  *float64
	BBox     *BBox
}

// BuildSearchWhere composes the WHERE clause and its positional args for a
// plot search. Returns an empty clause when nothing is filtered.
func BuildSearchWhere(f SearchFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.District != "" {
		conditions = append(conditions, "LOWER(district) = LOWER(?)")
		args = append(args, f.District)
	}
	if f.Ward != "" {
		conditions = append(conditions, "LOWER(ward) = LOWER(?)")
		args = append(args, f.Ward)
	}
	if f.Village != "" {
		conditions = append(conditions, "LOWER(village) = LOWER(?)")
		args = append(args, f.Village)
	}
	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.MinArea != nil {
		conditions = append(conditions, "area_hectares >= ?")
		args = append(args, *f.MinArea)
	}
	if f.MaxArea != nil {
		conditions = append(conditions, "area_hectares <= ?")
		args = append(args, *f.MaxArea)
	}
	if f.BBox != nil {
		conditions = append(conditions, "ST_Intersects(geometry, ST_MakeEnvelope(?, ?, ?, ?, 4326))")
		args = append(args, f.BBox.MinX, f.BBox.MinY, f.BBox.MaxX, f.BBox.MaxY)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
