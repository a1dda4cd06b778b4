package seeds

import (
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GridConfig describes a synthetic rectangular plot grid for demo
// environments where no surveyed shapefile is available yet.
type GridConfig struct {
	District    string `yaml:"district"`
	Ward        string `yaml:"ward"`
	Village     string `yaml:"village"`
	DatasetName string `yaml:"dataset_name"`
	CodePrefix  string `yaml:"code_prefix"`
	Origin      struct {
		Lat float64 `yaml:"lat"`
		Lng float64 `yaml:"lng"`
	} `yaml:"origin"`
	Grid struct {
		Rows int `yaml:"rows"`
		Cols int `yaml:"cols"`
	} `yaml:"grid"`
	Plot struct {
		WidthM  float64 `yaml:"width_m"`
		HeightM float64 `yaml:"height_m"`
		GapM    float64 `yaml:"gap_m"`
	} `yaml:"plot"`
}

func LoadGridConfig(path string) (GridConfig, error) {
	var cfg GridConfig
	file, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Grid.Rows <= 0 || cfg.Grid.Cols <= 0 {
		return cfg, fmt.Errorf("grid must have positive rows and cols, got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Plot.WidthM <= 0 || cfg.Plot.HeightM <= 0 {
		return cfg, fmt.Errorf("plot dimensions must be positive")
	}
	if cfg.CodePrefix == "" {
		cfg.CodePrefix = "MBY-DEMO-"
	}
	return cfg, nil
}

// GridPlot is one generated parcel: its code and GeoJSON geometry.
type GridPlot struct {
	Code         string
	GeometryJSON string
}

const metersPerDegreeLat = 111320.0

// GenerateGrid lays out rows x cols rectangular plots north-east of the
// origin, separated by the configured gap. Geometry is WGS84; meter
// dimensions are converted to degrees at the origin latitude, which is
// accurate enough for village-scale demo data.
func GenerateGrid(cfg GridConfig) ([]GridPlot, error) {
	dLat := func(m float64) float64 { return m / metersPerDegreeLat }
	dLng := func(m float64) float64 {
		return m / (metersPerDegreeLat * math.Cos(cfg.Origin.Lat*math.Pi/180))
	}

	stepLng := dLng(cfg.Plot.WidthM + cfg.Plot.GapM)
	stepLat := dLat(cfg.Plot.HeightM + cfg.Plot.GapM)
	w := dLng(cfg.Plot.WidthM)
	h := dLat(cfg.Plot.HeightM)

	plots := make([]GridPlot, 0, cfg.Grid.Rows*cfg.Grid.Cols)
	n := 0
	for row := 0; row < cfg.Grid.Rows; row++ {
		for col := 0; col < cfg.Grid.Cols; col++ {
			n++
			minLng := cfg.Origin.Lng + float64(col)*stepLng
			minLat := cfg.Origin.Lat + float64(row)*stepLat

			ring := orb.Ring{
				{minLng, minLat},
				{minLng + w, minLat},
				{minLng + w, minLat + h},
				{minLng, minLat + h},
				{minLng, minLat},
			}
			geomJSON, err := geojson.NewGeometry(orb.MultiPolygon{{ring}}).MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("marshal plot %d geometry: %w", n, err)
			}

			plots = append(plots, GridPlot{
				Code:         fmt.Sprintf("%s%04d", cfg.CodePrefix, n),
				GeometryJSON: string(geomJSON),
			})
		}
	}
	return plots, nil
}
