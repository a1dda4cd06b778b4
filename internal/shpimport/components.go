package shpimport

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Components resolves the sidecar files that make up one shapefile dataset.
// .shp, .shx and .dbf are mandatory; .prj and .cpg are optional but feed
// SRID detection and DBF text decoding.
type Components struct {
	Base  string // path without extension
	Paths map[string]string
}

var requiredExts = []string{"shp", "shx", "dbf"}
var allExts = []string{"shp", "shx", "dbf", "prj", "cpg"}

func ValidateComponents(shpPath string) (Components, error) {
	if !strings.EqualFold(ext(shpPath), "shp") {
		return Components{}, fmt.Errorf("expected a .shp file, got %s", shpPath)
	}
	base := strings.TrimSuffix(shpPath, "."+ext(shpPath))

	c := Components{Base: base, Paths: map[string]string{}}
	for _, e := range allExts {
		p := base + "." + e
		if _, err := os.Stat(p); err == nil {
			c.Paths[e] = p
		}
	}

	var missing []string
	for _, e := range requiredExts {
		if _, ok := c.Paths[e]; !ok {
			missing = append(missing, "."+e)
		}
	}
	if len(missing) > 0 {
		return Components{}, fmt.Errorf("shapefile missing required components: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

func ext(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return ""
	}
	return path[i+1:]
}

// PRJText returns the projection WKT, or "" when there is no .prj sidecar.
func (c Components) PRJText() string {
	return c.readText("prj")
}

// CPGText returns the DBF code page declaration, or "".
func (c Components) CPGText() string {
	return strings.TrimSpace(c.readText("cpg"))
}

func (c Components) readText(e string) string {
	p, ok := c.Paths[e]
	if !ok {
		return ""
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	return string(b)
}

// Hashes returns the sha256 of every present component, keyed by extension.
func (c Components) Hashes() (map[string]string, error) {
	hashes := map[string]string{}
	for e, p := range c.Paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", p, err)
		}
		sum := sha256.Sum256(b)
		hashes[e] = hex.EncodeToString(sum[:])
	}
	return hashes, nil
}
