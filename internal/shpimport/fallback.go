package shpimport

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// fallbackImport stages a shapefile without GDAL: geometries are read with a
// pure-Go shapefile reader, DBF text decoded per the .cpg code page, and each
// feature inserted as (attributes jsonb, geometry) rows. Reprojection stays
// in PostGIS: geometries keep their source SRID here and normalization runs
// ST_Transform when it differs from 4326.
func fallbackImport(ctx context.Context, db *sql.DB, shpPath, tmpTable, cpg string, srid int) error {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return fmt.Errorf("open shapefile: %w", err)
	}
	defer reader.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tmpTable)); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE %s (id serial PRIMARY KEY, attributes jsonb, geometry geometry(MultiPolygon,%d))`,
		tmpTable, srid))
	if err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (attributes, geometry) VALUES ($1::jsonb, ST_SetSRID(ST_GeomFromGeoJSON($2), %d))`,
		tmpTable, srid))
	if err != nil {
		return err
	}
	defer stmt.Close()

	fields := reader.Fields()
	dec := decoderFor(cpg)

	n := 0
	for reader.Next() {
		row, shape := reader.Shape()

		mp, ok := shapeToMultiPolygon(shape)
		if !ok {
			log.Printf("feature %d: skipping non-polygon shape %T", row, shape)
			continue
		}

		attrs := map[string]interface{}{}
		for i, f := range fields {
			name := f.String()
			raw := strings.TrimSpace(reader.ReadAttribute(row, i))
			if raw == "" {
				continue
			}
			attrs[name] = dbfValue(f, decodeText(raw, dec))
		}

		attrJSON, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("feature %d: marshal attributes: %w", row, err)
		}
		geomJSON, err := geojson.NewGeometry(mp).MarshalJSON()
		if err != nil {
			return fmt.Errorf("feature %d: marshal geometry: %w", row, err)
		}

		if _, err := stmt.ExecContext(ctx, string(attrJSON), string(geomJSON)); err != nil {
			return fmt.Errorf("feature %d: insert: %w", row, err)
		}
		n++
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("read shapefile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("staged %d features via library fallback", n)
	return nil
}

// shapeToMultiPolygon converts a shapefile polygon (possibly with Z/M
// ordinates, which are dropped) into an orb.MultiPolygon.
func shapeToMultiPolygon(s shp.Shape) (orb.MultiPolygon, bool) {
	switch p := s.(type) {
	case *shp.Polygon:
		return ringsToMultiPolygon(splitRings(p.Parts, p.Points)), true
	case *shp.PolygonZ:
		return ringsToMultiPolygon(splitRings(p.Parts, p.Points)), true
	case *shp.PolygonM:
		return ringsToMultiPolygon(splitRings(p.Parts, p.Points)), true
	default:
		return nil, false
	}
}

func splitRings(parts []int32, points []shp.Point) []orb.Ring {
	rings := make([]orb.Ring, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		ring := make(orb.Ring, 0, end-int(start))
		for _, pt := range points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		rings = append(rings, ring)
	}
	return rings
}

// ringsToMultiPolygon groups shapefile rings into polygons. The shapefile
// spec winds outer rings clockwise and holes counter-clockwise; a hole
// belongs to the polygon opened by the preceding outer ring. A leading hole
// with no outer ring is promoted to an outer ring rather than dropped.
func ringsToMultiPolygon(rings []orb.Ring) orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, ring := range rings {
		if len(ring) < 4 {
			continue
		}
		isOuter := ring.Orientation() == orb.CW
		if isOuter || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
		} else {
			mp[len(mp)-1] = append(mp[len(mp)-1], ring)
		}
	}
	return mp
}

// decoderFor maps a .cpg declaration onto a text decoder. UTF-8 and unknown
// code pages pass through unchanged.
func decoderFor(cpg string) *encoding.Decoder {
	switch normalizeCPG(cpg) {
	case "88591", "latin1":
		return charmap.ISO8859_1.NewDecoder()
	case "1252":
		return charmap.Windows1252.NewDecoder()
	case "437":
		return charmap.CodePage437.NewDecoder()
	default:
		return nil
	}
}

// normalizeCPG strips the vendor prefixes .cpg files come with
// ("ISO-8859-1", "WINDOWS-1252", "ANSI 1252", "CP437", ...) down to the
// bare code-page number.
func normalizeCPG(cpg string) string {
	s := strings.ToLower(strings.TrimSpace(cpg))
	for _, prefix := range []string{"iso", "windows", "ansi", "cp"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

func decodeText(s string, dec *encoding.Decoder) string {
	if dec == nil {
		return s
	}
	out, err := dec.String(s)
	if err != nil {
		return s
	}
	return out
}

// dbfValue coerces DBF field text into a JSON-friendly type based on the
// declared field type: N/F numeric, L logical, everything else string.
func dbfValue(f shp.Field, raw string) interface{} {
	switch f.Fieldtype {
	case 'N', 'F':
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case 'L':
		switch strings.ToUpper(raw) {
		case "T", "Y":
			return true
		case "F", "N":
			return false
		}
	}
	return raw
}
