package shpimport

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"
)

// plotCodeCandidates are the attribute names, compared case-insensitively,
// that surveyors' shapefiles use for the parcel identifier.
var plotCodeCandidates = []string{"plot_code", "plotid", "code", "plot_no", "plotnum"}

var geometryColumnCandidates = []string{"geometry", "geom", "wkb_geometry"}

func findPlotCodeColumn(cols []string) string {
	for _, c := range cols {
		for _, cand := range plotCodeCandidates {
			if strings.EqualFold(c, cand) {
				return c
			}
		}
	}
	return ""
}

func findGeometryColumn(cols []string) string {
	for _, cand := range geometryColumnCandidates {
		for _, c := range cols {
			if c == cand {
				return c
			}
		}
	}
	return ""
}

// geomExpr yields the 4326 geometry expression for a staged column.
// Reprojection belongs to PostGIS, so a non-4326 staging SRID just wraps the
// column in ST_Transform.
func geomExpr(col string, srid int) string {
	if srid != 4326 {
		return fmt.Sprintf("ST_Transform(%s, 4326)", col)
	}
	return col
}

// synthPlotCodeExpr numbers features 'MBY-0001', 'MBY-0002', ... when the
// source carries no usable identifier.
func synthPlotCodeExpr(orderCol string) string {
	return fmt.Sprintf("'MBY-' || LPAD(row_number() OVER (ORDER BY %s)::text, 4, '0')", orderCol)
}

// buildAttributesJSON composes the jsonb_build_object over the staged scalar
// columns, or an empty object when there are none.
func buildAttributesJSON(attrCols []string) string {
	if len(attrCols) == 0 {
		return "'{}'::jsonb"
	}
	pairs := make([]string, 0, len(attrCols))
	for _, c := range attrCols {
		pairs = append(pairs, fmt.Sprintf("'%s', %s", strings.ReplaceAll(c, "'", "''"), pq.QuoteIdentifier(c)))
	}
	return "jsonb_strip_nulls(jsonb_build_object(" + strings.Join(pairs, ", ") + "))"
}

// buildNormalizeScalarSQL generates the INSERT for an ogr2ogr-staged table:
// scalar attribute columns are folded into a jsonb object, a plot code is
// taken from a recognized column or synthesized, and existing plot codes are
// left alone. orderCol is a raw column name; it is carried through the
// subquery so the row_number window can reference it even when it is not an
// attribute column (ogc_fid in particular).
func buildNormalizeScalarSQL(tmpTable, geomCol string, attrCols []string, attrKey, orderCol string, srid int) string {
	cols := make([]string, 0, len(attrCols)+2)
	for _, c := range attrCols {
		cols = append(cols, pq.QuoteIdentifier(c))
	}
	if orderCol != geomCol && !contains(attrCols, orderCol) {
		cols = append(cols, pq.QuoteIdentifier(orderCol))
	}
	cols = append(cols, pq.QuoteIdentifier(geomCol)+" AS geometry")
	selectCols := strings.Join(cols, ", ")

	orderExpr := pq.QuoteIdentifier(orderCol)
	if orderCol == geomCol {
		orderExpr = "geometry"
	}

	plotCodeExpr := synthPlotCodeExpr(orderExpr)
	if attrKey != "" {
		plotCodeExpr = fmt.Sprintf("COALESCE(NULLIF(%s::text, ''), %s)",
			pq.QuoteIdentifier(attrKey), synthPlotCodeExpr(orderExpr))
	}

	g := geomExpr("geometry", srid)
	return fmt.Sprintf(`
		WITH src AS (
			SELECT *, %s AS plot_code_raw FROM (
				SELECT %s, %s AS attributes
				FROM %s
			) a
		)
		INSERT INTO land_plots(id, plot_code, status, area_hectares, district, ward, village, dataset_name, geometry, attributes, created_at, updated_at)
		SELECT
			gen_random_uuid(),
			plot_code_raw,
			'available',
			ROUND(CAST(ST_Area(geography(%s)) / 10000 AS numeric), 4),
			$1, $2, $3, $4,
			ST_Multi(ST_Force2D(%s))::geometry(MultiPolygon,4326),
			attributes,
			now(), now()
		FROM src s
		WHERE NOT EXISTS (SELECT 1 FROM land_plots lp WHERE lp.plot_code = s.plot_code_raw)`,
		plotCodeExpr, selectCols, buildAttributesJSON(attrCols), tmpTable, g, g)
}

// buildNormalizeJSONBSQL generates the INSERT for a library-staged table,
// where attributes already live in a jsonb column.
func buildNormalizeJSONBSQL(tmpTable, attrKey string, srid int) string {
	plotCodeExpr := synthPlotCodeExpr("id")
	if attrKey != "" {
		plotCodeExpr = fmt.Sprintf("COALESCE(NULLIF(attributes ->> '%s', ''), %s)",
			strings.ReplaceAll(attrKey, "'", "''"), synthPlotCodeExpr("id"))
	}

	g := geomExpr("geometry", srid)
	return fmt.Sprintf(`
		WITH src AS (
			SELECT %s AS plot_code_raw, attributes, geometry FROM %s
		)
		INSERT INTO land_plots(id, plot_code, status, area_hectares, district, ward, village, dataset_name, geometry, attributes, created_at, updated_at)
		SELECT
			gen_random_uuid(),
			plot_code_raw,
			'available',
			ROUND(CAST(ST_Area(geography(%s)) / 10000 AS numeric), 4),
			$1, $2, $3, $4,
			ST_Multi(ST_Force2D(%s))::geometry(MultiPolygon,4326),
			COALESCE(attributes, '{}'::jsonb),
			now(), now()
		FROM src s
		WHERE NOT EXISTS (SELECT 1 FROM land_plots lp WHERE lp.plot_code = s.plot_code_raw)`,
		plotCodeExpr, tmpTable, g, g)
}

// normalize reconciles whatever attribute schema landed in the staging table
// into land_plots. The staging table shape depends on the import path, so
// the columns are introspected and the INSERT generated to match.
func normalize(ctx context.Context, db *sql.DB, tmpTable string, srid int, district, ward, village, datasetName string) (int64, error) {
	cols, err := tableColumns(ctx, db, tmpTable)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("staging table %s has no columns", tmpTable)
	}

	var query string
	if contains(cols, "attributes") {
		attrKey, err := samplePlotCodeKey(ctx, db, tmpTable)
		if err != nil {
			return 0, err
		}
		query = buildNormalizeJSONBSQL(tmpTable, attrKey, srid)
	} else {
		geomCol := findGeometryColumn(cols)
		if geomCol == "" {
			return 0, errors.New("could not detect geometry column in staging table")
		}

		var attrCols []string
		for _, c := range cols {
			if c == geomCol || c == "ogc_fid" || c == "id" {
				continue
			}
			attrCols = append(attrCols, c)
		}

		attrKey := findPlotCodeColumn(attrCols)
		orderCol := "ogc_fid"
		if !contains(cols, orderCol) {
			if len(attrCols) > 0 {
				orderCol = attrCols[0]
			} else {
				orderCol = geomCol
			}
		}
		query = buildNormalizeScalarSQL(tmpTable, geomCol, attrCols, attrKey, orderCol, srid)
	}

	res, err := db.ExecContext(ctx, query, district, ward, village, datasetName)
	if err != nil {
		return 0, fmt.Errorf("normalize insert: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("introspect %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// samplePlotCodeKey inspects one staged attributes object for a recognized
// plot-code key.
func samplePlotCodeKey(ctx context.Context, db *sql.DB, tmpTable string) (string, error) {
	var raw []byte
	err := db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT attributes FROM %s WHERE attributes IS NOT NULL LIMIT 1`, tmpTable)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sample attributes: %w", err)
	}

	var attrs map[string]interface{}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		log.Printf("unparseable sample attributes, synthesizing plot codes: %v", err)
		return "", nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	return findPlotCodeColumn(keys), nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
