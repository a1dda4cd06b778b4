package shpimport

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/jonas-p/go-shp"
)

// recordImport upserts the dataset's provenance row in shapefile_imports:
// component hashes, sidecar text, the DBF attribute schema and the extent of
// the plots that landed.
func recordImport(ctx context.Context, db *sql.DB, comps Components, datasetName string) error {
	hashes, err := comps.Hashes()
	if err != nil {
		return err
	}
	hashesJSON, err := json.Marshal(hashes)
	if err != nil {
		return err
	}

	schema := dbfSchemaViaOGRInfo(ctx, comps.Paths["shp"], filepath.Base(comps.Base))
	if len(schema) == 0 {
		schema = dbfSchemaViaReader(comps.Paths["shp"])
	}
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO shapefile_imports (id, dataset_name, prj, cpg, dbf_schema, file_hashes, feature_count, bbox, imported_at)
		SELECT
			gen_random_uuid(), $1, $2, $3, $4::jsonb, $5::jsonb,
			COUNT(*),
			ST_SetSRID(ST_Extent(geometry)::geometry, 4326),
			now()
		FROM land_plots
		WHERE dataset_name = $1
		ON CONFLICT (dataset_name) DO UPDATE SET
			prj = EXCLUDED.prj,
			cpg = EXCLUDED.cpg,
			dbf_schema = EXCLUDED.dbf_schema,
			file_hashes = EXCLUDED.file_hashes,
			feature_count = EXCLUDED.feature_count,
			bbox = EXCLUDED.bbox,
			imported_at = now()
	`, datasetName, comps.PRJText(), comps.CPGText(), string(schemaJSON), string(hashesJSON))
	if err != nil {
		return fmt.Errorf("upsert shapefile_imports: %w", err)
	}
	return nil
}

// dbfSchemaViaReader reads the DBF field descriptors directly when ogrinfo is
// not available. Types use GDAL's names so both paths record the same shape.
func dbfSchemaViaReader(shpPath string) map[string]string {
	schema := map[string]string{}
	reader, err := shp.Open(shpPath)
	if err != nil {
		return schema
	}
	defer reader.Close()

	for _, f := range reader.Fields() {
		schema[f.String()] = dbfTypeName(f)
	}
	return schema
}

func dbfTypeName(f shp.Field) string {
	switch f.Fieldtype {
	case 'N':
		if f.Precision > 0 {
			return "Real"
		}
		return "Integer64"
	case 'F':
		return "Real"
	case 'D':
		return "Date"
	case 'L':
		return "Logical"
	default:
		return "String"
	}
}
