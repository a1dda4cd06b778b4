package imports

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type importOut struct {
	DatasetName  string          `json:"dataset_name"`
	PRJ          string          `json:"prj,omitempty"`
	CPG          string          `json:"cpg,omitempty"`
	DBFSchema    json.RawMessage `json:"dbf_schema"`
	FileHashes   json.RawMessage `json:"file_hashes"`
	FeatureCount int64           `json:"feature_count"`
	ImportedAt   time.Time       `json:"imported_at"`
	BBox         json.RawMessage `json:"bbox,omitempty"`
}

const importSelect = `
	SELECT dataset_name,
	       COALESCE(prj, ''),
	       COALESCE(cpg, ''),
	       COALESCE(dbf_schema, '{}'::jsonb),
	       COALESCE(file_hashes, '{}'::jsonb),
	       feature_count,
	       imported_at,
	       CASE WHEN bbox IS NOT NULL THEN ST_AsGeoJSON(bbox)::json ELSE NULL END
	FROM shapefile_imports`

func scanImport(rows *sql.Rows) (importOut, error) {
	var (
		out    importOut
		schema []byte
		hashes []byte
		bbox   []byte
	)
	err := rows.Scan(&out.DatasetName, &out.PRJ, &out.CPG, &schema, &hashes,
		&out.FeatureCount, &out.ImportedAt, &bbox)
	if err != nil {
		return out, err
	}
	out.DBFSchema = json.RawMessage(schema)
	out.FileHashes = json.RawMessage(hashes)
	if len(bbox) > 0 {
		out.BBox = json.RawMessage(bbox)
	}
	out.ImportedAt = out.ImportedAt.UTC()
	return out, nil
}

// ListImportsHandler returns import metadata for every dataset, newest first.
func ListImportsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := db.DB.Raw(importSelect + ` ORDER BY imported_at DESC`).Rows()
	if err != nil {
		http.Error(w, "Failed to list shapefile imports", http.StatusInternalServerError)
		log.Printf("list imports: %v", err)
		return
	}
	defer rows.Close()

	list := []importOut{}
	for rows.Next() {
		out, err := scanImport(rows)
		if err != nil {
			http.Error(w, "Failed to list shapefile imports", http.StatusInternalServerError)
			log.Printf("scan import: %v", err)
			return
		}
		list = append(list, out)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, "Failed to list shapefile imports", http.StatusInternalServerError)
		log.Printf("iterate imports: %v", err)
		return
	}

	writeJSON(w, map[string]any{"imports": list})
}

// GetImportHandler returns metadata for one dataset.
func GetImportHandler(w http.ResponseWriter, r *http.Request) {
	datasetName := chi.URLParam(r, "datasetName")

	rows, err := db.DB.Raw(importSelect+` WHERE dataset_name = ?`, datasetName).Rows()
	if err != nil {
		http.Error(w, "Failed to fetch shapefile import metadata", http.StatusInternalServerError)
		log.Printf("get import %s: %v", datasetName, err)
		return
	}
	defer rows.Close()

	if !rows.Next() {
		// No row can mean the iteration failed, not just an unknown dataset.
		if err := rows.Err(); err != nil {
			http.Error(w, "Failed to fetch shapefile import metadata", http.StatusInternalServerError)
			log.Printf("get import %s: %v", datasetName, err)
			return
		}
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}
	out, err := scanImport(rows)
	if err != nil {
		http.Error(w, "Failed to fetch shapefile import metadata", http.StatusInternalServerError)
		log.Printf("scan import %s: %v", datasetName, err)
		return
	}

	writeJSON(w, out)
}
