package imports

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var importColumns = []string{
	"dataset_name", "prj", "cpg", "dbf_schema", "file_hashes",
	"feature_count", "imported_at", "bbox",
}

// setupMockDB swaps the global GORM handle for one backed by sqlmock and
// restores it when the test finishes.
func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() {
		db.DB = prev
		sqlDB.Close()
	})
	return mock
}

func getImport(t *testing.T, dataset string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/{datasetName}", GetImportHandler)

	req := httptest.NewRequest(http.MethodGet, "/"+dataset, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetImportReturnsMetadata(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT dataset_name").
		WithArgs("mbuyuni_plots").
		WillReturnRows(sqlmock.NewRows(importColumns).AddRow(
			"mbuyuni_plots", "GEOGCS[...]", "UTF-8",
			[]byte(`{"plot_code": "String"}`), []byte(`{"shp": "abc123"}`),
			int64(196), time.Now(), nil,
		))

	rec := getImport(t, "mbuyuni_plots")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body: %s", rec.Body.String())
	}
	if out["dataset_name"] != "mbuyuni_plots" {
		t.Errorf("dataset_name = %v", out["dataset_name"])
	}
	if out["feature_count"] != float64(196) {
		t.Errorf("feature_count = %v", out["feature_count"])
	}
}

func TestGetImportUnknownDataset(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT dataset_name").
		WithArgs("no_such_dataset").
		WillReturnRows(sqlmock.NewRows(importColumns))

	rec := getImport(t, "no_such_dataset")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Dataset not found") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

// An iteration failure must surface as a server error, not masquerade as a
// missing dataset.
func TestGetImportIterationFailureIsServerError(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT dataset_name").
		WithArgs("mbuyuni_plots").
		WillReturnRows(sqlmock.NewRows(importColumns).
			AddRow("mbuyuni_plots", "", "", []byte(`{}`), []byte(`{}`), int64(0), time.Now(), nil).
			RowError(0, errors.New("connection reset")))

	rec := getImport(t, "mbuyuni_plots")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d; body: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Dataset not found") {
		t.Error("iteration failure reported as a missing dataset")
	}
}

func TestListImportsNewestFirst(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT dataset_name").
		WillReturnRows(sqlmock.NewRows(importColumns).
			AddRow("newer", "", "", []byte(`{}`), []byte(`{}`), int64(10), time.Now(), nil).
			AddRow("older", "", "", []byte(`{}`), []byte(`{}`), int64(5), time.Now().Add(-time.Hour), nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ListImportsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Imports []importOut `json:"imports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body: %s", rec.Body.String())
	}
	if len(out.Imports) != 2 || out.Imports[0].DatasetName != "newer" {
		t.Errorf("unexpected imports: %+v", out.Imports)
	}
}
