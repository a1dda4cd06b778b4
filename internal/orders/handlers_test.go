package orders

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Requests that fail before any database access. Anything deeper needs a
// live database and lives in the integration tests.

func postOrder(t *testing.T, plotID, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/plots/{plotID}/order", CreateOrderHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/plots/"+plotID+"/order", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderRejectsBadPlotID(t *testing.T) {
	rec := postOrder(t, "not-a-uuid", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for non-uuid plot id, got %d", rec.Code)
	}
}

func TestCreateOrderRejectsBadJSON(t *testing.T) {
	rec := postOrder(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestCreateOrderRejectsInvalidInput(t *testing.T) {
	body := `{"customer_name": "A", "customer_phone": "0712345678", "customer_id_number": "12345", "intended_use": "residential"}`
	rec := postOrder(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for too-short name, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "customer name") {
		t.Errorf("error should name the failing field, got %q", rec.Body.String())
	}
}

func TestUpdateOrderStatusRejectsBadOrderID(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/{orderID}/status", UpdateOrderStatusHandler)

	req := httptest.NewRequest(http.MethodPut, "/nope/status", strings.NewReader(`{"status":"approved"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for non-uuid order id, got %d", rec.Code)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/{orderID}/status", UpdateOrderStatusHandler)

	req := httptest.NewRequest(http.MethodPut,
		"/7c9e6679-7425-40de-944b-e07fc1f90ae7/status",
		strings.NewReader(`{"status":"cancelled"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", rec.Code)
	}
}
