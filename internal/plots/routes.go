package plots

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListPlotsHandler)
	r.Get("/search", SearchPlotsHandler)
	r.Get("/{plotID}", GetPlotHandler)

	return r
}
