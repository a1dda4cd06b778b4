package imports

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListImportsHandler)
	r.Get("/{datasetName}", GetImportHandler)

	return r
}
