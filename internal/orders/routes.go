package orders

import (
	"net/http"

	"github.com/ArdhiYetu/AY-Backend/internal/auth"
	"github.com/ArdhiYetu/AY-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Get("/", ListOrdersHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))
		r.Put("/{orderID}/status", UpdateOrderStatusHandler)
	})

	return r
}
