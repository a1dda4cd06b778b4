package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ArdhiYetu/AY-Backend/internal/auth"
	"github.com/ArdhiYetu/AY-Backend/internal/db"
	"github.com/ArdhiYetu/AY-Backend/internal/imports"
	"github.com/ArdhiYetu/AY-Backend/internal/middleware"
	"github.com/ArdhiYetu/AY-Backend/internal/orders"
	"github.com/ArdhiYetu/AY-Backend/internal/plots"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status": "degraded", "database": "unreachable"}`)
		return
	}
	fmt.Fprintf(w, `{"status": "ok", "database": "connected"}`)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	plots.Init()
	orders.Init()
	imports.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)
	r.Get("/health", HealthHandler)

	r.Mount("/api/auth", auth.SetupRoutes())
	r.Mount("/api/plots", plots.SetupRoutes())
	r.Mount("/api/orders", orders.SetupRoutes())
	r.Mount("/api/imports", imports.SetupRoutes())
	r.Get("/api/stats", plots.StatsHandler)

	// Ordering is public, so it gets a per-IP rate limit.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(1, 5))
		r.Post("/api/plots/{plotID}/order", orders.CreateOrderHandler)
	})

	fmt.Println("Server listening on port :" + port + "...")

	log.Fatal(http.ListenAndServe("0.0.0.0:"+port, r))
}
