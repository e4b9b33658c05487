package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tripweaver/tripweaver/internal/container"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	Container              *container.Container
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter wires the /api/v1 route tree. Server-wide middleware
// (request ID, logging, recoverer) are applied before mounting this router
// in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.Container.AuthHandler.Register)
			r.Post("/auth/login", cfg.Container.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.Container.AuthHandler.RefreshSession)

			r.Get("/poi/search", cfg.Container.POIHandler.SearchPOIs)

			r.Post("/itinerary/plan", cfg.Container.PlanHandler.PlanItinerary)
			r.Post("/itinerary/plan/ics", cfg.Container.PlanHandler.ExportICS)
			r.Post("/itinerary/plan/pdf", cfg.Container.PlanHandler.ExportPDF)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.Container.AuthHandler.Logout)

			r.Post("/itineraries", cfg.Container.ItineraryHandler.SaveItinerary)
			r.Get("/itineraries", cfg.Container.ItineraryHandler.GetItineraries)
			r.Get("/itineraries/{id}", cfg.Container.ItineraryHandler.GetItinerary)
			r.Delete("/itineraries/{id}", cfg.Container.ItineraryHandler.DeleteItinerary)
		})
	})

	return r
}
