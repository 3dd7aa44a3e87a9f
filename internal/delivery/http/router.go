package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"fieldbooking/internal/delivery/http/controllers"
	"fieldbooking/internal/delivery/http/middleware"
	"fieldbooking/internal/domain"
)

// RouterConfig carries the controllers and cross-cutting dependencies of the API.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string

	Events       *controllers.EventController
	Availability *controllers.AvailabilityController
	Roster       *controllers.RosterController
	Health       *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	r.Get("/healthz", cfg.Health.Health)

	r.Route("/events", func(r chi.Router) {
		r.With(requireAuth).Post("/", cfg.Events.CreateEvent)
		r.Get("/{eventID}", cfg.Events.GetEvent)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{eventID}/slots/{slotID}/join", cfg.Events.JoinSlot)
			r.Post("/{eventID}/slots/{slotID}/leave", cfg.Events.LeaveSlot)
			r.Post("/{eventID}/start", cfg.Events.StartEvent)
			r.Post("/{eventID}/complete", cfg.Events.CompleteEvent)
			r.Post("/{eventID}/cancel", cfg.Events.CancelEvent)
		})
	})

	r.Route("/availability", func(r chi.Router) {
		r.Get("/", cfg.Availability.ListAvailable)
		r.Get("/near", cfg.Availability.ListNear)
		r.Get("/fields", cfg.Availability.GroupByField)
	})

	r.Get("/roster-templates", cfg.Roster.ListTemplates)
	r.Get("/roster-templates/{fieldType}", cfg.Roster.GetTemplate)

	// Swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
