package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/auth"
	"github.com/teammatch/backend/internal/middleware"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Health      *HealthHandler
	Events      *EventHandler
	Profiles    *ProfileHandler
	Matches     *MatchHandler
	Connections *ConnectionHandler
	Devices     *DeviceHandler
	WebSocket   *WebSocketManager
}

// Router holds all handlers and creates the chi router
type Router struct {
	handlers    Handlers
	jwtManager  *auth.JWTManager
	corsOrigins []string
	logger      *zap.Logger
}

// NewRouter creates a new router
func NewRouter(handlers Handlers, jwtManager *auth.JWTManager, corsOrigins []string, logger *zap.Logger) *Router {
	return &Router{
		handlers:    handlers,
		jwtManager:  jwtManager,
		corsOrigins: corsOrigins,
		logger:      logger,
	}
}

// Setup configures and returns the chi router
func (rt *Router) Setup() *chi.Mux {
	h := rt.handlers
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(rt.corsOrigins))

	// Health endpoints (no auth required)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.Health.Health)
		r.Get("/ready", h.Health.Ready)
		r.Get("/live", h.Health.Live)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(rt.jwtManager))

		// Websocket stays outside Compress so the connection can be hijacked.
		r.Get("/ws", h.WebSocket.ServeWS)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5))

			r.Get("/me/events", h.Events.ListJoined)
			r.Get("/me/hosted-events", h.Events.ListHosted)
			r.Put("/devices", h.Devices.Register)

			r.Route("/events", func(r chi.Router) {
				r.Post("/", h.Events.Create)
				r.Get("/code/{code}", h.Events.GetByCode)

				r.Route("/{eventID}", func(r chi.Router) {
					r.Get("/", h.Events.Get)
					r.Post("/join", h.Events.Join)

					r.Put("/profile", h.Profiles.Upsert)
					r.Get("/profile", h.Profiles.GetMine)
					r.Get("/profile/{userID}", h.Profiles.Get)
					r.Get("/participants", h.Profiles.ListParticipants)

					r.Post("/matches/generate", h.Matches.Generate)
					r.Get("/matches", h.Matches.List)
					r.Delete("/matches/{targetID}", h.Matches.Pass)

					r.Post("/connections", h.Connections.ExpressInterest)
					r.Get("/connections", h.Connections.List)
					r.Post("/connections/{userID}/decline", h.Connections.Decline)
				})
			})
		})
	})

	return r
}
