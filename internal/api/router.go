package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	Service BookingService
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string

	// DefaultUserID books appointments that arrive without a user_id. Stands
	// in for the authenticated identity until the gateway handles auth.
	DefaultUserID uuid.UUID
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get("/providers", listProvidersHandler(cfg.Service))
	r.Get("/providers/{providerID}/day-availability", dayAvailabilityHandler(cfg.Service))
	r.Post("/appointments", createAppointmentHandler(cfg.Service, cfg.DefaultUserID))

	return r
}
