package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luisromero/bidhaus-backend/api/controllers"
	claimscontrollers "github.com/luisromero/bidhaus-backend/api/controllers/claims"
	ledgercontrollers "github.com/luisromero/bidhaus-backend/api/controllers/ledger"
	livecontrollers "github.com/luisromero/bidhaus-backend/api/controllers/live"
	"github.com/luisromero/bidhaus-backend/api/middleware"
	internalclaims "github.com/luisromero/bidhaus-backend/internal/claims"
	internalledger "github.com/luisromero/bidhaus-backend/internal/ledger"
	"github.com/luisromero/bidhaus-backend/internal/stream"
	"github.com/luisromero/bidhaus-backend/pkg/auth/session"
	"github.com/luisromero/bidhaus-backend/pkg/config"
	"github.com/luisromero/bidhaus-backend/pkg/db"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	ledgerService internalledger.Service,
	claimsService internalclaims.Service,
	hub *stream.Hub,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	// Token auth happens inside the handler: anonymous clients may watch
	// the public streams.
	r.Get("/api/v1/live", livecontrollers.NewHandler(hub, cfg.JWT, cfg.Stream, sessions, logg).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", ledgercontrollers.List(ledgerService, logg))
			r.Get("/balance", ledgercontrollers.Balance(ledgerService, logg))
		})

		r.Post("/claims", claimscontrollers.Claim(claimsService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/ledger/{userId}/history", ledgercontrollers.AdminHistory(ledgerService, logg))
	})

	return r
}
