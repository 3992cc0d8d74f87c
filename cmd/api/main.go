package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/luisromero/bidhaus-backend/api/routes"
	"github.com/luisromero/bidhaus-backend/internal/auctions"
	"github.com/luisromero/bidhaus-backend/internal/claims"
	"github.com/luisromero/bidhaus-backend/internal/events"
	"github.com/luisromero/bidhaus-backend/internal/ledger"
	"github.com/luisromero/bidhaus-backend/internal/stream"
	"github.com/luisromero/bidhaus-backend/pkg/auth/session"
	"github.com/luisromero/bidhaus-backend/pkg/config"
	"github.com/luisromero/bidhaus-backend/pkg/db"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/metrics"
	"github.com/luisromero/bidhaus-backend/pkg/migrate"
	"github.com/luisromero/bidhaus-backend/pkg/pubsub"
	"github.com/luisromero/bidhaus-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledgerMetrics := metrics.NewLedgerMetrics(promRegistry)
	streamMetrics := metrics.NewStreamMetrics(promRegistry)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.PubSub.Enabled {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		publisher, err = events.NewPubSubPublisher(pubsubClient, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create event publisher", err)
			os.Exit(1)
		}
	}

	auctionsRepo := auctions.NewRepository(dbClient.DB())

	ledgerService, err := ledger.NewService(
		ledger.NewRepository(dbClient.DB()),
		ledger.NewGormSourceResolver(dbClient.DB()),
		ledgerMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	claimsService, err := claims.NewService(auctionsRepo, dbClient, publisher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create claims service", err)
		os.Exit(1)
	}

	hub := stream.NewHub(auctionsRepo, logg, streamMetrics)
	defer func() {
		if err := hub.Close(); err != nil {
			logg.Error(context.Background(), "error closing stream hub", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			ledgerService,
			claimsService,
			hub,
			promRegistry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
