package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kavindu-dev/furnicraft-backend/api/routes"
	authsvc "github.com/kavindu-dev/furnicraft-backend/internal/auth"
	"github.com/kavindu-dev/furnicraft-backend/internal/catalog"
	"github.com/kavindu-dev/furnicraft-backend/internal/dashboard"
	"github.com/kavindu-dev/furnicraft-backend/internal/notify"
	ordersvc "github.com/kavindu-dev/furnicraft-backend/internal/orders"
	"github.com/kavindu-dev/furnicraft-backend/internal/payhere"
	"github.com/kavindu-dev/furnicraft-backend/pkg/config"
	"github.com/kavindu-dev/furnicraft-backend/pkg/db"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
	"github.com/kavindu-dev/furnicraft-backend/pkg/metrics"
	"github.com/kavindu-dev/furnicraft-backend/pkg/migrate"
	"github.com/kavindu-dev/furnicraft-backend/pkg/redis"
)

const replayGuardTTL = 48 * time.Hour

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

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, login throttling and replay guard disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	adapter, err := payhere.NewAdapter(cfg.PayHere, cfg.App)
	if err != nil {
		logg.Error(context.Background(), "failed to create payhere adapter", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersParams := ordersvc.ServiceParams{
		Repo:     ordersvc.NewRepository(dbClient.DB()),
		Products: catalogRepo,
		Adapter:  adapter,
		Payments: paymentMetrics,
		Logger:   logg,
	}
	if smsClient := notify.NewClient(cfg.Notify, logg); smsClient != nil {
		ordersParams.SMS = smsClient
	}
	if redisClient != nil {
		guard, err := payhere.NewReplayGuard(redisClient, replayGuardTTL, "payhere_notify")
		if err != nil {
			logg.Error(context.Background(), "failed to create replay guard", err)
			os.Exit(1)
		}
		ordersParams.Guard = guard
	}
	ordersService, err := ordersvc.NewService(ordersParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dbClient.DB(), nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Admin:   cfg.Admin,
		Session: cfg.Session,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Auth:      authService,
			Catalog:   catalogService,
			Orders:    ordersService,
			Dashboard: dashboardService,
			Adapter:   adapter,
			Registry:  registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
