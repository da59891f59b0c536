package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"dispatch/internal/app"
	"dispatch/internal/broadcast"
	"dispatch/internal/config"
	"dispatch/internal/domain"
	"dispatch/internal/handler"
	internalRedis "dispatch/internal/redis"
	"dispatch/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration.
	cfg := config.Load()

	zones, defaultTariff, err := config.LoadZones(cfg.ZonesFile, cfg.Pricing.Tariff())
	if err != nil {
		log.WithError(err).Fatal("failed to load zone configuration")
	}
	log.WithField("zones", len(zones)).Info("zone configuration loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so Redis can be instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	server := wireServer(log, redisClient, nrApp, cfg, zones, defaultTariff)

	// Start server in goroutine.
	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	log *logrus.Logger,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	cfg *config.Config,
	zones []domain.Zone,
	defaultTariff domain.Tariff,
) *http.Server {
	// Initialize stores and core components.
	presenceStore := internalRedis.NewPresenceStore(redisClient)

	zoneResolver := service.NewZoneResolver(zones)
	pricingEngine := service.NewPricingEngine(defaultTariff)
	hub := broadcast.NewHub(log)
	driverService := service.NewDriverService(presenceStore)
	registry := service.NewTripRegistry(zoneResolver, pricingEngine, hub, driverService)

	// Initialize handlers.
	estimateHandler := handler.NewEstimateHandler(zoneResolver, pricingEngine)
	tripHandler := handler.NewTripHandler(registry)
	driverHandler := handler.NewDriverHandler(driverService)
	wsHandler := handler.NewWSHandler(hub, registry, log)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		EstimateHandler: estimateHandler,
		TripHandler:     tripHandler,
		DriverHandler:   driverHandler,
		WSHandler:       wsHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
