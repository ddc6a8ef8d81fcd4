package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	nrecho "github.com/newrelic/go-agent/v3/integrations/nrecho-v4"

	"github.com/blazevtc/blazeride/internal/pkg/config"
	"github.com/blazevtc/blazeride/internal/pkg/database"
	"github.com/blazevtc/blazeride/internal/pkg/health"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/middleware"
	natspkg "github.com/blazevtc/blazeride/internal/pkg/nats"
	nrpkg "github.com/blazevtc/blazeride/internal/pkg/newrelic"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
	"github.com/blazevtc/blazeride/internal/pkg/server"
	"github.com/blazevtc/blazeride/services/rides/gateway"
	"github.com/blazevtc/blazeride/services/rides/handler"
	"github.com/blazevtc/blazeride/services/rides/repository"
	"github.com/blazevtc/blazeride/services/rides/usecase"
)

func main() {
	appName := "dispatch-service"
	configPath := "config/dispatch.env"
	configs := config.InitConfig(configPath)

	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:    configs.Logger.Level,
		FilePath: configs.Logger.FilePath,
	})
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}

	logger.Info("NATS client initialized",
		logger.String("url", configs.NATS.URL))

	// Broadcast fabric shared by the WebSocket handlers.
	router := realtime.NewRouter()
	registry := realtime.NewRegistry(router)

	// Repositories
	rideRepo := repository.NewRideRepository(configs, postgresClient.GetDB())
	paymentRepo := repository.NewPaymentRepository(configs, postgresClient.GetDB())
	presenceRepo := repository.NewPresenceRepository(redisClient)

	// Gateways
	rideGW := gateway.NewRideGW(natsClient)
	geocodeGW := gateway.NewGeocodeGW(configs.Geocode, redisClient)
	pushGW := gateway.NewPushGW(configs.Push)

	// Usecase
	rideUC, err := usecase.NewRideUC(configs, rideRepo, paymentRepo, presenceRepo, rideGW, geocodeGW, pushGW, router)
	if err != nil {
		zapLogger.Fatal("Failed to initialize ride use case", logger.Err(err))
	}

	// Handlers
	rideHandler := handler.NewHandler(configs, rideUC, router, registry)

	e := echo.New()
	e.HideBanner = true

	// Panic recovery must run before anything that can fail.
	e.Use(echomw.Recover())
	e.Use(nrecho.Middleware(nrApp))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName)
	rideHandler.RegisterRoutes(e)

	shutdown := server.NewShutdownManager(zapLogger)
	shutdown.Register(func(ctx context.Context) error {
		return postgresClient.Close()
	})
	shutdown.Register(func(ctx context.Context) error {
		return redisClient.Close()
	})
	shutdown.Register(func(ctx context.Context) error {
		natsClient.Close()
		return nil
	})
	shutdown.Register(func(ctx context.Context) error {
		if nrApp != nil {
			nrApp.Shutdown(10 * time.Second)
		}
		return nil
	})

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)

	// Blocks until SIGINT or SIGTERM.
	if err := srv.Start(); err != nil {
		zapLogger.Error("Server shutdown returned error", logger.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := shutdown.Shutdown(ctx); err != nil {
		zapLogger.Error("Component shutdown returned error", logger.Err(err))
	}

	logger.Info("Server exiting gracefully")
	_ = zapLogger.Sync()
}
