package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/api"
	"github.com/teammatch/backend/internal/app"
	"github.com/teammatch/backend/internal/auth"
	"github.com/teammatch/backend/internal/config"
	"github.com/teammatch/backend/internal/fcm"
	"github.com/teammatch/backend/internal/notify"
)

const version = "1.0.0"

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting TeamMatch API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer backend.Close()

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)

	// Realtime: this instance's sockets, fed directly or through Redis
	wsManager := api.NewWebSocketManager(logger, cfg.Server.CORSOrigins)
	go wsManager.Run(ctx)

	var notifiers notify.Fanout
	if backend.Redis != nil {
		notifiers = append(notifiers, notify.NewRedisPublisher(backend.Redis, cfg.Redis.Channel))
		subscriber := notify.NewSubscriber(backend.Redis, cfg.Redis.Channel, wsManager, logger)
		go subscriber.Listen(ctx, nil)
	} else {
		notifiers = append(notifiers, wsManager)
	}

	var pushNotifier *fcm.PushNotifier
	if cfg.Firebase.Enabled {
		fcmClient, err := fcm.NewClient(ctx, logger, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Warn("Failed to initialize Firebase client - push notifications will be disabled", zap.Error(err))
		} else {
			pushNotifier = fcm.NewPushNotifier(fcmClient, backend.Store, logger)
			notifiers = append(notifiers, pushNotifier)
			logger.Info("Firebase client initialized")
		}
	}

	services := backend.Services(notifiers, logger)

	deps := map[string]api.Pinger{"store": backend.Store}
	if backend.Redis != nil {
		deps["redis"] = redisPinger{backend}
	}

	handlers := api.Handlers{
		Health:      api.NewHealthHandler(version, deps, logger),
		Events:      api.NewEventHandler(services.Events, logger),
		Profiles:    api.NewProfileHandler(services.Profiles, logger),
		Matches:     api.NewMatchHandler(services.Matches, logger),
		Connections: api.NewConnectionHandler(services.Connections, logger),
		Devices:     api.NewDeviceHandler(backend.Store, logger),
		WebSocket:   wsManager,
	}
	router := api.NewRouter(handlers, jwtManager, cfg.Server.CORSOrigins, logger)

	backend.StartMaintenance(ctx, cfg.Maintenance.CleanupInterval, cfg.Maintenance.MatchRetention, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if pushNotifier != nil {
		pushNotifier.Wait()
	}

	logger.Info("Server stopped")
}

type redisPinger struct {
	backend *app.Backend
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.backend.Redis.Ping(ctx).Err()
}
