package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coqueta/internal/config"
	"coqueta/internal/database"
	"coqueta/internal/logger"
	"coqueta/internal/media"
	"coqueta/internal/server"
	"coqueta/migrations"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// migrationStatus prints goose status for the configured Postgres database
func migrationStatus(cfg *config.Config) error {
	svc, err := database.New(context.Background(), cfg.Database)
	if err != nil {
		return err
	}
	defer svc.Close()
	return database.GetMigrationStatus(svc.DB(), migrations.FS)
}

func main() {
	showMigrations := flag.Bool("migrations-status", false, "print the migration status and exit")
	flag.Parse()

	cfg := config.Load()

	if *showMigrations {
		if err := migrationStatus(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "migration status: %v\n", err)
			os.Exit(1)
		}
		return
	}

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting Coqueta API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := server.OpenStore(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	log.Info("Store health check", zap.Any("health", store.Health(context.Background())))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// the rate limiter lets requests through while redis is away
		log.Warn("Redis unavailable, rate limiting degraded", zap.Error(err))
	}

	host, err := media.NewCloudinaryHost(cfg.Cloudinary)
	if err != nil {
		log.Fatal("Failed to configure media host", zap.Error(err))
	}

	srv := server.NewServer(cfg, log, store, redisClient, host)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
