package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linyuhan/hotel-ops-backend/internal/app"
	"github.com/linyuhan/hotel-ops-backend/internal/cache"
	"github.com/linyuhan/hotel-ops-backend/internal/config"
	"github.com/linyuhan/hotel-ops-backend/internal/db"
	"github.com/linyuhan/hotel-ops-backend/internal/notify"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	// Optional Redis availability cache
	redisClient := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Notification collaborator: AMQP when configured, process log otherwise.
	var notifier notify.Notifier
	if cfg.AMQPUrl != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQPUrl)
		if err != nil {
			log.Fatalf("failed to connect to amqp broker: %v", err)
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	} else {
		notifier = notify.NewLogNotifier()
	}

	container := app.NewContainer(app.Config{
		IsProduction:          cfg.IsProduction,
		ProdOrigins:           cfg.ProdOrigins,
		DBPool:                pool,
		RedisClient:           redisClient,
		Notifier:              notifier,
		JWTSecret:             cfg.JWTSecret,
		JWTTTL:                cfg.JWTAccessTokenTTL,
		BcryptCost:            cfg.BcryptCost,
		WaitlistConfirmWindow: cfg.WaitlistConfirmWindow,
		WaitlistSweepInterval: cfg.WaitlistSweepInterval,
		AvailabilityCacheTTL:  cfg.AvailabilityCacheTTL,
	})

	// Background expiry sweep, decoupled from the request path.
	sweeperCtx, cancelSweeper := context.WithCancel(context.Background())
	defer cancelSweeper()
	go container.Sweeper.Run(sweeperCtx)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	// Stop the sweeper before the server drains.
	cancelSweeper()

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}
