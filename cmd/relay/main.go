package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/messaging"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/outbox"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/config"
)

func main() {
	log.Println("Starting outbox relay service...")

	cfg, err := config.LoadRelayConfig()
	if err != nil {
		log.Fatalf("relay: failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("relay: failed to open database: %v", err)
	}
	defer db.Close()
	log.Println("relay: database connection initialized - circuit breaker will validate on first operation")

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.QueueName)
	if err != nil {
		log.Fatalf("relay: failed to connect to RabbitMQ: %v", err)
	}
	defer broker.Close()
	log.Printf("relay: connected to RabbitMQ, publishing to %s", cfg.QueueName)

	worker := outbox.NewRelay(db, cfg.DatabaseURL, broker)

	healthRouter := chi.NewRouter()
	healthRouter.Get("/health", probe("outbox-relay", worker.IsHealthy))
	healthRouter.Get("/health/ready", probe("outbox-relay", worker.IsReady))

	healthServer := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           healthRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("relay: starting health check server on %s", cfg.HealthAddr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("relay: health server error: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		log.Println("relay: starting event processing worker...")
		if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("relay: received signal %v, initiating shutdown...", sig)
	case err := <-errChan:
		log.Printf("relay: fatal error, shutting down: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("relay: error shutting down health server: %v", err)
	}

	log.Println("relay: shutdown complete")
}
