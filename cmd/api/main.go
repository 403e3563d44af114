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

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/handler"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/metrics"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/repository"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/adapters/session"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/config"
	"github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	signingKey, err := config.LoadSigningKey(cfg.PrivateKeyPath, cfg.PublicKeyPath)
	if err != nil {
		log.Fatalf("failed to load signing key: %v", err)
	}

	if cfg.RunMigrations {
		if err := repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		log.Println("Database migrations applied")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Printf("WARNING - redis not reachable, session checks will fail closed: %v", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
	pingCancel()

	prom := metrics.NewPrometheus()
	store := repository.NewStore(db)

	resolver := services.NewRoleResolver(store, prom)
	identity := services.NewIdentityService(store, resolver, session.NewRedisRevoker(redisClient), signingKey, cfg.SessionTTL)

	router := handler.NewRouter(handler.RouterDeps{
		Identity:       identity,
		Guard:          services.NewAccessGuard(resolver, prom),
		Catalog:        services.NewEventCatalog(store, store, store, cfg.DefaultEventCapacity),
		Ledger:         services.NewRegistrationLedger(store, store, prom),
		Profiles:       services.NewProfileService(store, resolver),
		Health:         handler.NewHealthHandler(db, redisClient, cfg.Version),
		Metrics:        prom,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:  cfg.SecureCookies,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("received signal %v, initiating shutdown...", sig)
	case err := <-errChan:
		log.Printf("server error, shutting down: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down server: %v", err)
	}
	log.Println("shutdown complete")
}
