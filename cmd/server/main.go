package main

import (
	"fmt"
	"log"
	"net/http"

	"revpulse/internal/api"
	"revpulse/internal/api/handlers"
	"revpulse/internal/api/middleware"
	"revpulse/internal/engine/activity"
	"revpulse/internal/engine/dashboard"
	"revpulse/internal/engine/enrichment"
	"revpulse/internal/engine/processor"
	"revpulse/internal/engine/providers"
	"revpulse/internal/platform/auth"
	"revpulse/internal/platform/cache"
	"revpulse/internal/platform/config"
	"revpulse/internal/platform/database"
	"revpulse/internal/platform/repositories"
	"revpulse/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	// Connections
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	redisClient, err := cache.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Repositories
	integrationRepo := repositories.NewIntegrationRepository(db)
	keyRepo := repositories.NewDashboardKeyRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	registry := providers.NewRegistry()
	enrichRepo := enrichment.NewRepository(db)
	enricher := enrichment.NewEnricher(enrichRepo, enrichRepo)
	store := activity.NewStore(redisClient, activity.WithTTLDays(cfg.Webhooks.ActivityTTLDays))
	proc := processor.New(integrationRepo, registry, enricher, store)
	overview := dashboard.NewService(integrationRepo, registry)

	// Handlers
	webhookHandler := handlers.NewWebhookHandler(proc, cfg.Webhooks.MaxBodyBytes)
	dashboardHandler := handlers.NewDashboardHandler(overview, store)
	authHandler := handlers.NewAuthHandler(keyRepo, tokenSvc)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	// Router
	deps := &api.Dependencies{
		WebhookHandler:   webhookHandler,
		DashboardHandler: dashboardHandler,
		AuthHandler:      authHandler,
		HealthHandler:    healthHandler,
		AuthMiddleware:   authMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
