package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "revpulse/internal/api/context"
	"revpulse/internal/api/handlers"
	"revpulse/internal/api/middleware"
)

type Dependencies struct {
	WebhookHandler   *handlers.WebhookHandler
	DashboardHandler *handlers.DashboardHandler
	AuthHandler      *handlers.AuthHandler
	HealthHandler    *handlers.HealthHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Provider-facing ingestion endpoint. Registered with and without the
	// trailing slash because webhook senders do not follow redirects.
	router.POST("/webhook/customer/:workspace_id/:provider_type", wrap(deps.WebhookHandler.Receive))
	router.POST("/webhook/customer/:workspace_id/:provider_type/", wrap(deps.WebhookHandler.Receive))

	// Dashboard read API
	authMid := deps.AuthMiddleware
	router.POST("/api/v1/auth/token", wrap(deps.AuthHandler.IssueToken))
	router.GET("/api/v1/integrations/overview",
		chain(deps.DashboardHandler.IntegrationOverview, authMid.Handle))
	router.GET("/api/v1/activity/recent",
		chain(deps.DashboardHandler.RecentActivity, authMid.Handle))

	router.GET("/health", wrap(deps.HealthHandler.Check))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
