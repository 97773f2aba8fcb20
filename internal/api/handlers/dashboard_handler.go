package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	apiContext "revpulse/internal/api/context"
	"revpulse/internal/engine/dashboard"
	"revpulse/internal/pkg/errors"
	"revpulse/internal/platform/auth"
)

type ActivityReader interface {
	RecentActivity(ctx context.Context, workspaceID string, days int) []map[string]any
}

type DashboardHandler struct {
	service  *dashboard.Service
	activity ActivityReader
}

func NewDashboardHandler(service *dashboard.Service, activity ActivityReader) *DashboardHandler {
	return &DashboardHandler{service: service, activity: activity}
}

func (h *DashboardHandler) IntegrationOverview(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	overview, err := h.service.IntegrationOverview(claims.WorkspaceID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load integration overview", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overview)
}

func (h *DashboardHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "days must be a positive integer", nil)
			return
		}
		if parsed > 30 {
			parsed = 30
		}
		days = parsed
	}

	records := h.activity.RecentActivity(r.Context(), claims.WorkspaceID, days)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"workspace_id": claims.WorkspaceID,
		"days":         days,
		"records":      records,
	})
}
