package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "revpulse/internal/api/context"
	"revpulse/internal/engine/processor"
	"revpulse/internal/pkg/errors"
)

type WebhookHandler struct {
	processor *processor.Processor
	maxBody   int64
}

func NewWebhookHandler(p *processor.Processor, maxBody int64) *WebhookHandler {
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &WebhookHandler{processor: p, maxBody: maxBody}
}

// Receive handles POST /webhook/customer/:workspace_id/:provider_type/.
// Anything past signature validation answers 200 so well-behaved providers
// never enter a retry storm over our internal problems.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	workspaceID := params.ByName("workspace_id")
	providerType := params.ByName("provider_type")

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody))
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Unreadable request body", nil)
		return
	}

	result := h.processor.Process(r.Context(), workspaceID, providerType, body, r.Header)

	switch result {
	case processor.ResultRejected:
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeSignatureInvalid, "Webhook signature validation failed", nil)
	case processor.ResultUnknownIntegration:
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "No active integration for this workspace and provider", nil)
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
