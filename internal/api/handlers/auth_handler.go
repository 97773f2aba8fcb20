package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"revpulse/internal/pkg/errors"
	"revpulse/internal/platform/auth"
	"revpulse/internal/platform/repositories"
)

// Dashboard keys look like "rpk_<prefix>_<secret>"; "rpk_<prefix>" is the
// lookup handle, the bcrypt hash of the full key is the credential.

type AuthHandler struct {
	keys     *repositories.DashboardKeyRepository
	tokenSvc *auth.TokenService
}

func NewAuthHandler(keys *repositories.DashboardKeyRepository, tokenSvc *auth.TokenService) *AuthHandler {
	return &AuthHandler{keys: keys, tokenSvc: tokenSvc}
}

// IssueToken exchanges a dashboard API key for a short-lived bearer token
// scoped to the key's workspace.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "api_key is required", nil)
		return
	}

	prefix, ok := keyPrefix(req.APIKey)
	if !ok {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid API key", nil)
		return
	}

	key, err := h.keys.GetByPrefix(prefix)
	if err != nil || key == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid API key", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(req.APIKey)); err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid API key", nil)
		return
	}

	token, err := h.tokenSvc.GenerateAccessToken(key.WorkspaceID, key.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to issue token", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"access_token": token, "token_type": "Bearer"})
}

func keyPrefix(apiKey string) (string, bool) {
	parts := strings.SplitN(apiKey, "_", 3)
	if len(parts) != 3 || parts[0] != "rpk" || parts[1] == "" || parts[2] == "" {
		return "", false
	}
	return parts[0] + "_" + parts[1], true
}
