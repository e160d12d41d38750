package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"hackathon_hub/internal/app/service"
	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

const webhookSecretHeader = "X-Webhook-Secret"

type WebhookHandler struct {
	webhookService *service.WebhookService
	secret         string
	logger         *slog.Logger
}

// NewWebhookHandler returns a handler that rejects every delivery when
// secret is empty.
func NewWebhookHandler(ws *service.WebhookService, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{webhookService: ws, secret: secret, logger: logger}
}

func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.handleChange)
}

func (h *WebhookHandler) handleChange(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get(webhookSecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
		common.RespondWithError(w, http.StatusUnauthorized, "Invalid webhook secret")
		return
	}

	var change model.Change
	if !decodeJSON(w, r, &change) {
		return
	}

	if err := h.webhookService.HandleChange(r.Context(), change); err != nil {
		h.logger.WarnContext(r.Context(), "webhook change rejected", "table", change.Table, "error", err)
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"received": true})
}
