package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"hackathon_hub/internal/app/realtime"
	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// RealtimeHandler streams row changes to browsers as Server-Sent Events.
type RealtimeHandler struct {
	hub       *realtime.Hub
	heartbeat time.Duration
	logger    *slog.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, heartbeat time.Duration, logger *slog.Logger) *RealtimeHandler {
	if heartbeat <= 0 {
		heartbeat = realtime.DefaultHeartbeat
	}
	return &RealtimeHandler{hub: hub, heartbeat: heartbeat, logger: logger}
}

func (h *RealtimeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/changes", h.changes)
	r.Get("/leaderboard", h.leaderboard)
}

func (h *RealtimeHandler) changes(w http.ResponseWriter, r *http.Request) {
	var tables []string
	for _, t := range strings.Split(r.URL.Query().Get("tables"), ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !slices.Contains(model.ChangeTables, t) {
			common.RespondWithError(w, http.StatusBadRequest, "Unknown table: "+t)
			return
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		common.RespondWithError(w, http.StatusBadRequest, "tables is required")
		return
	}

	sub := h.hub.SubscribeTables(tables)
	defer h.hub.Unsubscribe(sub)
	realtime.Stream(w, r, sub, h.heartbeat, h.logger)
}

func (h *RealtimeHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	sub := h.hub.SubscribeLeaderboard(r.URL.Query().Get("eventId"))
	defer h.hub.Unsubscribe(sub)
	realtime.Stream(w, r, sub, h.heartbeat, h.logger)
}
