package handler

import (
	"net/http"

	"hackathon_hub/internal/api/middleware"
	"hackathon_hub/internal/app/service"
	"hackathon_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.getBySlug)
	r.Group(func(admin chi.Router) {
		admin.Use(middleware.AdminOnly)
		admin.Post("/", h.create)
		admin.Patch("/{id}/status", h.updateStatus)
	})
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) getBySlug(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	event, err := h.eventService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	event, err := h.eventService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, event)
}
