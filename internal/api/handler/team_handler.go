package handler

import (
	"net/http"

	"hackathon_hub/internal/api/middleware"
	"hackathon_hub/internal/app/service"
	"hackathon_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

type TeamHandler struct {
	teamService *service.TeamService
}

func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}/members", h.members)
	r.Get("/{id}/judges", h.judges)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.AdminOnly)
		admin.Post("/", h.create)
		admin.Post("/{id}/members", h.addMember)
		admin.Delete("/{id}/members/{userId}", h.removeMember)
		admin.Post("/{id}/judges", h.assignJudge)
		admin.Delete("/{id}/judges/{judgeId}", h.removeJudge)
	})
}

func (h *TeamHandler) list(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context(), r.URL.Query().Get("event"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, teams)
}

func (h *TeamHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	team, err := h.teamService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) members(w http.ResponseWriter, r *http.Request) {
	members, err := h.teamService.Members(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, members)
}

func (h *TeamHandler) judges(w http.ResponseWriter, r *http.Request) {
	judges, err := h.teamService.Judges(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, judges)
}

func (h *TeamHandler) addMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.teamService.AddMember(r.Context(), chi.URLParam(r, "id"), req.UserID); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *TeamHandler) removeMember(w http.ResponseWriter, r *http.Request) {
	err := h.teamService.RemoveMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *TeamHandler) assignJudge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JudgeID string `json:"judgeId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.teamService.AssignJudge(r.Context(), chi.URLParam(r, "id"), req.JudgeID); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *TeamHandler) removeJudge(w http.ResponseWriter, r *http.Request) {
	err := h.teamService.RemoveJudge(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "judgeId"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
