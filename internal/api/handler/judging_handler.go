package handler

import (
	"bytes"
	"net/http"

	"hackathon_hub/internal/api/export"
	"hackathon_hub/internal/api/middleware"
	"hackathon_hub/internal/app/service"
	"hackathon_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

type JudgingHandler struct {
	judgingService *service.JudgingService
}

func NewJudgingHandler(judgingService *service.JudgingService) *JudgingHandler {
	return &JudgingHandler{judgingService: judgingService}
}

func (h *JudgingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/assigned-teams", h.assignedTeams)
	r.Get("/scores/{teamId}", h.getScore)
	r.With(middleware.JudgesOnly).Post("/scores", h.submitScore)
	r.Get("/criteria", h.listCriteria)
	r.With(middleware.AdminOnly).Post("/criteria", h.createCriterion)
	r.Get("/leaderboard", h.leaderboard)
	r.Get("/leaderboard/export.xlsx", h.exportXLSX)
	r.Get("/leaderboard/chart.png", h.chartPNG)
}

func (h *JudgingHandler) assignedTeams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	teams, err := h.judgingService.AssignedTeams(r.Context(), q.Get("judgeId"), q.Get("eventId"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, teams)
}

// getScore defaults judgeId to the session user.
func (h *JudgingHandler) getScore(w http.ResponseWriter, r *http.Request) {
	judgeID := r.URL.Query().Get("judgeId")
	if judgeID == "" {
		claims, _ := middleware.ClaimsFromContext(r.Context())
		judgeID = claims.UserID
	}
	score, err := h.judgingService.GetScore(r.Context(), chi.URLParam(r, "teamId"), judgeID)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, score)
}

func (h *JudgingHandler) submitScore(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	claims, _ := middleware.ClaimsFromContext(r.Context())
	score, err := h.judgingService.SubmitScore(r.Context(), claims, req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, score)
}

func (h *JudgingHandler) listCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.judgingService.ListCriteria(r.Context(), r.URL.Query().Get("eventId"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, criteria)
}

func (h *JudgingHandler) createCriterion(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCriterionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.judgingService.CreateCriterion(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, c)
}

func (h *JudgingHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.judgingService.Leaderboard(r.Context(), r.URL.Query().Get("eventId"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *JudgingHandler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	entries, err := h.judgingService.Leaderboard(r.Context(), eventID)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteLeaderboardXLSX(&buf, entries); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *JudgingHandler) chartPNG(w http.ResponseWriter, r *http.Request) {
	entries, err := h.judgingService.Leaderboard(r.Context(), r.URL.Query().Get("eventId"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	png, err := export.LeaderboardChart("Leaderboard", entries)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
