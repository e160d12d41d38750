package handler

import (
	"errors"
	"net/http"

	"hackathon_hub/internal/api/middleware"
	"hackathon_hub/internal/app/service"
	"hackathon_hub/internal/common"
	"hackathon_hub/internal/common/security"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    *security.SessionAuth
}

func NewAuthHandler(authService *service.AuthService, sessions *security.SessionAuth) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// RegisterRoutes mounts the routes that work without a session.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

// RegisterSessionRoutes mounts the routes that need an authenticated
// session.
func (h *AuthHandler) RegisterSessionRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Patch("/me/theme", h.updateTheme)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	h.sessions.SetCookie(w, resp.Token)
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	h.sessions.SetCookie(w, resp.Token)
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	resp, err := h.authService.Me(r.Context(), claims)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			h.sessions.ClearCookie(w)
		}
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) updateTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	claims, _ := middleware.ClaimsFromContext(r.Context())
	user, err := h.authService.UpdateTheme(r.Context(), claims.UserID, req.Theme)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
