package handler

import (
	"net/http"

	"hackathon_hub/internal/api/middleware"
	"hackathon_hub/internal/app/service"
	"hackathon_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

// UserHandler serves the user, student and mentor management routes.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterUserRoutes(r chi.Router) {
	r.Use(middleware.AdminOnly)
	r.Get("/", h.listUsers)
	r.Delete("/{id}", h.deleteUser)
}

func (h *UserHandler) RegisterStudentRoutes(r chi.Router) {
	r.Get("/", h.listStudents)
	r.With(middleware.AdminOnly).Post("/add", h.addStudent)
	r.With(middleware.AdminOnly).Delete("/delete", h.deleteStudent)
}

func (h *UserHandler) RegisterMentorRoutes(r chi.Router) {
	r.Get("/", h.listMentors)
	r.With(middleware.AdminOnly).Post("/add", h.addMentor)
	r.With(middleware.AdminOnly).Delete("/delete", h.deleteMentor)
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *UserHandler) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.userService.ListStudents(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, students)
}

func (h *UserHandler) addStudent(w http.ResponseWriter, r *http.Request) {
	var req service.AddStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.userService.AddStudent(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) deleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteStudent(r.Context(), r.URL.Query().Get("id")); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *UserHandler) listMentors(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	mentors, err := h.userService.ListMentors(r.Context(), claims)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.NoCache(w)
	common.RespondWithJSON(w, http.StatusOK, mentors)
}

func (h *UserHandler) addMentor(w http.ResponseWriter, r *http.Request) {
	var req service.AddMentorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mentor, err := h.userService.AddMentor(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, mentor)
}

func (h *UserHandler) deleteMentor(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteMentor(r.Context(), r.URL.Query().Get("userId")); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
