package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

type createCourseRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreditHours int    `json:"creditHours"`
	Department  string `json:"department"`
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	course, err := h.service.Create(r.Context(), ports.CreateCourseInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		CreditHours: req.CreditHours,
		Department:  req.Department,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list courses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	course, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get course", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

type assignTeacherRequest struct {
	TeacherID uuid.UUID `json:"teacherId"`
}

func (h *CourseHandler) AssignTeacher(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}
	var req assignTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	assignment, err := h.service.AssignTeacher(r.Context(), req.TeacherID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to assign teacher", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

// Register enrolls the calling student into the course.
func (h *CourseHandler) Register(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	studentID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	registration, err := h.service.RegisterStudent(r.Context(), studentID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCourseNotFound):
			http.Error(w, "course not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrAlreadyRegistered):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to register", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, registration)
}
