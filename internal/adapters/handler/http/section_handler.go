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

type SectionHandler struct {
	service ports.SectionService
}

func NewSectionHandler(service ports.SectionService) *SectionHandler {
	return &SectionHandler{service: service}
}

type createSectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
}

func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	section, err := h.service.Create(r.Context(), ports.CreateSectionInput{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, section)
}

func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list sections", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

type assignStudentRequest struct {
	StudentID uuid.UUID `json:"studentId"`
}

func (h *SectionHandler) AssignStudent(w http.ResponseWriter, r *http.Request) {
	sectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid section id", http.StatusBadRequest)
		return
	}
	var req assignStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	assignment, err := h.service.AssignStudent(r.Context(), req.StudentID, sectionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSectionNotFound):
			http.Error(w, "section not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrSectionFull):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to assign student", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

type createSessionRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *SectionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.CreateSession(r.Context(), ports.CreateSessionInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *SectionHandler) AssignSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	sectionID, err := uuid.Parse(chi.URLParam(r, "sectionID"))
	if err != nil {
		http.Error(w, "invalid section id", http.StatusBadRequest)
		return
	}

	assignment, err := h.service.AssignSession(r.Context(), sessionID, sectionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionTermNotFound), errors.Is(err, domain.ErrSectionNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "failed to assign section", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}
