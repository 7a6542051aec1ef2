package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) CourseSummary(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	summaries, err := h.service.CourseSummary(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
