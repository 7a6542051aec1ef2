package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type AttendanceHandler struct {
	service   ports.AttendanceService
	timetable ports.TimetableService
}

func NewAttendanceHandler(service ports.AttendanceService, timetable ports.TimetableService) *AttendanceHandler {
	return &AttendanceHandler{service: service, timetable: timetable}
}

// Window reports whether attendance marking is currently open for a course.
func (h *AttendanceHandler) Window(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(r.URL.Query().Get("courseId"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}
	date, err := parseDateOr(r.URL.Query().Get("date"), time.Now())
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	status, err := h.service.ValidateWindow(r.Context(), courseID, date)
	if err != nil {
		http.Error(w, "failed to validate window", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type markAttendanceRequest struct {
	StudentID uuid.UUID `json:"studentId"`
	CourseID  uuid.UUID `json:"courseId"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Remarks   string    `json:"remarks"`
}

func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	markedBy, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	date, err := parseDateOr(req.Date, time.Now())
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	attendance, err := h.service.Mark(r.Context(), ports.MarkAttendanceInput{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      date,
		Status:    domain.AttendanceStatus(req.Status),
		Remarks:   req.Remarks,
		MarkedBy:  markedBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrWindowNotOpen), errors.Is(err, domain.ErrWindowLocked):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to mark attendance", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, attendance)
}

func (h *AttendanceHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}
	date, err := parseDateOr(r.URL.Query().Get("date"), time.Now())
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	records, err := h.service.ListByCourseDate(r.Context(), courseID, date)
	if err != nil {
		http.Error(w, "failed to list attendance", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ListMine returns the calling student's own attendance history.
func (h *AttendanceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
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

	records, err := h.service.ListByStudent(r.Context(), studentID)
	if err != nil {
		http.Error(w, "failed to list attendance", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type addTimetableEntryRequest struct {
	CourseID     uuid.UUID `json:"courseId"`
	SectionID    uuid.UUID `json:"sectionId"`
	DayOfWeek    int       `json:"dayOfWeek"`
	StartMinutes int       `json:"startMinutes"`
	EndMinutes   int       `json:"endMinutes"`
	Room         string    `json:"room"`
}

func (h *AttendanceHandler) AddTimetableEntry(w http.ResponseWriter, r *http.Request) {
	var req addTimetableEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.timetable.AddEntry(r.Context(), domain.TimetableEntry{
		CourseID:     req.CourseID,
		SectionID:    req.SectionID,
		DayOfWeek:    time.Weekday(req.DayOfWeek),
		StartMinutes: req.StartMinutes,
		EndMinutes:   req.EndMinutes,
		Room:         req.Room,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTimetableConflict) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *AttendanceHandler) ListTimetable(w http.ResponseWriter, r *http.Request) {
	sectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid section id", http.StatusBadRequest)
		return
	}

	entries, err := h.timetable.ListBySection(r.Context(), sectionID)
	if err != nil {
		http.Error(w, "failed to list timetable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func parseDateOr(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", value)
}
