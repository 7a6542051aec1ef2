package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

// Marking is open from lecture start until this long after it.
const markingWindow = 10 * time.Minute

type attendanceService struct {
	attendance ports.AttendanceRepository
	timetable  ports.TimetableRepository
	now        func() time.Time
}

func NewAttendanceService(attendance ports.AttendanceRepository, timetable ports.TimetableRepository) ports.AttendanceService {
	return &attendanceService{
		attendance: attendance,
		timetable:  timetable,
		now:        time.Now,
	}
}

// ValidateWindow resolves the scheduled lecture for the course on the given
// date and reports whether marking is currently allowed.
func (s *attendanceService) ValidateWindow(ctx context.Context, courseID uuid.UUID, date time.Time) (*domain.WindowStatus, error) {
	lecture, err := s.timetable.FindLecture(ctx, courseID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("failed to look up lecture: %w", err)
	}
	if lecture == nil {
		return &domain.WindowStatus{
			Allowed: false,
			Locked:  true,
			Message: fmt.Sprintf("no lecture scheduled for this course on %s", date.Weekday()),
		}, nil
	}

	start := lecture.StartOn(date)
	end := start.Add(markingWindow)
	now := s.now()

	status := &domain.WindowStatus{LectureStart: start, WindowEnd: end}
	switch {
	case now.Before(start):
		status.Message = fmt.Sprintf("attendance marking opens at %s", start.Format("15:04"))
	case now.After(end):
		status.Locked = true
		status.Message = fmt.Sprintf("attendance marking locked at %s", end.Format("15:04"))
	default:
		status.Allowed = true
	}
	return status, nil
}

func (s *attendanceService) Mark(ctx context.Context, input ports.MarkAttendanceInput) (*domain.Attendance, error) {
	if !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	window, err := s.ValidateWindow(ctx, input.CourseID, input.Date)
	if err != nil {
		return nil, err
	}
	if !window.Allowed {
		if window.Locked {
			return nil, domain.ErrWindowLocked
		}
		return nil, domain.ErrWindowNotOpen
	}

	attendance := &domain.Attendance{
		ID:        uuid.New(),
		StudentID: input.StudentID,
		CourseID:  input.CourseID,
		Date:      input.Date,
		Status:    input.Status,
		Remarks:   input.Remarks,
		CreatedAt: s.now(),
		CreatedBy: input.MarkedBy,
	}
	if err := s.attendance.Upsert(ctx, attendance); err != nil {
		return nil, fmt.Errorf("failed to save attendance: %w", err)
	}
	return attendance, nil
}

func (s *attendanceService) ListByCourseDate(ctx context.Context, courseID uuid.UUID, date time.Time) ([]domain.Attendance, error) {
	return s.attendance.ListByCourseDate(ctx, courseID, date)
}

func (s *attendanceService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Attendance, error) {
	return s.attendance.ListByStudent(ctx, studentID)
}

type timetableService struct {
	repo ports.TimetableRepository
}

func NewTimetableService(repo ports.TimetableRepository) ports.TimetableService {
	return &timetableService{repo: repo}
}

func (s *timetableService) AddEntry(ctx context.Context, entry domain.TimetableEntry) (*domain.TimetableEntry, error) {
	if entry.StartMinutes < 0 || entry.EndMinutes > 24*60 || entry.StartMinutes >= entry.EndMinutes {
		return nil, fmt.Errorf("invalid lecture slot times")
	}

	existing, err := s.repo.ListBySection(ctx, entry.SectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list section timetable: %w", err)
	}
	for _, other := range existing {
		if entry.Overlaps(other) {
			return nil, domain.ErrTimetableConflict
		}
	}

	entry.ID = uuid.New()
	if err := s.repo.Save(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to save timetable entry: %w", err)
	}
	return &entry, nil
}

func (s *timetableService) ListBySection(ctx context.Context, sectionID uuid.UUID) ([]domain.TimetableEntry, error) {
	return s.repo.ListBySection(ctx, sectionID)
}
