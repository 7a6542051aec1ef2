package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
)

type AttendanceRepository interface {
	Upsert(ctx context.Context, attendance *domain.Attendance) error
	ListByCourseDate(ctx context.Context, courseID uuid.UUID, date time.Time) ([]domain.Attendance, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Attendance, error)
	SummarizeCourse(ctx context.Context, courseID uuid.UUID) ([]domain.CourseAttendanceSummary, error)
	// MarkAbsentees inserts Absent rows for every student registered in the
	// course who has no attendance record on the date. Existing rows are left
	// untouched. Returns the number of rows inserted.
	MarkAbsentees(ctx context.Context, courseID uuid.UUID, date time.Time) (int64, error)
}

type TimetableRepository interface {
	Save(ctx context.Context, entry *domain.TimetableEntry) error
	ListBySection(ctx context.Context, sectionID uuid.UUID) ([]domain.TimetableEntry, error)
	FindLecture(ctx context.Context, courseID uuid.UUID, day time.Weekday) (*domain.TimetableEntry, error)
}

type MarkAttendanceInput struct {
	StudentID uuid.UUID
	CourseID  uuid.UUID
	Date      time.Time
	Status    domain.AttendanceStatus
	Remarks   string
	MarkedBy  uuid.UUID
}

type AttendanceService interface {
	ValidateWindow(ctx context.Context, courseID uuid.UUID, date time.Time) (*domain.WindowStatus, error)
	Mark(ctx context.Context, input MarkAttendanceInput) (*domain.Attendance, error)
	ListByCourseDate(ctx context.Context, courseID uuid.UUID, date time.Time) ([]domain.Attendance, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Attendance, error)
}

type TimetableService interface {
	AddEntry(ctx context.Context, entry domain.TimetableEntry) (*domain.TimetableEntry, error)
	ListBySection(ctx context.Context, sectionID uuid.UUID) ([]domain.TimetableEntry, error)
}

type ReportService interface {
	CourseSummary(ctx context.Context, courseID uuid.UUID) ([]domain.CourseAttendanceSummary, error)
	BackfillAbsences(ctx context.Context, date time.Time) (int64, error)
}
