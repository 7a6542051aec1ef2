package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type AttendanceRepository struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) ports.AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert keeps one row per (student, course, date); remarking within the
// window overwrites the previous status.
func (r *AttendanceRepository) Upsert(ctx context.Context, attendance *domain.Attendance) error {
	query := `
		INSERT INTO attendance (id, student_id, course_id, date, status, remarks, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (student_id, course_id, date)
		DO UPDATE SET status = EXCLUDED.status, remarks = EXCLUDED.remarks, created_by = EXCLUDED.created_by
	`
	_, err := r.db.ExecContext(ctx, query,
		attendance.ID, attendance.StudentID, attendance.CourseID, attendance.Date.Truncate(24*time.Hour),
		attendance.Status, attendance.Remarks, attendance.CreatedAt, attendance.CreatedBy)
	return err
}

func (r *AttendanceRepository) ListByCourseDate(ctx context.Context, courseID uuid.UUID, date time.Time) ([]domain.Attendance, error) {
	query := `
		SELECT id, student_id, course_id, date, status, remarks, created_at, created_by
		FROM attendance
		WHERE course_id = $1 AND date = $2
		ORDER BY student_id
	`
	rows, err := r.db.QueryContext(ctx, query, courseID, date.Truncate(24*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendance(rows)
}

func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]domain.Attendance, error) {
	query := `
		SELECT id, student_id, course_id, date, status, remarks, created_at, created_by
		FROM attendance
		WHERE student_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendance(rows)
}

func (r *AttendanceRepository) SummarizeCourse(ctx context.Context, courseID uuid.UUID) ([]domain.CourseAttendanceSummary, error) {
	query := `
		SELECT a.student_id, u.full_name,
			COUNT(*) FILTER (WHERE a.status = 'Present') AS present,
			COUNT(*) FILTER (WHERE a.status = 'Absent') AS absent,
			COUNT(*) FILTER (WHERE a.status = 'Late') AS late,
			COUNT(*) FILTER (WHERE a.status = 'Excused') AS excused,
			COUNT(*) AS total
		FROM attendance a
		JOIN users u ON u.id = a.student_id
		WHERE a.course_id = $1
		GROUP BY a.student_id, u.full_name
		ORDER BY u.full_name
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.CourseAttendanceSummary
	for rows.Next() {
		var s domain.CourseAttendanceSummary
		if err := rows.Scan(&s.StudentID, &s.FullName, &s.Present, &s.Absent, &s.Late, &s.Excused, &s.Total); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// MarkAbsentees inserts Absent rows for registered students with no record on
// the date. created_by is the student's own id; the remark marks the row as
// job-generated.
func (r *AttendanceRepository) MarkAbsentees(ctx context.Context, courseID uuid.UUID, date time.Time) (int64, error) {
	query := `
		INSERT INTO attendance (id, student_id, course_id, date, status, remarks, created_at, created_by)
		SELECT gen_random_uuid(), cr.student_id, cr.course_id, $2, 'Absent', 'not marked during lecture window', NOW(), cr.student_id
		FROM course_registrations cr
		WHERE cr.course_id = $1
		ON CONFLICT (student_id, course_id, date) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, courseID, date.Truncate(24*time.Hour))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanAttendance(rows *sql.Rows) ([]domain.Attendance, error) {
	var records []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		if err := rows.Scan(&a.ID, &a.StudentID, &a.CourseID, &a.Date, &a.Status, &a.Remarks, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
