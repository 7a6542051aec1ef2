package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type TimetableRepository struct {
	db *sql.DB
}

func NewTimetableRepository(db *sql.DB) ports.TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) Save(ctx context.Context, entry *domain.TimetableEntry) error {
	query := `
		INSERT INTO timetable_entries (id, course_id, section_id, day_of_week, start_minutes, end_minutes, room)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.CourseID, entry.SectionID, int(entry.DayOfWeek), entry.StartMinutes, entry.EndMinutes, entry.Room)
	return err
}

func (r *TimetableRepository) ListBySection(ctx context.Context, sectionID uuid.UUID) ([]domain.TimetableEntry, error) {
	query := `
		SELECT id, course_id, section_id, day_of_week, start_minutes, end_minutes, room
		FROM timetable_entries
		WHERE section_id = $1
		ORDER BY day_of_week, start_minutes
	`
	rows, err := r.db.QueryContext(ctx, query, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.TimetableEntry
	for rows.Next() {
		var entry domain.TimetableEntry
		var day int
		if err := rows.Scan(&entry.ID, &entry.CourseID, &entry.SectionID, &day, &entry.StartMinutes, &entry.EndMinutes, &entry.Room); err != nil {
			return nil, err
		}
		entry.DayOfWeek = time.Weekday(day)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *TimetableRepository) FindLecture(ctx context.Context, courseID uuid.UUID, day time.Weekday) (*domain.TimetableEntry, error) {
	query := `
		SELECT id, course_id, section_id, day_of_week, start_minutes, end_minutes, room
		FROM timetable_entries
		WHERE course_id = $1 AND day_of_week = $2
		ORDER BY start_minutes
		LIMIT 1
	`
	entry := &domain.TimetableEntry{}
	var d int
	err := r.db.QueryRowContext(ctx, query, courseID, int(day)).Scan(
		&entry.ID, &entry.CourseID, &entry.SectionID, &d, &entry.StartMinutes, &entry.EndMinutes, &entry.Room)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	entry.DayOfWeek = time.Weekday(d)
	return entry, nil
}
