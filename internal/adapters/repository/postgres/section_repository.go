package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type SectionRepository struct {
	db *sql.DB
}

func NewSectionRepository(db *sql.DB) ports.SectionRepository {
	return &SectionRepository{db: db}
}

func (r *SectionRepository) Save(ctx context.Context, section *domain.Section) error {
	query := `INSERT INTO sections (id, name, description, capacity, is_active, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		section.ID, section.Name, section.Description, section.Capacity, section.IsActive, section.CreatedAt)
	return err
}

func (r *SectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Section, error) {
	query := `SELECT id, name, description, capacity, is_active, created_at FROM sections WHERE id = $1`
	section := &domain.Section{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&section.ID, &section.Name, &section.Description, &section.Capacity, &section.IsActive, &section.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return section, nil
}

func (r *SectionRepository) GetAll(ctx context.Context) ([]domain.Section, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, capacity, is_active, created_at FROM sections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var section domain.Section
		if err := rows.Scan(&section.ID, &section.Name, &section.Description,
			&section.Capacity, &section.IsActive, &section.CreatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

func (r *SectionRepository) CountStudents(ctx context.Context, sectionID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM section_assignments WHERE section_id = $1`
	if err := r.db.QueryRowContext(ctx, query, sectionID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SectionRepository) AssignStudent(ctx context.Context, assignment *domain.SectionAssignment) error {
	query := `INSERT INTO section_assignments (id, student_id, section_id, assigned_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, assignment.ID, assignment.StudentID, assignment.SectionID, assignment.AssignedAt)
	return err
}

func (r *SectionRepository) SaveSession(ctx context.Context, session *domain.AcademicSession) error {
	query := `INSERT INTO academic_sessions (id, name, start_date, end_date, is_active) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, session.ID, session.Name, session.StartDate, session.EndDate, session.IsActive)
	return err
}

func (r *SectionRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*domain.AcademicSession, error) {
	query := `SELECT id, name, start_date, end_date, is_active FROM academic_sessions WHERE id = $1`
	session := &domain.AcademicSession{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.Name, &session.StartDate, &session.EndDate, &session.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (r *SectionRepository) AssignSession(ctx context.Context, assignment *domain.SessionAssignment) error {
	query := `INSERT INTO session_assignments (id, session_id, section_id, assigned_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, assignment.ID, assignment.SessionID, assignment.SectionID, assignment.AssignedAt)
	return err
}
