package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) ports.CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Save(ctx context.Context, course *domain.Course) error {
	query := `
		INSERT INTO courses (id, code, name, description, credit_hours, department, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		course.ID, course.Code, course.Name, course.Description, course.CreditHours, course.Department, course.IsActive, course.CreatedAt)
	return err
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	query := `SELECT id, code, name, description, credit_hours, department, is_active, created_at FROM courses WHERE id = $1`
	course := &domain.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID, &course.Code, &course.Name, &course.Description,
		&course.CreditHours, &course.Department, &course.IsActive, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return course, nil
}

func (r *CourseRepository) GetAll(ctx context.Context) ([]domain.Course, error) {
	query := `SELECT id, code, name, description, credit_hours, department, is_active, created_at FROM courses ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name, &course.Description,
			&course.CreditHours, &course.Department, &course.IsActive, &course.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) AssignTeacher(ctx context.Context, assignment *domain.CourseAssignment) error {
	query := `INSERT INTO course_assignments (id, teacher_id, course_id, assigned_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, assignment.ID, assignment.TeacherID, assignment.CourseID, assignment.AssignedAt)
	return err
}

func (r *CourseRepository) RegisterStudent(ctx context.Context, registration *domain.CourseRegistration) error {
	query := `INSERT INTO course_registrations (id, student_id, course_id, registered_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, registration.ID, registration.StudentID, registration.CourseID, registration.RegisteredAt)
	return err
}

func (r *CourseRepository) IsStudentRegistered(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM course_registrations WHERE student_id = $1 AND course_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, studentID, courseID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
