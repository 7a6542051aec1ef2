package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
)

type CourseRepository interface {
	Save(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	GetAll(ctx context.Context) ([]domain.Course, error)
	AssignTeacher(ctx context.Context, assignment *domain.CourseAssignment) error
	RegisterStudent(ctx context.Context, registration *domain.CourseRegistration) error
	IsStudentRegistered(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

type CreateCourseInput struct {
	Code        string
	Name        string
	Description string
	CreditHours int
	Department  string
}

type CourseService interface {
	Create(ctx context.Context, input CreateCourseInput) (*domain.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	AssignTeacher(ctx context.Context, teacherID, courseID uuid.UUID) (*domain.CourseAssignment, error)
	RegisterStudent(ctx context.Context, studentID, courseID uuid.UUID) (*domain.CourseRegistration, error)
}
