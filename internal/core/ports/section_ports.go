package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
)

type SectionRepository interface {
	Save(ctx context.Context, section *domain.Section) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Section, error)
	GetAll(ctx context.Context) ([]domain.Section, error)
	CountStudents(ctx context.Context, sectionID uuid.UUID) (int, error)
	AssignStudent(ctx context.Context, assignment *domain.SectionAssignment) error
	SaveSession(ctx context.Context, session *domain.AcademicSession) error
	GetSessionByID(ctx context.Context, id uuid.UUID) (*domain.AcademicSession, error)
	AssignSession(ctx context.Context, assignment *domain.SessionAssignment) error
}

type CreateSectionInput struct {
	Name        string
	Description string
	Capacity    int
}

type CreateSessionInput struct {
	Name      string
	StartDate string
	EndDate   string
}

type SectionService interface {
	Create(ctx context.Context, input CreateSectionInput) (*domain.Section, error)
	List(ctx context.Context) ([]domain.Section, error)
	AssignStudent(ctx context.Context, studentID, sectionID uuid.UUID) (*domain.SectionAssignment, error)
	CreateSession(ctx context.Context, input CreateSessionInput) (*domain.AcademicSession, error)
	AssignSession(ctx context.Context, sessionID, sectionID uuid.UUID) (*domain.SessionAssignment, error)
}
