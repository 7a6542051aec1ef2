package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

const defaultSectionCapacity = 50

type sectionService struct {
	repo ports.SectionRepository
}

func NewSectionService(repo ports.SectionRepository) ports.SectionService {
	return &sectionService{repo: repo}
}

func (s *sectionService) Create(ctx context.Context, input ports.CreateSectionInput) (*domain.Section, error) {
	if input.Name == "" {
		return nil, errors.New("section name is required")
	}
	capacity := input.Capacity
	if capacity <= 0 {
		capacity = defaultSectionCapacity
	}

	section := &domain.Section{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Capacity:    capacity,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Save(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to save section: %w", err)
	}
	return section, nil
}

func (s *sectionService) List(ctx context.Context) ([]domain.Section, error) {
	return s.repo.GetAll(ctx)
}

func (s *sectionService) AssignStudent(ctx context.Context, studentID, sectionID uuid.UUID) (*domain.SectionAssignment, error) {
	section, err := s.repo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	if section == nil {
		return nil, domain.ErrSectionNotFound
	}

	count, err := s.repo.CountStudents(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count section students: %w", err)
	}
	if count >= section.Capacity {
		return nil, domain.ErrSectionFull
	}

	assignment := &domain.SectionAssignment{
		ID:         uuid.New(),
		StudentID:  studentID,
		SectionID:  sectionID,
		AssignedAt: time.Now(),
	}
	if err := s.repo.AssignStudent(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *sectionService) CreateSession(ctx context.Context, input ports.CreateSessionInput) (*domain.AcademicSession, error) {
	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return nil, errors.New("invalid start date")
	}
	end, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		return nil, errors.New("invalid end date")
	}
	if !end.After(start) {
		return nil, errors.New("end date must be after start date")
	}

	session := &domain.AcademicSession{
		ID:        uuid.New(),
		Name:      input.Name,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save academic session: %w", err)
	}
	return session, nil
}

func (s *sectionService) AssignSession(ctx context.Context, sessionID, sectionID uuid.UUID) (*domain.SessionAssignment, error) {
	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get academic session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionTermNotFound
	}
	section, err := s.repo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	if section == nil {
		return nil, domain.ErrSectionNotFound
	}

	assignment := &domain.SessionAssignment{
		ID:         uuid.New(),
		SessionID:  sessionID,
		SectionID:  sectionID,
		AssignedAt: time.Now(),
	}
	if err := s.repo.AssignSession(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}
