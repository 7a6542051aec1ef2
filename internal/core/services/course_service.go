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

type courseService struct {
	repo ports.CourseRepository
}

func NewCourseService(repo ports.CourseRepository) ports.CourseService {
	return &courseService{repo: repo}
}

func (s *courseService) Create(ctx context.Context, input ports.CreateCourseInput) (*domain.Course, error) {
	if input.Code == "" || input.Name == "" {
		return nil, errors.New("course code and name are required")
	}

	course := &domain.Course{
		ID:          uuid.New(),
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		CreditHours: input.CreditHours,
		Department:  input.Department,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Save(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	return course, nil
}

func (s *courseService) Get(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.repo.GetAll(ctx)
}

func (s *courseService) AssignTeacher(ctx context.Context, teacherID, courseID uuid.UUID) (*domain.CourseAssignment, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}

	assignment := &domain.CourseAssignment{
		ID:         uuid.New(),
		TeacherID:  teacherID,
		CourseID:   courseID,
		AssignedAt: time.Now(),
	}
	if err := s.repo.AssignTeacher(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *courseService) RegisterStudent(ctx context.Context, studentID, courseID uuid.UUID) (*domain.CourseRegistration, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}

	registered, err := s.repo.IsStudentRegistered(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if registered {
		return nil, domain.ErrAlreadyRegistered
	}

	registration := &domain.CourseRegistration{
		ID:           uuid.New(),
		StudentID:    studentID,
		CourseID:     courseID,
		RegisteredAt: time.Now(),
	}
	if err := s.repo.RegisterStudent(ctx, registration); err != nil {
		return nil, err
	}
	return registration, nil
}
