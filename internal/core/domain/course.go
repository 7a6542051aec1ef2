package domain

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreditHours int       `json:"creditHours"`
	Department  string    `json:"department"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"created_at"`
}

// CourseAssignment links a teacher to a course they lecture.
type CourseAssignment struct {
	ID         uuid.UUID `json:"id"`
	TeacherID  uuid.UUID `json:"teacherId"`
	CourseID   uuid.UUID `json:"courseId"`
	AssignedAt time.Time `json:"assignedAt"`
}

// CourseRegistration links a student to a course they take.
type CourseRegistration struct {
	ID           uuid.UUID `json:"id"`
	StudentID    uuid.UUID `json:"studentId"`
	CourseID     uuid.UUID `json:"courseId"`
	RegisteredAt time.Time `json:"registeredAt"`
}
