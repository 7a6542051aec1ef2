package domain

import (
	"time"

	"github.com/google/uuid"
)

type Section struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"created_at"`
}

// AcademicSession is a term (e.g. "Fall 2026") sections are scheduled under.
type AcademicSession struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
}

// SectionAssignment places a student into a section.
type SectionAssignment struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"studentId"`
	SectionID  uuid.UUID `json:"sectionId"`
	AssignedAt time.Time `json:"assignedAt"`
}

// SessionAssignment schedules a section under an academic session.
type SessionAssignment struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"sessionId"`
	SectionID  uuid.UUID `json:"sectionId"`
	AssignedAt time.Time `json:"assignedAt"`
}
