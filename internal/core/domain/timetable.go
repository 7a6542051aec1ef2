package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimetableEntry is a recurring weekly lecture slot for a course in a section.
// Times are minutes since midnight so the entry is date-independent.
type TimetableEntry struct {
	ID           uuid.UUID    `json:"id"`
	CourseID     uuid.UUID    `json:"courseId"`
	SectionID    uuid.UUID    `json:"sectionId"`
	DayOfWeek    time.Weekday `json:"dayOfWeek"`
	StartMinutes int          `json:"startMinutes"`
	EndMinutes   int          `json:"endMinutes"`
	Room         string       `json:"room"`
}

// StartOn anchors the slot's start time onto a concrete date.
func (e TimetableEntry) StartOn(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(e.StartMinutes) * time.Minute)
}

// Overlaps reports whether two slots collide on the same weekday.
func (e TimetableEntry) Overlaps(other TimetableEntry) bool {
	if e.DayOfWeek != other.DayOfWeek {
		return false
	}
	return e.StartMinutes < other.EndMinutes && other.StartMinutes < e.EndMinutes
}
