package domain

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusLate    AttendanceStatus = "Late"
	StatusExcused AttendanceStatus = "Excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

type Attendance struct {
	ID        uuid.UUID        `json:"id"`
	StudentID uuid.UUID        `json:"studentId"`
	CourseID  uuid.UUID        `json:"courseId"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Remarks   string           `json:"remarks,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	CreatedBy uuid.UUID        `json:"createdBy"`
}

// WindowStatus describes whether attendance marking is currently allowed for
// a lecture. Marking opens at lecture start and locks ten minutes later.
type WindowStatus struct {
	Allowed      bool      `json:"allowed"`
	Locked       bool      `json:"locked"`
	Message      string    `json:"message"`
	LectureStart time.Time `json:"lectureStart,omitzero"`
	WindowEnd    time.Time `json:"windowEnd,omitzero"`
}

// CourseAttendanceSummary aggregates one student's attendance in a course.
type CourseAttendanceSummary struct {
	StudentID   uuid.UUID `json:"studentId"`
	FullName    string    `json:"fullName"`
	Present     int       `json:"present"`
	Absent      int       `json:"absent"`
	Late        int       `json:"late"`
	Excused     int       `json:"excused"`
	Total       int       `json:"total"`
	PresentRate float64   `json:"presentRate"`
}
