package domain

import "errors"

var (
	// Token codec / refresh protocol taxonomy. All of these surface to HTTP
	// clients as a generic refresh failure; the distinction is for logs.
	ErrInvalidToken         = errors.New("invalid token")
	ErrMissingClaims        = errors.New("token missing required claims")
	ErrRefreshTokenNotFound = errors.New("refresh token does not exist")
	ErrRefreshTokenExpired  = errors.New("refresh token has expired")
	ErrRefreshTokenUsed     = errors.New("refresh token has been used")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
	ErrTokenMismatch        = errors.New("token doesn't match")
	ErrUserNotFound         = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
	ErrSessionNotFound    = errors.New("session not found")

	ErrCourseNotFound      = errors.New("course not found")
	ErrSectionNotFound     = errors.New("section not found")
	ErrSessionTermNotFound = errors.New("academic session not found")
	ErrSectionFull         = errors.New("section is at capacity")
	ErrAlreadyAssigned     = errors.New("assignment already exists")
	ErrAlreadyRegistered   = errors.New("student already registered for course")
	ErrNoLectureScheduled  = errors.New("no lecture scheduled for this date")
	ErrWindowNotOpen       = errors.New("attendance window has not opened yet")
	ErrWindowLocked        = errors.New("attendance window is locked")
	ErrTimetableConflict   = errors.New("timetable slot conflicts with an existing entry")
	ErrInvalidStatus       = errors.New("invalid attendance status")
)
