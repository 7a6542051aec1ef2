package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/ams/internal/core/domain"
)

func doJSON(t *testing.T, app *TestApp, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAttendanceFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	admin, _ := registerUser(t, app, domain.RoleAdmin)
	teacher, _ := registerUser(t, app, domain.RoleTeacher)
	student, _ := registerUser(t, app, domain.RoleStudent)

	// Admin creates the course and section.
	resp := doJSON(t, app, http.MethodPost, "/api/courses", admin.Token, map[string]any{
		"code":        "CS101",
		"name":        "Intro to Computing",
		"creditHours": 3,
		"department":  "CS",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	course := decodeJSON[map[string]any](t, resp)
	courseID := course["id"].(string)

	resp = doJSON(t, app, http.MethodPost, "/api/sections", admin.Token, map[string]any{
		"name":     "A",
		"capacity": 30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	section := decodeJSON[map[string]any](t, resp)
	sectionID := section["id"].(string)

	// A lecture slot whose marking window contains the present moment.
	now := time.Now()
	startMinutes := now.Hour()*60 + now.Minute() - 5
	if startMinutes < 0 {
		startMinutes = 0
	}
	resp = doJSON(t, app, http.MethodPost, "/api/timetable", admin.Token, map[string]any{
		"courseId":     courseID,
		"sectionId":    sectionID,
		"dayOfWeek":    int(now.Weekday()),
		"startMinutes": startMinutes,
		"endMinutes":   startMinutes + 60,
		"room":         "B-204",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// An overlapping slot on the same day is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/timetable", admin.Token, map[string]any{
		"courseId":     courseID,
		"sectionId":    sectionID,
		"dayOfWeek":    int(now.Weekday()),
		"startMinutes": startMinutes + 30,
		"endMinutes":   startMinutes + 90,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Students cannot create courses.
	resp = doJSON(t, app, http.MethodPost, "/api/courses", student.Token, map[string]any{
		"code": "HAX",
		"name": "Nope",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The marking window is open right now.
	resp = doJSON(t, app, http.MethodGet, "/api/attendance/window?courseId="+courseID, teacher.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	window := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, true, window["allowed"])

	// Teacher marks the student present.
	resp = doJSON(t, app, http.MethodPost, "/api/attendance", teacher.Token, map[string]any{
		"studentId": student.UserID,
		"courseId":  courseID,
		"status":    string(domain.StatusPresent),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Re-marking the same lecture upserts rather than duplicating.
	resp = doJSON(t, app, http.MethodPost, "/api/attendance", teacher.Token, map[string]any{
		"studentId": student.UserID,
		"courseId":  courseID,
		"status":    string(domain.StatusLate),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The student sees exactly one record with the latest status.
	resp = doJSON(t, app, http.MethodGet, "/api/attendance/mine", student.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := decodeJSON[[]map[string]any](t, resp)
	require.Len(t, records, 1)
	assert.Equal(t, string(domain.StatusLate), records[0]["status"])

	// Students cannot mark attendance.
	resp = doJSON(t, app, http.MethodPost, "/api/attendance", student.Token, map[string]any{
		"studentId": student.UserID,
		"courseId":  courseID,
		"status":    string(domain.StatusPresent),
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// A second student registers but is never marked; the backfill job turns
	// that into an Absent row.
	other, _ := registerUser(t, app, domain.RoleStudent)
	resp = doJSON(t, app, http.MethodPost, "/api/courses/"+courseID+"/register", other.Token, map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	marked, err := app.ReportSvc.BackfillAbsences(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	// Running it again is a no-op.
	marked, err = app.ReportSvc.BackfillAbsences(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), marked)

	// The course report aggregates per student.
	resp = doJSON(t, app, http.MethodGet, "/api/courses/"+courseID+"/report", teacher.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summaries := decodeJSON[[]map[string]any](t, resp)
	require.Len(t, summaries, 2)

	byStudent := make(map[string]map[string]any)
	for _, s := range summaries {
		byStudent[s["studentId"].(string)] = s
	}
	require.Contains(t, byStudent, student.UserID)
	assert.Equal(t, float64(1), byStudent[student.UserID]["late"])
	assert.Equal(t, float64(1), byStudent[student.UserID]["total"])
	require.Contains(t, byStudent, other.UserID)
	assert.Equal(t, float64(1), byStudent[other.UserID]["absent"])
}

func TestAttendanceWindowClosed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	admin, _ := registerUser(t, app, domain.RoleAdmin)
	teacher, _ := registerUser(t, app, domain.RoleTeacher)
	student, _ := registerUser(t, app, domain.RoleStudent)

	resp := doJSON(t, app, http.MethodPost, "/api/courses", admin.Token, map[string]any{
		"code": "CS102",
		"name": "Data Structures",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	course := decodeJSON[map[string]any](t, resp)
	courseID := course["id"].(string)

	resp = doJSON(t, app, http.MethodPost, "/api/sections", admin.Token, map[string]any{
		"name": "B",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	section := decodeJSON[map[string]any](t, resp)
	sectionID := section["id"].(string)

	// Lecture started an hour ago; the ten minute window is long over.
	now := time.Now()
	startMinutes := now.Hour()*60 + now.Minute() - 60
	if startMinutes < 0 {
		// Too close to midnight for a lecture an hour ago; a slot later
		// today keeps the window equally closed.
		startMinutes = now.Hour()*60 + now.Minute() + 120
	}
	resp = doJSON(t, app, http.MethodPost, "/api/timetable", admin.Token, map[string]any{
		"courseId":     courseID,
		"sectionId":    sectionID,
		"dayOfWeek":    int(now.Weekday()),
		"startMinutes": startMinutes,
		"endMinutes":   startMinutes + 50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/attendance", teacher.Token, map[string]any{
		"studentId": student.UserID,
		"courseId":  courseID,
		"status":    string(domain.StatusPresent),
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}
