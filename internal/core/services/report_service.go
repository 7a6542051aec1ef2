package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/ams/internal/core/domain"
	"github.com/classtrack/ams/internal/core/ports"
)

type reportService struct {
	attendance ports.AttendanceRepository
	courses    ports.CourseRepository
	timetable  ports.TimetableRepository
}

func NewReportService(attendance ports.AttendanceRepository, courses ports.CourseRepository, timetable ports.TimetableRepository) ports.ReportService {
	return &reportService{attendance: attendance, courses: courses, timetable: timetable}
}

func (s *reportService) CourseSummary(ctx context.Context, courseID uuid.UUID) ([]domain.CourseAttendanceSummary, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}

	summaries, err := s.attendance.SummarizeCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize course attendance: %w", err)
	}
	for i := range summaries {
		if summaries[i].Total > 0 {
			summaries[i].PresentRate = float64(summaries[i].Present) / float64(summaries[i].Total)
		}
	}
	return summaries, nil
}

// BackfillAbsences marks Absent every registered student left unmarked after
// a lecture day, one goroutine per course. Courses without a lecture on the
// date are skipped.
func (s *reportService) BackfillAbsences(ctx context.Context, date time.Time) (int64, error) {
	courses, err := s.courses.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch courses: %w", err)
	}

	var wg sync.WaitGroup
	var marked int64
	errChan := make(chan error, len(courses))

	for _, course := range courses {
		wg.Add(1)
		go func(courseID uuid.UUID) {
			defer wg.Done()
			lecture, err := s.timetable.FindLecture(ctx, courseID, date.Weekday())
			if err != nil {
				errChan <- fmt.Errorf("failed to look up lecture for course %s: %w", courseID, err)
				return
			}
			if lecture == nil {
				return
			}
			n, err := s.attendance.MarkAbsentees(ctx, courseID, date)
			if err != nil {
				errChan <- fmt.Errorf("failed to backfill course %s: %w", courseID, err)
				return
			}
			atomic.AddInt64(&marked, n)
		}(course.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return marked, err
		}
	}

	return marked, nil
}
