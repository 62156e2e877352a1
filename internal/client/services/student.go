package services

import (
	"context"

	"github.com/dmitrijs2005/attendance/internal/client/models"
)

// StudentSource is the backend surface used by StudentView.
type StudentSource interface {
	Dashboard(ctx context.Context) (*models.StudentDashboard, error)
	Attendance(ctx context.Context, courseID int64) ([]models.AttendanceRecord, error)
}

// StudentSummary is the student home screen.
type StudentSummary struct {
	Dashboard *models.StudentDashboard
	// Lowest is the course with the smallest percentage, nil without courses.
	Lowest *models.CourseAttendance
	// Shortages counts courses the backend flagged.
	Shortages int
}

type StudentView interface {
	Summary(ctx context.Context) (*StudentSummary, error)
	History(ctx context.Context, courseID int64) ([]models.AttendanceRecord, error)
}

type studentView struct {
	src StudentSource
}

func NewStudentView(src StudentSource) StudentView {
	return &studentView{src: src}
}

func (v *studentView) Summary(ctx context.Context) (*StudentSummary, error) {
	d, err := v.src.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	s := &StudentSummary{Dashboard: d}
	for i := range d.Courses {
		c := &d.Courses[i]
		if c.Shortage {
			s.Shortages++
		}
		if s.Lowest == nil || c.Percentage < s.Lowest.Percentage {
			s.Lowest = c
		}
	}
	return s, nil
}

func (v *studentView) History(ctx context.Context, courseID int64) ([]models.AttendanceRecord, error) {
	return v.src.Attendance(ctx, courseID)
}
