package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/attendance/internal/client/gateway"
	"github.com/dmitrijs2005/attendance/internal/client/models"
)

type Students struct {
	c Caller
}

func (s *Students) Dashboard(ctx context.Context) (*models.StudentDashboard, error) {
	var d models.StudentDashboard
	if err := s.c.Call(ctx, http.MethodGet, "/api/students/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Students) Attendance(ctx context.Context, courseID int64) ([]models.AttendanceRecord, error) {
	var recs []models.AttendanceRecord
	if err := s.c.Call(ctx, http.MethodGet, fmt.Sprintf("/api/students/attendance/%d", courseID), nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

type Faculty struct {
	c Caller
}

func (f *Faculty) Courses(ctx context.Context) ([]models.Course, error) {
	var cs []models.Course
	if err := f.c.Call(ctx, http.MethodGet, "/api/faculty/courses", nil, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (f *Faculty) Roster(ctx context.Context, courseID int64) ([]models.Student, error) {
	var ss []models.Student
	if err := f.c.Call(ctx, http.MethodGet, fmt.Sprintf("/api/faculty/courses/%d/students", courseID), nil, &ss); err != nil {
		return nil, err
	}
	return ss, nil
}

func (f *Faculty) Enroll(ctx context.Context, courseID int64, studentEmail string) (*models.Student, error) {
	req := models.EnrollRequest{Email: studentEmail}
	if err := check(req); err != nil {
		return nil, err
	}
	var st models.Student
	if err := f.c.Call(ctx, http.MethodPost, fmt.Sprintf("/api/faculty/courses/%d/students", courseID), req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (f *Faculty) Unenroll(ctx context.Context, courseID, studentID int64) error {
	return f.c.Call(ctx, http.MethodDelete, fmt.Sprintf("/api/faculty/courses/%d/students/%d", courseID, studentID), nil, nil)
}

func (f *Faculty) MarkAttendance(ctx context.Context, req models.SessionAttendance) ([]models.AttendanceRecord, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	var recs []models.AttendanceRecord
	if err := f.c.Call(ctx, http.MethodPost, "/api/faculty/attendance", req, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (f *Faculty) UpdateAttendance(ctx context.Context, recordID int64, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	req := models.UpdateAttendance{Status: status}
	if err := check(req); err != nil {
		return nil, err
	}
	var rec models.AttendanceRecord
	if err := f.c.Call(ctx, http.MethodPut, fmt.Sprintf("/api/faculty/attendance/%d", recordID), req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

type Dashboard struct {
	c Caller
}

func (d *Dashboard) Admin(ctx context.Context) (*models.AdminDashboard, error) {
	var out models.AdminDashboard
	if err := d.c.Call(ctx, http.MethodGet, "/api/dashboard/admin", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Courses struct {
	c Caller
}

func (c *Courses) List(ctx context.Context) ([]models.Course, error) {
	var cs []models.Course
	if err := c.c.Call(ctx, http.MethodGet, "/api/courses", nil, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// ReportFormat is the file type of a downloaded report.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

type Reports struct {
	c Caller
}

// Download returns the report bytes exactly as the backend sent them.
func (r *Reports) Download(ctx context.Context, courseID int64, format ReportFormat) ([]byte, error) {
	switch format {
	case FormatCSV, FormatPDF:
	default:
		return nil, &ValidationError{Fields: map[string]string{"format": fmt.Sprintf("unsupported report format %q", format)}}
	}

	var data []byte
	if err := r.c.Call(ctx, http.MethodGet, fmt.Sprintf("/api/reports/course/%d", courseID), nil, &data,
		gateway.AsBlob(), gateway.WithQuery(url.Values{"format": {string(format)}})); err != nil {
		return nil, err
	}
	return data, nil
}
