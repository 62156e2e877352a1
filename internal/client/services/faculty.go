package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/dmitrijs2005/attendance/internal/common"
)

// FacultySource is the backend surface used by FacultyView.
type FacultySource interface {
	Courses(ctx context.Context) ([]models.Course, error)
	Roster(ctx context.Context, courseID int64) ([]models.Student, error)
	Enroll(ctx context.Context, courseID int64, studentEmail string) (*models.Student, error)
	Unenroll(ctx context.Context, courseID, studentID int64) error
	MarkAttendance(ctx context.Context, req models.SessionAttendance) ([]models.AttendanceRecord, error)
	UpdateAttendance(ctx context.Context, recordID int64, status models.AttendanceStatus) (*models.AttendanceRecord, error)
}

// FacultyView lists and manages a faculty member's courses. query filters
// are case-insensitive substring matches; an empty query matches everything.
type FacultyView interface {
	Courses(ctx context.Context, query string) ([]models.Course, error)
	Roster(ctx context.Context, courseID int64, query string) ([]models.Student, error)
	Enroll(ctx context.Context, courseID int64, email string) (*models.Student, error)
	Unenroll(ctx context.Context, courseID, studentID int64) error
	Mark(ctx context.Context, req models.SessionAttendance) ([]models.AttendanceRecord, error)
	Update(ctx context.Context, recordID int64, status models.AttendanceStatus) (*models.AttendanceRecord, error)
}

type facultyView struct {
	src FacultySource
}

func NewFacultyView(src FacultySource) FacultyView {
	return &facultyView{src: src}
}

func (v *facultyView) Courses(ctx context.Context, query string) ([]models.Course, error) {
	cs, err := v.src.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCourses(cs, query), nil
}

func (v *facultyView) Roster(ctx context.Context, courseID int64, query string) ([]models.Student, error) {
	ss, err := v.src.Roster(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return FilterStudents(ss, query), nil
}

func (v *facultyView) Enroll(ctx context.Context, courseID int64, email string) (*models.Student, error) {
	return v.src.Enroll(ctx, courseID, strings.TrimSpace(email))
}

func (v *facultyView) Unenroll(ctx context.Context, courseID, studentID int64) error {
	return v.src.Unenroll(ctx, courseID, studentID)
}

func (v *facultyView) Mark(ctx context.Context, req models.SessionAttendance) ([]models.AttendanceRecord, error) {
	return v.src.MarkAttendance(ctx, req)
}

func (v *facultyView) Update(ctx context.Context, recordID int64, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	return v.src.UpdateAttendance(ctx, recordID, status)
}

func contains(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

func FilterCourses(cs []models.Course, query string) []models.Course {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cs
	}
	out := make([]models.Course, 0, len(cs))
	for _, c := range cs {
		if contains(c.Code, q) || contains(c.Name, q) {
			out = append(out, c)
		}
	}
	return out
}

func FilterStudents(ss []models.Student, query string) []models.Student {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ss
	}
	out := make([]models.Student, 0, len(ss))
	for _, s := range ss {
		if contains(s.FullName, q) || contains(s.Email, q) || contains(s.RollNumber, q) {
			out = append(out, s)
		}
	}
	return out
}

// FindCourse resolves ref, either a numeric id or a course code, against cs.
func FindCourse(cs []models.Course, ref string) (*models.Course, error) {
	ref = strings.TrimSpace(ref)
	id, idErr := strconv.ParseInt(ref, 10, 64)
	for i := range cs {
		if idErr == nil && cs[i].ID == id {
			return &cs[i], nil
		}
		if strings.EqualFold(cs[i].Code, ref) {
			return &cs[i], nil
		}
	}
	return nil, fmt.Errorf("course %q: %w", ref, common.ErrNotFound)
}

// FindStudent resolves ref (id, email or roll number) against a roster.
func FindStudent(ss []models.Student, ref string) (*models.Student, error) {
	ref = strings.TrimSpace(ref)
	id, idErr := strconv.ParseInt(ref, 10, 64)
	for i := range ss {
		s := &ss[i]
		if idErr == nil && s.ID == id {
			return s, nil
		}
		if strings.EqualFold(s.Email, ref) || (s.RollNumber != "" && strings.EqualFold(s.RollNumber, ref)) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("student %q: %w", ref, common.ErrNotFound)
}
