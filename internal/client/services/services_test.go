package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStudent struct {
	dash *models.StudentDashboard
	err  error
}

func (f *fakeStudent) Dashboard(context.Context) (*models.StudentDashboard, error) {
	return f.dash, f.err
}

func (f *fakeStudent) Attendance(_ context.Context, id int64) ([]models.AttendanceRecord, error) {
	return []models.AttendanceRecord{{ID: 1, CourseID: id, Status: models.StatusPresent}}, f.err
}

func TestStudentView_Summary(t *testing.T) {
	src := &fakeStudent{dash: &models.StudentDashboard{
		Courses: []models.CourseAttendance{
			{CourseID: 1, Code: "CS101", Percentage: 91.5},
			{CourseID: 2, Code: "MA201", Percentage: 62.0, Shortage: true},
			{CourseID: 3, Code: "PH110", Percentage: 70.0, Shortage: true},
		},
		ShortageThreshold: 75,
	}}

	s, err := NewStudentView(src).Summary(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s.Lowest)
	assert.Equal(t, "MA201", s.Lowest.Code)
	assert.Equal(t, 2, s.Shortages)
	assert.Same(t, src.dash, s.Dashboard)
}

func TestStudentView_SummaryEmptyAndError(t *testing.T) {
	s, err := NewStudentView(&fakeStudent{dash: &models.StudentDashboard{}}).Summary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s.Lowest)
	assert.Zero(t, s.Shortages)

	boom := errors.New("boom")
	_, err = NewStudentView(&fakeStudent{err: boom}).Summary(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestStudentView_History(t *testing.T) {
	recs, err := NewStudentView(&fakeStudent{}).History(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(4), recs[0].CourseID)
}

var courses = []models.Course{
	{ID: 1, Code: "CS101", Name: "Intro to Programming"},
	{ID: 2, Code: "CS202", Name: "Data Structures"},
	{ID: 3, Code: "MA101", Name: "Calculus"},
}

var roster = []models.Student{
	{ID: 10, FullName: "Asha Rao", Email: "asha@college.edu", RollNumber: "21CS001"},
	{ID: 11, FullName: "Ben Ito", Email: "ben@college.edu", RollNumber: "21CS002"},
	{ID: 12, FullName: "Chen Li", Email: "chen@college.edu"},
}

func TestFilterCourses(t *testing.T) {
	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3}},
		{"cs", []int64{1, 2}},
		{"  DATA ", []int64{2}},
		{"calc", []int64{3}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []int64
			for _, c := range FilterCourses(courses, tt.query) {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterStudents(t *testing.T) {
	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{10, 11, 12}},
		{"ASHA", []int64{10}},
		{"college.edu", []int64{10, 11, 12}},
		{"21cs002", []int64{11}},
		{"li", []int64{12}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []int64
			for _, s := range FilterStudents(roster, tt.query) {
				got = append(got, s.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindCourse(t *testing.T) {
	c, err := FindCourse(courses, "2")
	require.NoError(t, err)
	assert.Equal(t, "CS202", c.Code)

	c, err = FindCourse(courses, "ma101")
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)

	_, err = FindCourse(courses, "EE100")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestFindStudent(t *testing.T) {
	s, err := FindStudent(roster, "11")
	require.NoError(t, err)
	assert.Equal(t, "Ben Ito", s.FullName)

	s, err = FindStudent(roster, "CHEN@college.edu")
	require.NoError(t, err)
	assert.Equal(t, int64(12), s.ID)

	s, err = FindStudent(roster, "21cs001")
	require.NoError(t, err)
	assert.Equal(t, int64(10), s.ID)

	_, err = FindStudent(roster, "")
	require.ErrorIs(t, err, common.ErrNotFound)
}

type fakeFaculty struct {
	enrolled string
	marked   models.SessionAttendance
	removed  [2]int64
	updated  models.AttendanceStatus
}

func (f *fakeFaculty) Courses(context.Context) ([]models.Course, error) { return courses, nil }
func (f *fakeFaculty) Roster(context.Context, int64) ([]models.Student, error) {
	return roster, nil
}
func (f *fakeFaculty) Enroll(_ context.Context, _ int64, email string) (*models.Student, error) {
	f.enrolled = email
	return &models.Student{Email: email}, nil
}
func (f *fakeFaculty) Unenroll(_ context.Context, c, s int64) error {
	f.removed = [2]int64{c, s}
	return nil
}
func (f *fakeFaculty) MarkAttendance(_ context.Context, req models.SessionAttendance) ([]models.AttendanceRecord, error) {
	f.marked = req
	return nil, nil
}
func (f *fakeFaculty) UpdateAttendance(_ context.Context, id int64, st models.AttendanceStatus) (*models.AttendanceRecord, error) {
	f.updated = st
	return &models.AttendanceRecord{ID: id, Status: st}, nil
}

func TestFacultyView(t *testing.T) {
	src := &fakeFaculty{}
	v := NewFacultyView(src)
	ctx := context.Background()

	cs, err := v.Courses(ctx, "cs")
	require.NoError(t, err)
	assert.Len(t, cs, 2)

	ss, err := v.Roster(ctx, 1, "ben")
	require.NoError(t, err)
	require.Len(t, ss, 1)
	assert.Equal(t, int64(11), ss[0].ID)

	_, err = v.Enroll(ctx, 1, "  new@college.edu ")
	require.NoError(t, err)
	assert.Equal(t, "new@college.edu", src.enrolled)

	require.NoError(t, v.Unenroll(ctx, 1, 11))
	assert.Equal(t, [2]int64{1, 11}, src.removed)

	req := models.SessionAttendance{CourseID: 1, Date: "2024-03-01"}
	_, err = v.Mark(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, req, src.marked)

	rec, err := v.Update(ctx, 5, models.StatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAbsent, rec.Status)
}

type fakeAdmin struct{ d *models.AdminDashboard }

func (f fakeAdmin) Admin(context.Context) (*models.AdminDashboard, error) { return f.d, nil }

func TestAdminView_Stats(t *testing.T) {
	d := &models.AdminDashboard{
		TotalStudents: 120,
		Departments: []models.DepartmentStats{
			{Name: "CSE", Percentage: 82},
			{Name: "ME", Percentage: 71, BelowThreshold: true},
			{Name: "EE", Percentage: 60, BelowThreshold: true},
		},
	}

	s, err := NewAdminView(fakeAdmin{d}).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.DepartmentsBelow)
	assert.Equal(t, 120, s.TotalStudents)
}
