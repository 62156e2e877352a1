package devserver

import (
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type user struct {
	models.Identity
	hash []byte
}

type course struct {
	models.Course
	FacultyID int64
}

var (
	errCourseNotFound = echo.NewHTTPError(http.StatusNotFound, "Course not found")
	errNotYourCourse  = echo.NewHTTPError(http.StatusForbidden, "Not your course")
)

// store is the in-memory database.
type store struct {
	mu sync.RWMutex

	cost      int
	threshold float64

	users   map[int64]*user
	byEmail map[string]int64
	courses map[int64]*course
	// course id -> student ids
	enrolled map[int64]map[int64]bool
	records  map[int64]*models.AttendanceRecord
	resets   map[string]int64

	nextUser, nextCourse, nextRecord int64
}

func newStore(cost int, threshold float64) *store {
	return &store{
		cost:      cost,
		threshold: threshold,
		users:     map[int64]*user{},
		byEmail:   map[string]int64{},
		courses:   map[int64]*course{},
		enrolled:  map[int64]map[int64]bool{},
		records:   map[int64]*models.AttendanceRecord{},
		resets:    map[string]int64{},
	}
}

func normEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *store) addUser(id models.Identity, password string) (*models.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := normEmail(id.Email)
	if _, ok := s.byEmail[email]; ok {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}
	s.nextUser++
	id.ID = s.nextUser
	id.Email = email
	u := &user{Identity: id, hash: hash}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID

	out := u.Identity
	return &out, nil
}

func (s *store) authenticate(email, password string) (*models.Identity, bool) {
	s.mu.RLock()
	id, ok := s.byEmail[normEmail(email)]
	var u *user
	if ok {
		u = s.users[id]
	}
	s.mu.RUnlock()

	if u == nil {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return nil, false
	}
	out := u.Identity
	return &out, true
}

func (s *store) userByID(id int64) (*models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	out := u.Identity
	return &out, true
}

func (s *store) createReset(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[normEmail(email)]
	if !ok {
		return "", false
	}
	tok := uuid.NewString()
	s.resets[tok] = id
	return tok, true
}

func (s *store) pendingReset(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[normEmail(email)]
	if !ok {
		return "", false
	}
	for tok, uid := range s.resets {
		if uid == id {
			return tok, true
		}
	}
	return "", false
}

func (s *store) resetPassword(token, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.resets[token]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired reset token")
	}
	delete(s.resets, token)
	s.users[id].hash = hash
	return nil
}

func (s *store) addCourse(c models.Course, facultyID int64) *models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCourse++
	c.ID = s.nextCourse
	if f, ok := s.users[facultyID]; ok {
		c.FacultyName = f.FullName
	}
	s.courses[c.ID] = &course{Course: c, FacultyID: facultyID}
	s.enrolled[c.ID] = map[int64]bool{}
	return &c
}

func (s *store) courseView(c *course) models.Course {
	out := c.Course
	out.StudentCount = len(s.enrolled[c.ID])
	return out
}

func (s *store) listCourses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, s.courseView(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) facultyCourses(facultyID int64, admin bool) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Course{}
	for _, c := range s.courses {
		if admin || c.FacultyID == facultyID {
			out = append(out, s.courseView(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ownedCourse returns the course if the caller may manage it. s.mu must be
// held.
func (s *store) ownedCourse(courseID int64, caller *models.Identity) (*course, error) {
	c, ok := s.courses[courseID]
	if !ok {
		return nil, errCourseNotFound
	}
	if caller.Role != models.RoleAdmin && c.FacultyID != caller.ID {
		return nil, errNotYourCourse
	}
	return c, nil
}

func (s *store) roster(courseID int64, caller *models.Identity) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.ownedCourse(courseID, caller); err != nil {
		return nil, err
	}
	out := []models.Student{}
	for sid := range s.enrolled[courseID] {
		u := s.users[sid]
		out = append(out, models.Student{ID: u.ID, FullName: u.FullName, Email: u.Email, RollNumber: u.RollNumber})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *store) enroll(courseID int64, email string, caller *models.Identity) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedCourse(courseID, caller); err != nil {
		return nil, err
	}
	id, ok := s.byEmail[normEmail(email)]
	if !ok || s.users[id].Role != models.RoleStudent {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Student not found")
	}
	if s.enrolled[courseID][id] {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Student already enrolled")
	}
	s.enrolled[courseID][id] = true
	u := s.users[id]
	return &models.Student{ID: u.ID, FullName: u.FullName, Email: u.Email, RollNumber: u.RollNumber}, nil
}

func (s *store) unenroll(courseID, studentID int64, caller *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedCourse(courseID, caller); err != nil {
		return err
	}
	if !s.enrolled[courseID][studentID] {
		return echo.NewHTTPError(http.StatusNotFound, "Student not enrolled")
	}
	delete(s.enrolled[courseID], studentID)
	return nil
}

// mark stores one session. A second mark for the same student and date
// overwrites the first.
func (s *store) mark(req models.SessionAttendance, caller *models.Identity) ([]models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedCourse(req.CourseID, caller); err != nil {
		return nil, err
	}
	for _, m := range req.Records {
		if !s.enrolled[req.CourseID][m.StudentID] {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Student not enrolled in course")
		}
	}

	out := make([]models.AttendanceRecord, 0, len(req.Records))
	for _, m := range req.Records {
		rec := s.findRecord(req.CourseID, m.StudentID, req.Date)
		if rec == nil {
			s.nextRecord++
			rec = &models.AttendanceRecord{ID: s.nextRecord, CourseID: req.CourseID, StudentID: m.StudentID, Date: req.Date}
			s.records[rec.ID] = rec
		}
		rec.Status = m.Status
		out = append(out, *rec)
	}
	return out, nil
}

func (s *store) findRecord(courseID, studentID int64, date string) *models.AttendanceRecord {
	for _, r := range s.records {
		if r.CourseID == courseID && r.StudentID == studentID && r.Date == date {
			return r
		}
	}
	return nil
}

func (s *store) updateRecord(id int64, status models.AttendanceStatus, caller *models.Identity) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Attendance record not found")
	}
	if _, err := s.ownedCourse(rec.CourseID, caller); err != nil {
		return nil, err
	}
	rec.Status = status
	out := *rec
	return &out, nil
}

func percentage(attended, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(attended)*10000/float64(total)) / 100
}

// courseAttendance s.mu must be held.
func (s *store) courseAttendance(studentID int64, c *course) models.CourseAttendance {
	ca := models.CourseAttendance{CourseID: c.ID, Code: c.Code, Name: c.Name}
	for _, r := range s.records {
		if r.CourseID != c.ID || r.StudentID != studentID {
			continue
		}
		ca.Total++
		if r.Status == models.StatusPresent {
			ca.Attended++
		}
	}
	ca.Percentage = percentage(ca.Attended, ca.Total)
	ca.Shortage = ca.Total > 0 && ca.Percentage < s.threshold
	return ca
}

func (s *store) studentDashboard(studentID int64) *models.StudentDashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := &models.StudentDashboard{Courses: []models.CourseAttendance{}, ShortageThreshold: s.threshold}
	var attended, total int
	for _, c := range s.courses {
		if !s.enrolled[c.ID][studentID] {
			continue
		}
		ca := s.courseAttendance(studentID, c)
		attended += ca.Attended
		total += ca.Total
		d.Courses = append(d.Courses, ca)
	}
	sort.Slice(d.Courses, func(i, j int) bool { return d.Courses[i].CourseID < d.Courses[j].CourseID })
	d.OverallPercentage = percentage(attended, total)
	return d
}

func (s *store) studentHistory(studentID, courseID int64) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.courses[courseID]; !ok {
		return nil, errCourseNotFound
	}
	if !s.enrolled[courseID][studentID] {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Not enrolled in this course")
	}
	out := []models.AttendanceRecord{}
	for _, r := range s.records {
		if r.CourseID == courseID && r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *store) adminDashboard() *models.AdminDashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := &models.AdminDashboard{TotalCourses: len(s.courses), ShortageThreshold: s.threshold}
	type agg struct{ students, attended, total int }
	deps := map[string]*agg{}
	var attended, total int

	for _, u := range s.users {
		switch u.Role {
		case models.RoleFaculty:
			d.TotalFaculty++
		case models.RoleStudent:
			d.TotalStudents++
			a := deps[u.Department]
			if a == nil {
				a = &agg{}
				deps[u.Department] = a
			}
			a.students++
		}
	}
	for _, r := range s.records {
		u := s.users[r.StudentID]
		a := deps[u.Department]
		a.total++
		total++
		if r.Status == models.StatusPresent {
			a.attended++
			attended++
		}
	}

	d.OverallPercentage = percentage(attended, total)
	d.Departments = make([]models.DepartmentStats, 0, len(deps))
	for name, a := range deps {
		p := percentage(a.attended, a.total)
		d.Departments = append(d.Departments, models.DepartmentStats{
			Name:           name,
			Students:       a.students,
			Percentage:     p,
			BelowThreshold: a.total > 0 && p < s.threshold,
		})
	}
	sort.Slice(d.Departments, func(i, j int) bool { return d.Departments[i].Name < d.Departments[j].Name })
	return d
}

// reportRows returns one row per enrolled student of the course.
func (s *store) reportRows(courseID int64, caller *models.Identity) (*models.Course, []reportRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.ownedCourse(courseID, caller)
	if err != nil {
		return nil, nil, err
	}
	var rows []reportRow
	for sid := range s.enrolled[courseID] {
		u := s.users[sid]
		rows = append(rows, reportRow{Student: u.Identity, CourseAttendance: s.courseAttendance(sid, c)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Student.ID < rows[j].Student.ID })
	out := c.Course
	return &out, rows, nil
}
