package devserver

import (
	"fmt"

	"github.com/dmitrijs2005/attendance/internal/client/models"
)

// Seed accounts. Passwords are for local development only.
const (
	AdminEmail      = "admin@college.edu"
	AdminPassword   = "adminpass"
	FacultyEmail    = "faculty@college.edu"
	FacultyPassword = "facultypass"
	StudentEmail    = "student@college.edu"
	StudentPassword = "correctpass"
)

func seed(s *store) error {
	add := func(id models.Identity, pw string) (*models.Identity, error) {
		u, err := s.addUser(id, pw)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", id.Email, err)
		}
		return u, nil
	}

	if _, err := add(models.Identity{Email: AdminEmail, FullName: "Registrar", Role: models.RoleAdmin}, AdminPassword); err != nil {
		return err
	}
	fac, err := add(models.Identity{Email: FacultyEmail, FullName: "Dr. Meera Iyer", Role: models.RoleFaculty, Department: "CSE"}, FacultyPassword)
	if err != nil {
		return err
	}
	asha, err := add(models.Identity{Email: StudentEmail, FullName: "Asha Rao", Role: models.RoleStudent, Department: "CSE", RollNumber: "21CS001"}, StudentPassword)
	if err != nil {
		return err
	}
	ben, err := add(models.Identity{Email: "ben@college.edu", FullName: "Ben Ito", Role: models.RoleStudent, Department: "CSE", RollNumber: "21CS002"}, "studentpass")
	if err != nil {
		return err
	}
	chen, err := add(models.Identity{Email: "chen@college.edu", FullName: "Chen Li", Role: models.RoleStudent, Department: "ME", RollNumber: "21ME001"}, "studentpass")
	if err != nil {
		return err
	}

	cs101 := s.addCourse(models.Course{Code: "CS101", Name: "Introduction to Programming", Department: "CSE"}, fac.ID)
	cs202 := s.addCourse(models.Course{Code: "CS202", Name: "Data Structures", Department: "CSE"}, fac.ID)
	me110 := s.addCourse(models.Course{Code: "ME110", Name: "Engineering Mechanics", Department: "ME"}, fac.ID)

	for _, e := range []struct {
		course  int64
		student int64
	}{
		{cs101.ID, asha.ID}, {cs101.ID, ben.ID},
		{cs202.ID, asha.ID}, {cs202.ID, ben.ID},
		{me110.ID, chen.ID},
	} {
		s.enrolled[e.course][e.student] = true
	}

	facID := &models.Identity{ID: fac.ID, Role: models.RoleFaculty}
	sessions := []struct {
		course  int64
		date    string
		present map[int64]bool
	}{
		{cs101.ID, "2024-03-01", map[int64]bool{asha.ID: true, ben.ID: true}},
		{cs101.ID, "2024-03-04", map[int64]bool{asha.ID: true, ben.ID: false}},
		{cs101.ID, "2024-03-06", map[int64]bool{asha.ID: true, ben.ID: true}},
		{cs101.ID, "2024-03-08", map[int64]bool{asha.ID: true, ben.ID: false}},
		{cs202.ID, "2024-03-02", map[int64]bool{asha.ID: false, ben.ID: true}},
		{cs202.ID, "2024-03-05", map[int64]bool{asha.ID: true, ben.ID: true}},
		{cs202.ID, "2024-03-07", map[int64]bool{asha.ID: false, ben.ID: true}},
		{me110.ID, "2024-03-03", map[int64]bool{chen.ID: true}},
		{me110.ID, "2024-03-10", map[int64]bool{chen.ID: false}},
	}
	for _, sess := range sessions {
		req := models.SessionAttendance{CourseID: sess.course, Date: sess.date}
		for sid, present := range sess.present {
			st := models.StatusAbsent
			if present {
				st = models.StatusPresent
			}
			req.Records = append(req.Records, models.StudentMark{StudentID: sid, Status: st})
		}
		if _, err := s.mark(req, facID); err != nil {
			return fmt.Errorf("seed attendance %s: %w", sess.date, err)
		}
	}
	return nil
}
