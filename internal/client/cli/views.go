package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/dmitrijs2005/attendance/internal/client/services"
	"github.com/dmitrijs2005/attendance/internal/common"
)

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
}

func shortageMark(b bool) string {
	if b {
		return "SHORTAGE"
	}
	return ""
}

// Dashboard shows the home screen of the signed-in role.
func (a *App) Dashboard(ctx context.Context, args []string) error {
	id, err := a.require()
	if err != nil {
		return err
	}
	switch id.Role {
	case models.RoleStudent:
		return a.studentDashboard(ctx)
	case models.RoleAdmin:
		return a.Stats(ctx, nil)
	default:
		return a.Courses(ctx, nil)
	}
}

func (a *App) studentDashboard(ctx context.Context) error {
	s, err := a.Students.Summary(ctx)
	if err != nil {
		return err
	}
	d := s.Dashboard
	if len(d.Courses) == 0 {
		fmt.Fprintln(a.Out, "You are not enrolled in any course.")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "CODE\tCOURSE\tATTENDED\tTOTAL\tPERCENT\t")
	for _, c := range d.Courses {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f%%\t%s\n", c.Code, c.Name, c.Attended, c.Total, c.Percentage, shortageMark(c.Shortage))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "Overall: %.2f%% (threshold %.0f%%)\n", d.OverallPercentage, d.ShortageThreshold)
	if s.Shortages > 0 {
		fmt.Fprintf(a.Out, "Shortage in %d course(s). Lowest: %s at %.2f%%\n", s.Shortages, s.Lowest.Code, s.Lowest.Percentage)
	}
	return nil
}

// History lists the student's own marks in one course.
func (a *App) History(ctx context.Context, args []string) error {
	if _, err := a.require(models.RoleStudent); err != nil {
		return err
	}
	if len(args) != 1 {
		return usageError("history <course>")
	}

	s, err := a.Students.Summary(ctx)
	if err != nil {
		return err
	}
	cs := make([]models.Course, 0, len(s.Dashboard.Courses))
	for _, c := range s.Dashboard.Courses {
		cs = append(cs, models.Course{ID: c.CourseID, Code: c.Code, Name: c.Name})
	}
	course, err := services.FindCourse(cs, args[0])
	if err != nil {
		return err
	}

	recs, err := a.Students.History(ctx, course.ID)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintf(a.Out, "No sessions recorded for %s yet.\n", course.Code)
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "DATE\tSTATUS")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\n", r.Date, r.Status)
	}
	return tw.Flush()
}

func (a *App) Courses(ctx context.Context, args []string) error {
	id, err := a.require()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	var cs []models.Course
	if id.Role == models.RoleStudent {
		all, err := a.Catalogue.List(ctx)
		if err != nil {
			return err
		}
		cs = services.FilterCourses(all, query)
	} else {
		if cs, err = a.Faculty.Courses(ctx, query); err != nil {
			return err
		}
		if query == "" {
			a.mu.Lock()
			a.cache.courses = cs
			a.mu.Unlock()
		}
	}

	if len(cs) == 0 {
		fmt.Fprintln(a.Out, "No courses found.")
		return nil
	}
	tw := a.table()
	if id.Role == models.RoleStudent {
		fmt.Fprintln(tw, "ID\tCODE\tNAME\tDEPARTMENT\tFACULTY")
		for _, c := range cs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Code, c.Name, c.Department, c.FacultyName)
		}
	} else {
		fmt.Fprintln(tw, "ID\tCODE\tNAME\tDEPARTMENT\tSTUDENTS")
		for _, c := range cs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", c.ID, c.Code, c.Name, c.Department, c.StudentCount)
		}
	}
	return tw.Flush()
}

// course resolves ref against the teaching course list, fetching it once
// per screen.
func (a *App) course(ctx context.Context, ref string) (*models.Course, error) {
	a.mu.Lock()
	cs := a.cache.courses
	a.mu.Unlock()

	if cs == nil {
		var err error
		if cs, err = a.Faculty.Courses(ctx, ""); err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.cache.courses = cs
		a.mu.Unlock()
	}
	return services.FindCourse(cs, ref)
}

func (a *App) roster(ctx context.Context, courseID int64) ([]models.Student, error) {
	a.mu.Lock()
	ss, ok := a.cache.rosters[courseID]
	a.mu.Unlock()
	if ok {
		return ss, nil
	}

	ss, err := a.Faculty.Roster(ctx, courseID, "")
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	if a.cache.rosters == nil {
		a.cache.rosters = make(map[int64][]models.Student)
	}
	a.cache.rosters[courseID] = ss
	a.mu.Unlock()
	return ss, nil
}

func (a *App) forgetRoster(courseID int64) {
	a.mu.Lock()
	delete(a.cache.rosters, courseID)
	a.cache.courses = nil
	a.mu.Unlock()
}

func (a *App) Roster(ctx context.Context, args []string) error {
	if _, err := a.require(models.RoleFaculty, models.RoleAdmin); err != nil {
		return err
	}
	if len(args) < 1 {
		return usageError("roster <course> [query]")
	}
	course, err := a.course(ctx, args[0])
	if err != nil {
		return err
	}
	ss, err := a.roster(ctx, course.ID)
	if err != nil {
		return err
	}
	ss = services.FilterStudents(ss, strings.Join(args[1:], " "))

	fmt.Fprintf(a.Out, "%s %s\n", course.Code, course.Name)
	if len(ss) == 0 {
		fmt.Fprintln(a.Out, "No students found.")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tROLL\tNAME\tEMAIL")
	for _, s := range ss {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.RollNumber, s.FullName, s.Email)
	}
	return tw.Flush()
}

func (a *App) Enroll(ctx context.Context, args []string) error {
	if _, err := a.require(models.RoleFaculty, models.RoleAdmin); err != nil {
		return err
	}
	if len(args) != 2 {
		return usageError("enroll <course> <email>")
	}
	course, err := a.course(ctx, args[0])
	if err != nil {
		return err
	}
	s, err := a.Faculty.Enroll(ctx, course.ID, args[1])
	if err != nil {
		return err
	}
	a.forgetRoster(course.ID)
	fmt.Fprintf(a.Out, "Enrolled %s in %s.\n", s.FullName, course.Code)
	return nil
}

func (a *App) Unenroll(ctx context.Context, args []string) error {
	if _, err := a.require(models.RoleFaculty, models.RoleAdmin); err != nil {
		return err
	}
	if len(args) != 2 {
		return usageError("unenroll <course> <student>")
	}
	course, err := a.course(ctx, args[0])
	if err != nil {
		return err
	}
	ss, err := a.roster(ctx, course.ID)
	if err != nil {
		return err
	}
	s, err := services.FindStudent(ss, args[1])
	if err != nil {
		return err
	}
	if err := a.Faculty.Unenroll(ctx, course.ID, s.ID); err != nil {
		return err
	}
	a.forgetRoster(course.ID)
	fmt.Fprintf(a.Out, "Removed %s from %s.\n", s.FullName, course.Code)
	return nil
}

// Mark records one class session. Each mark is "<student>:<status>" where
// student is an id, email or roll number; "all" applies the status to every
// student not otherwise listed.
func (a *App) Mark(ctx context.Context, args []string) error {
	if _, err := a.require(models.RoleFaculty, models.RoleAdmin); err != nil {
		return err
	}
	if len(args) < 3 {
		return usageError("mark <course> <YYYY-MM-DD> <student:present|absent>...")
	}
	course, err := a.course(ctx, args[0])
	if err != nil {
		return err
	}
	ss, err := a.roster(ctx, course.ID)
	if err != nil {
		return err
	}

	statuses := make(map[int64]models.AttendanceStatus)
	var fallback models.AttendanceStatus
	for _, m := range args[2:] {
		ref, st, ok := strings.Cut(m, ":")
		if !ok || ref == "" {
			return usageError("mark <course> <YYYY-MM-DD> <student:present|absent>...")
		}
		status := models.AttendanceStatus(strings.ToLower(st))
		if strings.EqualFold(ref, "all") {
			fallback = status
			continue
		}
		s, err := services.FindStudent(ss, ref)
		if err != nil {
			return err
		}
		statuses[s.ID] = status
	}

	req := models.SessionAttendance{CourseID: course.ID, Date: args[1]}
	for _, s := range ss {
		st, ok := statuses[s.ID]
		if !ok {
			if fallback == "" {
				continue
			}
			st = fallback
		}
		req.Records = append(req.Records, models.StudentMark{StudentID: s.ID, Status: st})
	}

	recs, err := a.Faculty.Mark(ctx, req)
	if err != nil {
		return err
	}
	present := 0
	for _, r := range recs {
		if r.Status == models.StatusPresent {
			present++
		}
	}
	fmt.Fprintf(a.Out, "Saved %d record(s) for %s on %s: %d present, %d absent.\n",
		len(recs), course.Code, req.Date, present, len(recs)-present)
	return nil
}

func (a *App) Update(ctx context.Context, args []string) error {
	if _, err := a.require(models.RoleFaculty, models.RoleAdmin); err != nil {
		return err
	}
	if len(args) != 2 {
		return usageError("update <record-id> <present|absent>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("record id %q: %w", args[0], common.ErrValidation)
	}
	rec, err := a.Faculty.Update(ctx, id, models.AttendanceStatus(strings.ToLower(args[1])))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Record %d on %s is now %s.\n", rec.ID, rec.Date, rec.Status)
	return nil
}

func (a *App) Stats(ctx context.Context, args []string) error {
	if _, err := a.require(models.RoleAdmin); err != nil {
		return err
	}
	s, err := a.Admin.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "Students: %d  Faculty: %d  Courses: %d\n", s.TotalStudents, s.TotalFaculty, s.TotalCourses)
	fmt.Fprintf(a.Out, "Overall attendance: %.2f%% (threshold %.0f%%)\n", s.OverallPercentage, s.ShortageThreshold)
	if len(s.Departments) == 0 {
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "DEPARTMENT\tSTUDENTS\tPERCENT\t")
	for _, d := range s.Departments {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t%s\n", d.Name, d.Students, d.Percentage, shortageMark(d.BelowThreshold))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if s.DepartmentsBelow > 0 {
		fmt.Fprintf(a.Out, "%d department(s) below threshold.\n", s.DepartmentsBelow)
	}
	return nil
}
