package models

// AttendanceStatus is the state of one student in one class session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// Course is a course as listed by /api/courses and /api/faculty/courses.
type Course struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	// FacultyName is filled by the backend for catalogue listings.
	FacultyName string `json:"faculty_name,omitempty"`
	// StudentCount is filled for faculty listings.
	StudentCount int `json:"student_count,omitempty"`
}

// Student is one entry of a course roster.
type Student struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	RollNumber string `json:"roll_number,omitempty"`
}

// CourseAttendance is a per-course line of the student dashboard. Percentage
// and Shortage are computed by the backend; the client only displays them.
type CourseAttendance struct {
	CourseID   int64   `json:"course_id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Attended   int     `json:"attended"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Shortage   bool    `json:"shortage"`
}

// StudentDashboard is the body of GET /api/students/dashboard.
type StudentDashboard struct {
	Courses           []CourseAttendance `json:"courses"`
	OverallPercentage float64            `json:"overall_percentage"`
	ShortageThreshold float64            `json:"shortage_threshold"`
}

// AttendanceRecord is one stored mark.
type AttendanceRecord struct {
	ID        int64            `json:"id"`
	CourseID  int64            `json:"course_id"`
	StudentID int64            `json:"student_id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// StudentMark is a single line of a session being marked.
type StudentMark struct {
	StudentID int64            `json:"student_id" validate:"required,gt=0"`
	Status    AttendanceStatus `json:"status" validate:"required,oneof=present absent"`
}

// SessionAttendance marks a whole class session at once.
type SessionAttendance struct {
	CourseID int64         `json:"course_id" validate:"required,gt=0"`
	Date     string        `json:"date" validate:"required,datetime=2006-01-02"`
	Records  []StudentMark `json:"records" validate:"required,min=1,dive"`
}

// UpdateAttendance changes the status of a stored record.
type UpdateAttendance struct {
	Status AttendanceStatus `json:"status" validate:"required,oneof=present absent"`
}

// EnrollRequest adds a student to a course by email.
type EnrollRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// DepartmentStats is one row of the admin dashboard.
type DepartmentStats struct {
	Name       string  `json:"name"`
	Students   int     `json:"students"`
	Percentage float64 `json:"percentage"`
	// BelowThreshold is the backend's shortage flag for the department.
	BelowThreshold bool `json:"below_threshold"`
}

// AdminDashboard is the body of GET /api/dashboard/admin.
type AdminDashboard struct {
	TotalStudents     int               `json:"total_students"`
	TotalFaculty      int               `json:"total_faculty"`
	TotalCourses      int               `json:"total_courses"`
	OverallPercentage float64           `json:"overall_percentage"`
	ShortageThreshold float64           `json:"shortage_threshold"`
	Departments       []DepartmentStats `json:"departments"`
}
