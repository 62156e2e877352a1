package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/attendance/internal/client/api"
	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/dmitrijs2005/attendance/internal/client/reports"
	"github.com/dmitrijs2005/attendance/internal/client/services"
	"github.com/dmitrijs2005/attendance/internal/client/session"
	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/logging"
)

// Session is the part of *session.Store the CLI drives.
type Session interface {
	Initialize(ctx context.Context)
	Wait(ctx context.Context) error
	Login(ctx context.Context, username, password string) (*models.Identity, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	Snapshot() (session.Phase, *models.Identity)
}

// Accounts covers the anonymous account endpoints.
type Accounts interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
}

type Catalogue interface {
	List(ctx context.Context) ([]models.Course, error)
}

type ReportSource interface {
	Download(ctx context.Context, courseID int64, format api.ReportFormat) ([]byte, error)
}

// Deps are the collaborators of an App. In and Out default to the process
// stdin and stdout.
type Deps struct {
	Session   Session
	Accounts  Accounts
	Catalogue Catalogue
	Students  services.StudentView
	Faculty   services.FacultyView
	Admin     services.AdminView
	Reports   ReportSource
	Sink      reports.Sink
	Logger    logging.Logger

	In  io.Reader
	Out io.Writer
}

// Screens.
const (
	LocationStudent = "/student"
	LocationFaculty = "/faculty"
	LocationAdmin   = "/admin"
)

// viewCache holds data fetched for the current screen.
type viewCache struct {
	courses []models.Course
	rosters map[int64][]models.Student
}

type App struct {
	Deps

	reader *bufio.Reader

	mu       sync.Mutex
	location string
	cache    viewCache
}

func NewApp(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	return &App{
		Deps:     d,
		reader:   bufio.NewReader(d.In),
		location: common.LoginPath,
	}
}

// Attach connects the App to the session and the typed API. The App exists
// before both of them because it is the gateway's Locator and the session's
// Navigator.
func (a *App) Attach(s Session, backend *api.API) {
	a.Session = s
	a.Accounts = backend.Auth
	a.Catalogue = backend.Courses
	a.Students = services.NewStudentView(backend.Students)
	a.Faculty = services.NewFacultyView(backend.Faculty)
	a.Admin = services.NewAdminView(backend.Dashboard)
	a.Reports = backend.Reports
}

// Location implements session.Navigator.
func (a *App) Location() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

// Redirect implements session.Navigator. Every cached view is dropped.
func (a *App) Redirect(path string) {
	a.mu.Lock()
	prev := a.location
	a.location = path
	a.cache = viewCache{}
	a.mu.Unlock()

	if path == common.LoginPath && prev != common.LoginPath {
		fmt.Fprintln(a.Out, "Signed out. Type 'login' to sign in again.")
	}
}

func homeFor(r models.Role) string {
	switch r {
	case models.RoleStudent:
		return LocationStudent
	case models.RoleFaculty:
		return LocationFaculty
	case models.RoleAdmin:
		return LocationAdmin
	}
	return common.LoginPath
}

func (a *App) isLoggedIn() bool {
	phase, _ := a.Session.Snapshot()
	return phase == session.PhaseAuthenticated
}

func (a *App) identity() *models.Identity {
	_, id := a.Session.Snapshot()
	return id
}

// require returns the identity when the user is signed in with one of roles.
// No roles means any signed-in user.
func (a *App) require(roles ...models.Role) (*models.Identity, error) {
	phase, id := a.Session.Snapshot()
	if phase != session.PhaseAuthenticated || id == nil {
		return nil, common.ErrNotAuthenticated
	}
	if len(roles) == 0 {
		return id, nil
	}
	for _, r := range roles {
		if id.Role == r {
			return id, nil
		}
	}
	return nil, common.ErrForbiddenRole
}

func (a *App) prompt() string {
	if id := a.identity(); id != nil {
		return fmt.Sprintf("attendance (%s %s)> ", id.Email, id.Role)
	}
	return "attendance> "
}

// Run resolves the saved session and then serves commands until exit or
// end of input.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.Out, "Attendance CLI (type 'help' for commands)")

	go a.Session.Initialize(ctx)
	if err := a.Session.Wait(ctx); err != nil {
		return err
	}

	if id := a.identity(); id != nil {
		a.Redirect(homeFor(id.Role))
		fmt.Fprintf(a.Out, "Welcome back, %s (%s).\n", id.FullName, id.Role)
	} else {
		a.Redirect(common.LoginPath)
		fmt.Fprintln(a.Out, "Not signed in. Type 'login' to sign in.")
	}

	runREPL(ctx, a, a.prompt, a.reader, a.Out)
	return nil
}
