package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/dmitrijs2005/attendance/internal/common"
)

func (a *App) Help(ctx context.Context, args []string) error {
	fmt.Fprint(a.Out, `Commands:
  login [email]                     sign in
  logout                            sign out
  register                          create a student or faculty account
  forgot [email]                    request a password reset link
  reset <token>                     set a new password with a reset token
  whoami                            show the signed-in user
  dashboard                         attendance summary (student, admin)
  history <course>                  your marks in one course (student)
  courses [query]                   list courses
  roster <course> [query]           list students of a course (faculty, admin)
  enroll <course> <email>           add a student to a course
  unenroll <course> <student>       remove a student from a course
  mark <course> <YYYY-MM-DD> <student:present|absent>...
                                    record a class session; "all:present" marks everyone
  update <record-id> <present|absent>
                                    change one stored mark
  stats                             institution-wide aggregates (admin)
  report <course> [csv|pdf]         download a course report
  exit                              quit
`)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	if a.isLoggedIn() {
		return fmt.Errorf("already signed in as %s; logout first", a.identity().Email)
	}

	email, err := a.argOrPrompt(args, 0, "Email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.Out)
	if err != nil {
		return err
	}

	id, err := a.Session.Login(ctx, email, password)
	if err != nil {
		a.Logger.Debug(ctx, "login failed", "email", email, "error", err)
		return err
	}

	a.Redirect(homeFor(id.Role))
	fmt.Fprintf(a.Out, "Signed in as %s (%s).\n", id.FullName, id.Role)
	return nil
}

func (a *App) Logout(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	return a.Session.Logout(ctx)
}

// Register asks for every RegisterRequest field. Validation happens in the
// api package before anything is sent.
func (a *App) Register(ctx context.Context, args []string) error {
	var (
		req models.RegisterRequest
		err error
	)
	if req.Email, err = getSimpleText(a.reader, "Email", a.Out); err != nil {
		return err
	}
	if req.FullName, err = getSimpleText(a.reader, "Full name", a.Out); err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Role (student/faculty)", a.Out)
	if err != nil {
		return err
	}
	req.Role = models.Role(strings.ToLower(strings.TrimSpace(role)))
	if req.Role == models.RoleStudent {
		if req.RollNumber, err = getSimpleText(a.reader, "Roll number", a.Out); err != nil {
			return err
		}
	}
	if req.Department, err = getSimpleText(a.reader, "Department (optional)", a.Out); err != nil {
		return err
	}
	if req.Password, err = getPassword(a.reader, "Password", a.Out); err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Repeat password", a.Out)
	if err != nil {
		return err
	}
	if confirm != req.Password {
		return fmt.Errorf("passwords do not match")
	}

	id, err := a.Accounts.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Account %s created. You can now login.\n", id.Email)
	return nil
}

func (a *App) Forgot(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Email")
	if err != nil {
		return err
	}
	msg, err := a.Accounts.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, msg)
	return nil
}

func (a *App) Reset(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, 0, "Reset token")
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "New password", a.Out)
	if err != nil {
		return err
	}
	msg, err := a.Accounts.ResetPassword(ctx, token, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, msg)
	return nil
}

func (a *App) Whoami(ctx context.Context, args []string) error {
	if _, err := a.require(); err != nil {
		return err
	}
	if err := a.Session.Refresh(ctx); err != nil {
		return err
	}
	id, err := a.require()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "%s <%s>\n  role: %s\n", id.FullName, id.Email, id.Role)
	if id.Department != "" {
		fmt.Fprintf(a.Out, "  department: %s\n", id.Department)
	}
	if id.RollNumber != "" {
		fmt.Fprintf(a.Out, "  roll number: %s\n", id.RollNumber)
	}
	return nil
}
