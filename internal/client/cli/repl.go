package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/common"
)

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Help(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Register(ctx context.Context, args []string) error
	Forgot(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Dashboard(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Courses(ctx context.Context, args []string) error
	Roster(ctx context.Context, args []string) error
	Enroll(ctx context.Context, args []string) error
	Unenroll(ctx context.Context, args []string) error
	Mark(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// Prompts and errors go to out. Errors are printed and the loop continues. It returns on end of input,
// context cancellation, or "exit"/"quit".
//
//	Signed out:  help, login, register, forgot, reset, exit
//	Student:     dashboard, history, courses, whoami, logout
//	Faculty:     courses, roster, enroll, unenroll, mark, update, report
//	Admin:       stats, courses, roster, report and the faculty commands
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(out, promptFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			cmdErr = a.Help(ctx, args)
		case "login":
			cmdErr = a.Login(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "register":
			cmdErr = a.Register(ctx, args)
		case "forgot":
			cmdErr = a.Forgot(ctx, args)
		case "reset":
			cmdErr = a.Reset(ctx, args)
		case "whoami":
			cmdErr = a.Whoami(ctx, args)
		case "dashboard":
			cmdErr = a.Dashboard(ctx, args)
		case "history":
			cmdErr = a.History(ctx, args)
		case "courses":
			cmdErr = a.Courses(ctx, args)
		case "roster":
			cmdErr = a.Roster(ctx, args)
		case "enroll":
			cmdErr = a.Enroll(ctx, args)
		case "unenroll":
			cmdErr = a.Unenroll(ctx, args)
		case "mark":
			cmdErr = a.Mark(ctx, args)
		case "update":
			cmdErr = a.Update(ctx, args)
		case "stats":
			cmdErr = a.Stats(ctx, args)
		case "report":
			cmdErr = a.Report(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
			continue
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", describe(cmdErr))
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

// usageError is returned for malformed command arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return "you are not signed in; type 'login'"
	case errors.Is(err, common.ErrForbiddenRole):
		return "this command is not available for your role"
	}
	return err.Error()
}
