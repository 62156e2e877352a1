package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/attendance/internal/client/api"
	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/dmitrijs2005/attendance/internal/client/reports"
)

var timeNow = time.Now

// Report downloads a course report and stores it in the configured sink.
func (a *App) Report(ctx context.Context, args []string) error {
	if _, err := a.require(models.RoleFaculty, models.RoleAdmin); err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 2 {
		return usageError("report <course> [csv|pdf]")
	}
	format := api.FormatCSV
	if len(args) == 2 {
		format = api.ReportFormat(strings.ToLower(args[1]))
	}

	course, err := a.course(ctx, args[0])
	if err != nil {
		return err
	}
	data, err := a.Reports.Download(ctx, course.ID, format)
	if err != nil {
		return err
	}

	loc, err := a.Sink.Save(ctx, reports.FileName(course.Code, string(format), timeNow()), data)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	a.Logger.Info(ctx, "report saved", "course", course.Code, "format", format, "bytes", len(data), "location", loc)
	fmt.Fprintf(a.Out, "Report saved to %s (%d bytes).\n", loc, len(data))
	return nil
}
