// Package reports stores downloaded attendance reports, either in a local
// directory or in an S3-compatible bucket. The bytes are stored exactly as
// the backend produced them.
package reports

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Sink saves a report under name and returns where it ended up.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// FileName builds a report name such as "CS101-20240301-150405.csv".
func FileName(courseCode, format string, now time.Time) string {
	code := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, courseCode)
	if code == "" {
		code = "course"
	}
	return fmt.Sprintf("%s-%s.%s", code, now.UTC().Format("20060102-150405"), format)
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid report name %q", name)
	}
	return nil
}
