package reports

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/attendance/internal/filex"
)

// FileSink writes reports into a directory, created with owner-only
// permissions on first use.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Save(_ context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
