package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/internal/pdf"
)

// Saver delivers a finished document under the given name.
type Saver interface {
	Save(ctx context.Context, filename string, res *pdf.Result) error
}

type SaverFunc func(ctx context.Context, filename string, res *pdf.Result) error

func (f SaverFunc) Save(ctx context.Context, filename string, res *pdf.Result) error {
	return f(ctx, filename, res)
}

// DirSaver writes documents into a directory. The file appears under its
// final name only once fully written.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(_ context.Context, filename string, res *pdf.Result) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, ".export-*.pdf")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := res.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.Dir, filename))
}
