// Package pdf turns resumes into paginated PDF documents, either by slicing
// a captured image of the rendered template or by laying out text directly.
package pdf

import (
	"context"
	"errors"

	"resume-builder/internal/model"
)

var (
	// ErrGenerate is the only error a generator returns for failures past
	// input validation; the cause is logged.
	ErrGenerate       = errors.New("failed to generate PDF")
	ErrNoSurface      = errors.New("pdf: no surface to capture")
	ErrNoContent      = errors.New("pdf: no content")
	ErrInvalidOptions = errors.New("pdf: invalid options")
)

// CaptureSelector is the element captured from a surface.
const CaptureSelector = "#resume-root"

// Surface is a rendered resume that can be captured as a PNG.
type Surface interface {
	Capture(ctx context.Context, selector string, widthPx int, scale float64) ([]byte, error)
}

// Source is what a generator works from. Raster generators read Surface,
// vector generators read Content.
type Source struct {
	Content *model.ResumeContent
	Surface Surface
}

type Generator interface {
	Generate(ctx context.Context, src Source, opts Options) (*Result, error)
}
