package pdf

import (
	"fmt"
	"strings"
)

// Format is the paper size of the generated document.
type Format string

const (
	FormatA4     Format = "a4"
	FormatLetter Format = "letter"
)

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Mode selects how the PDF is produced.
type Mode string

const (
	// ModeRaster captures the rendered template as an image.
	ModeRaster Mode = "raster"
	// ModeVector lays out selectable text directly from the document.
	ModeVector Mode = "vector"
)

const (
	DefaultFilename      = "resume.pdf"
	DefaultRasterQuality = 2.0
	maxQuality           = 4.0
)

// Options controls page geometry, capture quality and the output name.
// Zero fields take their defaults.
type Options struct {
	Format      Format      `json:"format,omitempty" mapstructure:"format"`
	Orientation Orientation `json:"orientation,omitempty" mapstructure:"orientation"`
	// Quality is the raster scale factor (device pixels per CSS pixel).
	Quality  float64 `json:"quality,omitempty" mapstructure:"quality"`
	Filename string  `json:"filename,omitempty" mapstructure:"filename"`
}

func DefaultOptions() Options {
	return Options{Format: FormatA4, Orientation: Portrait, Quality: DefaultRasterQuality, Filename: DefaultFilename}
}

// Merge returns base with every non-zero field of override applied.
func Merge(base, override Options) Options {
	if override.Format != "" {
		base.Format = override.Format
	}
	if override.Orientation != "" {
		base.Orientation = override.Orientation
	}
	if override.Quality != 0 {
		base.Quality = override.Quality
	}
	if override.Filename != "" {
		base.Filename = override.Filename
	}
	return base
}

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRaster:
		return ModeRaster, nil
	case ModeVector:
		return ModeVector, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, s)
}

// Validate rejects values outside the supported set.
func (o Options) Validate() error {
	switch Format(strings.ToLower(string(o.Format))) {
	case "", FormatA4, FormatLetter:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidOptions, o.Format)
	}
	switch Orientation(strings.ToLower(string(o.Orientation))) {
	case "", Portrait, Landscape:
	default:
		return fmt.Errorf("%w: unknown orientation %q", ErrInvalidOptions, o.Orientation)
	}
	if o.Quality != 0 && (o.Quality < 1 || o.Quality > maxQuality) {
		return fmt.Errorf("%w: quality %.2f outside [1, %.0f]", ErrInvalidOptions, o.Quality, maxQuality)
	}
	if strings.ContainsAny(o.Filename, `/\`) {
		return fmt.Errorf("%w: filename %q must not contain a path", ErrInvalidOptions, o.Filename)
	}
	return nil
}

func (o Options) resolved() Options {
	o.Format = Format(strings.ToLower(string(o.Format)))
	o.Orientation = Orientation(strings.ToLower(string(o.Orientation)))
	if o.Format == "" {
		o.Format = FormatA4
	}
	if o.Orientation == "" {
		o.Orientation = Portrait
	}
	if o.Quality == 0 {
		o.Quality = DefaultRasterQuality
	}
	if o.Filename == "" {
		o.Filename = DefaultFilename
	}
	return o
}

// Page returns the page geometry the options describe.
func (o Options) Page() PageSize {
	o = o.resolved()
	size := A4
	if o.Format == FormatLetter {
		size = Letter
	}
	if o.Orientation == Landscape {
		size = size.Landscape()
	}
	return size
}
