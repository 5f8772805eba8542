package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const captureImage = "capture"

// RasterGenerator captures a rendered surface and slices the image across
// as many pages as it needs.
type RasterGenerator struct {
	log      *zap.Logger
	compress bool
}

type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	compress bool
}

// WithCompression toggles stream compression in the produced PDF.
func WithCompression(on bool) GeneratorOption {
	return func(c *generatorConfig) { c.compress = on }
}

func applyOptions(opts []GeneratorOption) generatorConfig {
	c := generatorConfig{compress: true}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func NewRasterGenerator(log *zap.Logger, opts ...GeneratorOption) *RasterGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	c := applyOptions(opts)
	return &RasterGenerator{log: log, compress: c.compress}
}

func (g *RasterGenerator) Generate(ctx context.Context, src Source, opts Options) (*Result, error) {
	if src.Surface == nil {
		return nil, ErrNoSurface
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.resolved()
	size := o.Page()
	width := size.PixelWidth()

	start := time.Now()
	img, err := src.Surface.Capture(ctx, CaptureSelector, width, o.Quality)
	if err != nil {
		g.log.Error("capture failed", zap.Error(err), zap.Int("width_px", width), zap.Float64("scale", o.Quality))
		return nil, ErrGenerate
	}
	g.log.Debug("surface captured", zap.Int("bytes", len(img)), zap.Duration("duration", time.Since(start)))

	res, err := g.assemble(img, size, o.Filename)
	if err != nil {
		g.log.Error("pdf assembly failed", zap.Error(err), zap.String("format", string(o.Format)))
		return nil, ErrGenerate
	}
	g.log.Info("raster pdf generated",
		zap.Int("pages", res.pages),
		zap.Int("size", res.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// assemble places the whole image on every page, shifted up by one page
// height each time.
func (g *RasterGenerator) assemble(img []byte, size PageSize, filename string) (*Result, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("empty capture %dx%d", cfg.Width, cfg.Height)
	}

	orientation, format := size.gofpdfSize()
	doc := gofpdf.New(orientation, "mm", format, "")
	doc.SetCompression(g.compress)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	pageW, pageH := doc.GetPageSize()

	imgW := pageW
	imgH := float64(cfg.Height) * imgW / float64(cfg.Width)
	onePixel := imgW / float64(cfg.Width)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(captureImage, opt, bytes.NewReader(img))
	offsets := Paginate(imgH, pageH, onePixel)
	for _, y := range offsets {
		doc.AddPage()
		doc.ImageOptions(captureImage, 0, y, imgW, imgH, false, opt, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return &Result{data: buf.Bytes(), pages: len(offsets), filename: filename}, nil
}
