package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/pdf"
	"resume-builder/internal/surface"
	"resume-builder/internal/templates"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Progress milestones reported during an export.
const (
	ProgressStarted  = 10
	ProgressPrepared = 30
	ProgressMounted  = 60
	ProgressDone     = 100
)

// ProgressFunc receives a non-decreasing percentage.
type ProgressFunc func(percent int)

// Mounter places rendered markup on an off-screen surface.
type Mounter interface {
	Mount(ctx context.Context, html []byte) (*surface.Scoped, error)
}

// ExportRecorder persists export history.
type ExportRecorder interface {
	SaveExport(ctx context.Context, j *domain.ExportJob) error
}

// ExportRequest describes one download. Surface, when set, is an already
// rendered view of the document owned by the caller; it is captured as is
// and never released here.
type ExportRequest struct {
	Content    *model.ResumeContent
	TemplateID model.TemplateID
	Mode       pdf.Mode
	Options    pdf.Options
	Surface    pdf.Surface
	ResumeID   *uuid.UUID
	OnProgress ProgressFunc

	// Saver replaces the exporter's saver for this request.
	Saver Saver
}

type Exporter struct {
	mounter    Mounter
	saver      Saver
	generators map[pdf.Mode]pdf.Generator
	recorder   ExportRecorder
	defaults   pdf.Options
	attempts   int
	backoff    time.Duration
	now        func() time.Time
	log        *zap.Logger
}

type ExporterOption func(*Exporter)

func WithGenerator(mode pdf.Mode, g pdf.Generator) ExporterOption {
	return func(e *Exporter) { e.generators[mode] = g }
}

func WithRecorder(r ExportRecorder) ExporterOption { return func(e *Exporter) { e.recorder = r } }

func WithClock(now func() time.Time) ExporterOption { return func(e *Exporter) { e.now = now } }

// WithDefaults sets the options every request's options are merged onto.
func WithDefaults(o pdf.Options) ExporterOption { return func(e *Exporter) { e.defaults = o } }

// WithRetry sets how many times off-screen rendering is attempted and the
// initial backoff between attempts, which doubles each time.
func WithRetry(attempts int, backoff time.Duration) ExporterOption {
	return func(e *Exporter) {
		if attempts < 1 {
			attempts = 1
		}
		e.attempts, e.backoff = attempts, backoff
	}
}

func NewExporter(m Mounter, s Saver, log *zap.Logger, opts ...ExporterOption) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Exporter{
		mounter: m,
		saver:   s,
		generators: map[pdf.Mode]pdf.Generator{
			pdf.ModeRaster: pdf.NewRasterGenerator(log),
			pdf.ModeVector: pdf.NewVectorGenerator(log),
		},
		defaults: pdf.Options{},
		attempts: 3,
		backoff:  time.Second,
		now:      time.Now,
		log:      log,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Export produces a PDF for the request and hands it to the saver.
// Input problems are returned as is; every other failure is logged and
// reported as pdf.ErrGenerate.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (err error) {
	if req.Content == nil {
		return pdf.ErrNoContent
	}
	mode := req.Mode
	if mode == "" {
		mode = pdf.ModeRaster
	}
	gen, ok := e.generators[mode]
	if !ok {
		return fmt.Errorf("%w: unknown mode %q", pdf.ErrInvalidOptions, mode)
	}
	opts := pdf.Merge(e.defaults, req.Options)
	if err := opts.Validate(); err != nil {
		return err
	}

	progress := req.OnProgress
	if progress == nil {
		progress = func(int) {}
	}
	progress(ProgressStarted)

	tpl := req.TemplateID.Resolve()
	if opts.Filename == "" {
		opts.Filename = DefaultFilename(req.Content.PersonalInfo.FullName, e.now())
	}
	log := e.log.With(
		zap.String("template", string(tpl)),
		zap.String("mode", string(mode)),
		zap.String("filename", opts.Filename),
	)

	job := e.startJob(ctx, req.ResumeID, tpl, mode, opts.Filename)
	progress(ProgressPrepared)

	var res *pdf.Result
	defer func() { e.finishJob(ctx, job, res, err) }()

	switch {
	case mode == pdf.ModeVector:
		res, err = gen.Generate(ctx, pdf.Source{Content: req.Content}, opts)
	case req.Surface != nil:
		res, err = gen.Generate(ctx, pdf.Source{Content: req.Content, Surface: req.Surface}, opts)
	default:
		res, err = e.generateOffscreen(ctx, log, gen, req.Content, tpl, opts, progress)
	}
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(res.Bytes(), []byte("%PDF")) {
		log.Error("generator returned invalid PDF", zap.Int("len", res.Len()))
		return pdf.ErrGenerate
	}

	saver := e.saver
	if req.Saver != nil {
		saver = req.Saver
	}
	if saver == nil {
		log.Error("no saver configured")
		err = pdf.ErrGenerate
		return err
	}
	if err = saver.Save(ctx, opts.Filename, res); err != nil {
		log.Error("save failed", zap.Error(err))
		err = pdf.ErrGenerate
		return err
	}
	progress(ProgressDone)
	log.Info("export completed", zap.Int("pages", res.Pages()), zap.Int("size", res.Len()))
	return nil
}

// generateOffscreen renders the template on a private surface, captures it,
// and releases the surface whatever happens. Failed attempts are retried with
// exponential backoff.
func (e *Exporter) generateOffscreen(
	ctx context.Context,
	log *zap.Logger,
	gen pdf.Generator,
	content *model.ResumeContent,
	tpl model.TemplateID,
	opts pdf.Options,
	progress ProgressFunc,
) (*pdf.Result, error) {
	html, err := templates.Render(content, tpl)
	if err != nil {
		log.Error("template render failed", zap.Error(err))
		return nil, pdf.ErrGenerate
	}
	if e.mounter == nil {
		log.Error("no off-screen renderer configured")
		return nil, pdf.ErrGenerate
	}

	mounted := false
	var lastErr error
	for i := 0; i < e.attempts; i++ {
		res, err := e.attempt(ctx, gen, content, html, opts, func() {
			if !mounted {
				mounted = true
				progress(ProgressMounted)
			}
		})
		if err == nil {
			return res, nil
		}
		lastErr = err
		log.Warn("render attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		if errors.Is(err, pdf.ErrInvalidOptions) || errors.Is(err, pdf.ErrNoContent) {
			return nil, err
		}
		// exponential backoff before retrying
		if i < e.attempts-1 {
			backoff := time.Duration(1<<i) * e.backoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				log.Error("export cancelled", zap.Error(ctx.Err()))
				return nil, pdf.ErrGenerate
			}
		}
	}
	log.Error("rendering failed", zap.Int("attempts", e.attempts), zap.Error(lastErr))
	return nil, pdf.ErrGenerate
}

func (e *Exporter) attempt(
	ctx context.Context,
	gen pdf.Generator,
	content *model.ResumeContent,
	html []byte,
	opts pdf.Options,
	onMounted func(),
) (*pdf.Result, error) {
	sc, err := e.mounter.Mount(ctx, html)
	if err != nil {
		return nil, err
	}
	defer sc.Release()
	onMounted()
	return gen.Generate(ctx, pdf.Source{Content: content, Surface: sc}, opts)
}

func (e *Exporter) startJob(ctx context.Context, resumeID *uuid.UUID, tpl model.TemplateID, mode pdf.Mode, filename string) *domain.ExportJob {
	if e.recorder == nil {
		return nil
	}
	now := e.now()
	job := &domain.ExportJob{
		ID:         uuid.New(),
		ResumeID:   resumeID,
		TemplateID: string(tpl),
		Mode:       string(mode),
		Status:     domain.ExportPending,
		Filename:   filename,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// history is best-effort
	if err := e.recorder.SaveExport(ctx, job); err != nil {
		e.log.Warn("failed to record export", zap.Error(err))
	}
	return job
}

func (e *Exporter) finishJob(ctx context.Context, job *domain.ExportJob, res *pdf.Result, err error) {
	if job == nil {
		return
	}
	job.UpdatedAt = e.now()
	if err != nil {
		job.Status = domain.ExportFailed
		job.Error = err.Error()
	} else {
		job.Status = domain.ExportCompleted
		if res != nil {
			job.Pages, job.SizeBytes = res.Pages(), res.Len()
		}
	}
	if err := e.recorder.SaveExport(context.WithoutCancel(ctx), job); err != nil {
		e.log.Warn("failed to record export", zap.Error(err))
	}
}
