package http

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/pdf"
	"resume-builder/internal/templates"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrDownloadFailed is the only message clients see when an export fails.
const ErrDownloadFailed = "download failed, please try again"

// ResumeStore is the part of the repository the handlers read and write.
type ResumeStore interface {
	GetResume(ctx context.Context, id uuid.UUID) (*model.Resume, error)
	SaveResume(ctx context.Context, r *model.Resume) error
	ListResumes(ctx context.Context, userID uuid.UUID) ([]model.Resume, error)
	DeleteResume(ctx context.Context, id uuid.UUID) error
	ListExports(ctx context.Context, resumeID uuid.UUID) ([]domain.ExportJob, error)
}

type Handler struct {
	exporter *usecase.Exporter
	store    ResumeStore
	gate     *usecase.Gate
	log      *zap.Logger
}

type HandlerOption func(*Handler)

// WithGate shares a gate with other entry points.
func WithGate(g *usecase.Gate) HandlerOption { return func(h *Handler) { h.gate = g } }

// NewHandler wires the HTTP surface. store may be nil, in which case only
// the stateless routes work.
func NewHandler(e *usecase.Exporter, store ResumeStore, log *zap.Logger, opts ...HandlerOption) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{exporter: e, store: store, gate: usecase.NewGate(), log: log}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/templates", h.ListTemplates)
	app.Post("/export", h.ExportContent)

	r := app.Group("/resumes")
	r.Get("/", h.ListResumes)
	r.Post("/", h.CreateResume)
	r.Get("/:id", h.GetResume)
	r.Put("/:id", h.UpdateResume)
	r.Delete("/:id", h.DeleteResume)
	r.Get("/:id/preview", h.Preview)
	r.Get("/:id/export", h.ExportResume)
	r.Get("/:id/exports", h.ListExports)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) ListTemplates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": templates.Catalog(), "default": model.DefaultTemplate})
}

type createReq struct {
	UserID     string          `json:"userId"`
	Title      string          `json:"title"`
	TemplateID string          `json:"templateId"`
	Content    json.RawMessage `json:"content"`
}

func (h *Handler) CreateResume(c *fiber.Ctx) error {
	if h.store == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "resume store not configured")
	}
	var req createReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId"})
	}
	content, err := decodeContent(req.Content)
	if err != nil {
		return h.inputError(c, err)
	}

	res := &model.Resume{
		UserID:     uid,
		Title:      req.Title,
		TemplateID: model.ParseTemplateID(req.TemplateID),
		Content:    content,
	}
	if err := h.store.SaveResume(c.UserContext(), res); err != nil {
		h.log.Error("failed to save resume", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save resume")
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListResumes returns the resumes of ?userId=, most recently updated first.
func (h *Handler) ListResumes(c *fiber.Ctx) error {
	if h.store == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "resume store not configured")
	}
	uid, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId"})
	}
	list, err := h.store.ListResumes(c.UserContext(), uid)
	if err != nil {
		h.log.Error("failed to list resumes", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list resumes")
	}
	if list == nil {
		list = []model.Resume{}
	}
	return c.JSON(fiber.Map{"resumes": list})
}

type updateReq struct {
	Title      *string         `json:"title"`
	TemplateID *string         `json:"templateId"`
	Content    json.RawMessage `json:"content"`
}

// UpdateResume changes the fields present in the body.
func (h *Handler) UpdateResume(c *fiber.Ctx) error {
	res, err := h.loadResume(c)
	if err != nil {
		return err
	}
	var req updateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Title != nil {
		res.Title = *req.Title
	}
	if req.TemplateID != nil {
		res.TemplateID = model.ParseTemplateID(*req.TemplateID)
	}
	if len(req.Content) > 0 {
		content, err := decodeContent(req.Content)
		if err != nil {
			return h.inputError(c, err)
		}
		res.Content = content
	}
	if err := h.store.SaveResume(c.UserContext(), res); err != nil {
		h.log.Error("failed to save resume", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save resume")
	}
	return c.JSON(res)
}

func (h *Handler) DeleteResume(c *fiber.Ctx) error {
	res, err := h.loadResume(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteResume(c.UserContext(), res.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.log.Error("failed to delete resume", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete resume")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetResume(c *fiber.Ctx) error {
	res, err := h.loadResume(c)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) ListExports(c *fiber.Ctx) error {
	res, err := h.loadResume(c)
	if err != nil {
		return err
	}
	jobs, err := h.store.ListExports(c.UserContext(), res.ID)
	if err != nil {
		h.log.Error("failed to list exports", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list exports")
	}
	if jobs == nil {
		jobs = []domain.ExportJob{}
	}
	return c.JSON(fiber.Map{"exports": jobs})
}

// Preview returns the rendered template, as HTML or with ?format=markdown
// as Markdown.
func (h *Handler) Preview(c *fiber.Ctx) error {
	res, err := h.loadResume(c)
	if err != nil {
		return err
	}
	tpl := templateParam(c, res.TemplateID)
	if c.Query("format") == "markdown" {
		md, err := templates.Markdown(res.Content, tpl)
		if err != nil {
			h.log.Error("markdown render failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render resume")
		}
		c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		return c.SendString(md)
	}
	html, err := templates.Render(res.Content, tpl)
	if err != nil {
		h.log.Error("template render failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render resume")
	}
	c.Type("html", "utf-8")
	return c.Send(html)
}

type exportQuery struct {
	Template    string  `query:"template"`
	Mode        string  `query:"mode"`
	Format      string  `query:"format"`
	Orientation string  `query:"orientation"`
	Quality     float64 `query:"quality"`
	Filename    string  `query:"filename"`
}

func (h *Handler) ExportResume(c *fiber.Ctx) error {
	res, err := h.loadResume(c)
	if err != nil {
		return err
	}
	var q exportQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query"})
	}
	mode, err := pdf.ParseMode(q.Mode)
	if err != nil {
		return h.inputError(c, err)
	}
	tpl := res.TemplateID
	if q.Template != "" {
		tpl = model.ParseTemplateID(q.Template)
	}
	return h.export(c, "resume:"+res.ID.String(), usecase.ExportRequest{
		Content:    res.Content,
		TemplateID: tpl,
		Mode:       mode,
		ResumeID:   &res.ID,
		Options: pdf.Options{
			Format:      pdf.Format(q.Format),
			Orientation: pdf.Orientation(q.Orientation),
			Quality:     q.Quality,
			Filename:    q.Filename,
		},
	})
}

type exportReq struct {
	Content    json.RawMessage `json:"content"`
	TemplateID string          `json:"templateId"`
	Mode       string          `json:"mode"`
	Options    pdf.Options     `json:"options"`
}

// ExportContent exports a document posted inline, without storing it.
func (h *Handler) ExportContent(c *fiber.Ctx) error {
	var req exportReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	content, err := decodeContent(req.Content)
	if err != nil {
		return h.inputError(c, err)
	}
	mode, err := pdf.ParseMode(req.Mode)
	if err != nil {
		return h.inputError(c, err)
	}
	return h.export(c, "client:"+c.IP(), usecase.ExportRequest{
		Content:    content,
		TemplateID: model.ParseTemplateID(req.TemplateID),
		Mode:       mode,
		Options:    req.Options,
	})
}

// export runs one gated export and streams the document as an attachment.
func (h *Handler) export(c *fiber.Ctx, key string, req usecase.ExportRequest) error {
	release, ok := h.gate.TryAcquire(key)
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "an export is already in progress"})
	}
	defer release()

	var (
		out  *pdf.Result
		name string
	)
	req.Saver = usecase.SaverFunc(func(_ context.Context, filename string, res *pdf.Result) error {
		out, name = res, filename
		return nil
	})
	if err := h.exporter.Export(c.UserContext(), req); err != nil {
		if isInputError(err) {
			return h.inputError(c, err)
		}
		h.log.Warn("export failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrDownloadFailed})
	}
	c.Attachment(name)
	c.Set("X-Page-Count", strconv.Itoa(out.Pages()))
	return c.Send(out.Bytes())
}

func (h *Handler) loadResume(c *fiber.Ctx) (*model.Resume, error) {
	if h.store == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "resume store not configured")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid resume id")
	}
	res, err := h.store.GetResume(c.UserContext(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "resume not found")
	}
	if err != nil {
		h.log.Error("failed to load resume", zap.String("id", id.String()), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load resume")
	}
	return res, nil
}

func (h *Handler) inputError(c *fiber.Ctx, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume content", "problems": verr.Problems})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func isInputError(err error) bool {
	return errors.Is(err, pdf.ErrInvalidOptions) || errors.Is(err, pdf.ErrNoContent) || errors.Is(err, model.ErrInvalidContent)
}

func templateParam(c *fiber.Ctx, fallback model.TemplateID) model.TemplateID {
	if t := c.Query("template"); t != "" {
		return model.ParseTemplateID(t)
	}
	return fallback
}

// decodeContent validates raw resume JSON and decodes it.
func decodeContent(raw json.RawMessage) (*model.ResumeContent, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &model.ValidationError{Problems: []string{"content is required"}}
	}
	if err := model.Validate(raw); err != nil {
		return nil, err
	}
	var content model.ResumeContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, &model.ValidationError{Problems: []string{err.Error()}}
	}
	content.Normalize()
	return &content, nil
}
