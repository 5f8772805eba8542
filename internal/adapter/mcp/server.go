// Package mcp exposes rendering and PDF export as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/model"
	"resume-builder/internal/pdf"
	"resume-builder/internal/templates"
	"resume-builder/internal/usecase"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const Version = "0.1.0"

// ResumeGetter loads stored resumes referenced by id.
type ResumeGetter interface {
	GetResume(ctx context.Context, id uuid.UUID) (*model.Resume, error)
}

// DocumentRef names the document a tool works on: inline content or the id
// of a stored resume.
type DocumentRef struct {
	Content  *model.ResumeContent `json:"content,omitempty"`
	ResumeID string               `json:"resumeId,omitempty"`
	Template string               `json:"template,omitempty"`
}

type ListTemplatesRequest struct{}

type RenderRequest struct {
	DocumentRef
	Format string `json:"format,omitempty"` // html or markdown
}

type RenderResponse struct {
	Template string `json:"template"`
	Format   string `json:"format"`
	Body     string `json:"body"`
}

type ExportRequest struct {
	DocumentRef
	Mode        string  `json:"mode,omitempty"`
	Format      string  `json:"format,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	Quality     float64 `json:"quality,omitempty"`
	Filename    string  `json:"filename,omitempty"`
}

type ExportResponse struct {
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`
	Size     int    `json:"size"`
	PDF      string `json:"pdfBase64"`
}

type tools struct {
	exporter *usecase.Exporter
	store    ResumeGetter
	log      *zap.Logger
}

// NewServer creates an MCP server with the template, render and export
// tools. store may be nil; resumeId arguments are then rejected.
func NewServer(e *usecase.Exporter, store ResumeGetter, log *zap.Logger) *server.MCPServer {
	if log == nil {
		log = zap.NewNop()
	}
	t := &tools{exporter: e, store: store, log: log}

	s := server.NewMCPServer(
		"Resume Builder MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the available resume templates"),
	), mcp.NewTypedToolHandler(t.listTemplates))

	s.AddTool(mcp.NewTool("render_resume",
		append(documentParams(),
			mcp.WithDescription("Render a resume with a template as HTML or Markdown"),
			mcp.WithString("format",
				mcp.Description("Output format"),
				mcp.Enum("html", "markdown"),
			),
		)...,
	), mcp.NewTypedToolHandler(t.render))

	s.AddTool(mcp.NewTool("export_resume_pdf",
		append(documentParams(),
			mcp.WithDescription("Export a resume as a PDF, returned base64 encoded"),
			mcp.WithString("mode",
				mcp.Description("raster captures the rendered template, vector lays out selectable text"),
				mcp.Enum(string(pdf.ModeRaster), string(pdf.ModeVector)),
			),
			mcp.WithString("format", mcp.Description("Paper size"), mcp.Enum(string(pdf.FormatA4), string(pdf.FormatLetter))),
			mcp.WithString("orientation", mcp.Enum(string(pdf.Portrait), string(pdf.Landscape))),
			mcp.WithNumber("quality", mcp.Description("Raster scale factor between 1 and 4")),
			mcp.WithString("filename", mcp.Description("Name for the document; defaults to the owner's name and date")),
		)...,
	), mcp.NewTypedToolHandler(t.export))

	return s
}

func documentParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithObject("content", mcp.Description("Resume document (personalInfo, workExperience, education, skills, ...)")),
		mcp.WithString("resumeId", mcp.Description("Id of a stored resume, used when content is not given")),
		mcp.WithString("template", mcp.Description("Template id; unknown ids fall back to professional")),
	}
}

func (t *tools) listTemplates(_ context.Context, _ mcp.CallToolRequest, _ ListTemplatesRequest) (*mcp.CallToolResult, error) {
	return jsonResult(templates.Catalog())
}

func (t *tools) render(ctx context.Context, _ mcp.CallToolRequest, args RenderRequest) (*mcp.CallToolResult, error) {
	content, tpl, err := t.resolve(ctx, args.DocumentRef)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp := RenderResponse{Template: string(tpl), Format: args.Format}
	switch args.Format {
	case "", "html":
		resp.Format = "html"
		html, err := templates.Render(content, tpl)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render resume: %v", err)), nil
		}
		resp.Body = string(html)
	case "markdown":
		md, err := templates.Markdown(content, tpl)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render resume: %v", err)), nil
		}
		resp.Body = md
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", args.Format)), nil
	}
	return jsonResult(resp)
}

func (t *tools) export(ctx context.Context, _ mcp.CallToolRequest, args ExportRequest) (*mcp.CallToolResult, error) {
	content, tpl, err := t.resolve(ctx, args.DocumentRef)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := pdf.ParseMode(args.Mode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var out ExportResponse
	err = t.exporter.Export(ctx, usecase.ExportRequest{
		Content:    content,
		TemplateID: tpl,
		Mode:       mode,
		Options: pdf.Options{
			Format:      pdf.Format(args.Format),
			Orientation: pdf.Orientation(args.Orientation),
			Quality:     args.Quality,
			Filename:    args.Filename,
		},
		Saver: usecase.SaverFunc(func(_ context.Context, filename string, res *pdf.Result) error {
			out = ExportResponse{Filename: filename, Pages: res.Pages(), Size: res.Len(), PDF: res.Base64()}
			return nil
		}),
	})
	if err != nil {
		t.log.Warn("mcp export failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out)
}

// resolve returns the document and template a request refers to. Inline
// content wins over a stored resume.
func (t *tools) resolve(ctx context.Context, ref DocumentRef) (*model.ResumeContent, model.TemplateID, error) {
	tpl := model.ParseTemplateID(ref.Template)
	if ref.Content != nil {
		if err := model.ValidateContent(ref.Content); err != nil {
			return nil, "", err
		}
		ref.Content.Normalize()
		return ref.Content, tpl, nil
	}
	if ref.ResumeID == "" {
		return nil, "", errors.New("content or resumeId is required")
	}
	if t.store == nil {
		return nil, "", errors.New("no resume store configured")
	}
	id, err := uuid.Parse(ref.ResumeID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid resumeId: %w", err)
	}
	res, err := t.store.GetResume(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("resume %s not found", id)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load resume: %w", err)
	}
	if ref.Template == "" {
		tpl = res.TemplateID
	}
	return res.Content, tpl, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
