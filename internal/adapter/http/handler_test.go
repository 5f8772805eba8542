package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	httpadapter "resume-builder/internal/adapter/http"
	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/model"
	"resume-builder/internal/model/modeltest"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	app   *fiber.App
	store *repository.SQLiteStore
	gate  *usecase.Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := zap.NewNop()
	// no off-screen renderer: raster exports fail, vector exports work
	exp := usecase.NewExporter(nil, nil, log, usecase.WithRecorder(store), usecase.WithRetry(1, 0))
	gate := usecase.NewGate()
	h := httpadapter.NewHandler(exp, store, log, httpadapter.WithGate(gate))
	return &fixture{app: httpadapter.NewApp(h, log), store: store, gate: gate}
}

func (f *fixture) do(t *testing.T, method, target string, body any) (int, []byte, http.Header) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data, resp.Header
}

func (f *fixture) createResume(t *testing.T) model.Resume {
	t.Helper()
	status, body, _ := f.do(t, fiber.MethodPost, "/resumes", map[string]any{
		"userId":     uuid.NewString(),
		"title":      "Backend",
		"templateId": "modern",
		"content":    modeltest.Sample(),
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var res model.Resume
	require.NoError(t, json.Unmarshal(body, &res))
	return res
}

func TestHealthAndTemplates(t *testing.T) {
	f := newFixture(t)

	status, body, headers := f.do(t, fiber.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, headers.Get(httpadapter.HeaderRequestID))

	status, body, _ = f.do(t, fiber.MethodGet, "/templates", nil)
	require.Equal(t, fiber.StatusOK, status)
	var got struct {
		Templates []struct{ ID string } `json:"templates"`
		Default   string                `json:"default"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Len(t, got.Templates, len(model.TemplateIDs))
	assert.Equal(t, "professional", got.Default)
}

func TestResumeLifecycle(t *testing.T) {
	f := newFixture(t)
	res := f.createResume(t)
	assert.Equal(t, model.TemplateModern, res.TemplateID)

	status, body, _ := f.do(t, fiber.MethodGet, "/resumes/"+res.ID.String(), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "Jane Doe")

	status, body, headers := f.do(t, fiber.MethodGet, "/resumes/"+res.ID.String()+"/preview?template=tech", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, headers.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "template-tech")

	status, body, _ = f.do(t, fiber.MethodGet, "/resumes/"+res.ID.String()+"/preview?format=markdown", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "Jane Doe")
	assert.NotContains(t, string(body), "<style>")
}

func TestResumeListUpdateDelete(t *testing.T) {
	f := newFixture(t)
	res := f.createResume(t)
	item := "/resumes/" + res.ID.String()

	status, body, _ := f.do(t, fiber.MethodGet, "/resumes?userId="+res.UserID.String(), nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var list struct {
		Resumes []model.Resume `json:"resumes"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Resumes, 1)
	assert.Equal(t, res.ID, list.Resumes[0].ID)

	status, _, _ = f.do(t, fiber.MethodGet, "/resumes?userId=nope", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body, _ = f.do(t, fiber.MethodPut, item, map[string]any{"title": "Platform", "templateId": "tech"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	var updated model.Resume
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Platform", updated.Title)
	assert.Equal(t, model.TemplateTech, updated.TemplateID)
	assert.Equal(t, "Jane Doe", updated.Content.PersonalInfo.FullName, "content is kept when absent")

	status, _, _ = f.do(t, fiber.MethodPut, item, map[string]any{"content": map[string]any{"skills": "go"}})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _, _ = f.do(t, fiber.MethodDelete, item, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _, _ = f.do(t, fiber.MethodGet, item, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _, _ = f.do(t, fiber.MethodDelete, item, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestExportStoredResume(t *testing.T) {
	f := newFixture(t)
	res := f.createResume(t)

	status, body, headers := f.do(t, fiber.MethodGet, "/resumes/"+res.ID.String()+"/export?mode=vector&format=letter&filename=cv.pdf", nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Equal(t, "application/pdf", headers.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cv.pdf"`, headers.Get("Content-Disposition"))
	assert.NotEmpty(t, headers.Get("X-Page-Count"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	status, body, _ = f.do(t, fiber.MethodGet, "/resumes/"+res.ID.String()+"/exports", nil)
	require.Equal(t, fiber.StatusOK, status)
	var got struct {
		Exports []struct {
			Status string `json:"status"`
			Mode   string `json:"mode"`
		} `json:"exports"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Exports, 1)
	assert.Equal(t, "completed", got.Exports[0].Status)
	assert.Equal(t, "vector", got.Exports[0].Mode)
}

func TestExportInline(t *testing.T) {
	f := newFixture(t)
	status, body, headers := f.do(t, fiber.MethodPost, "/export", map[string]any{
		"content":    modeltest.Sample(),
		"templateId": "minimal",
		"mode":       "vector",
	})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.True(t, strings.HasPrefix(headers.Get("Content-Disposition"), `attachment; filename="Jane_Doe_`))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestExportErrors(t *testing.T) {
	f := newFixture(t)
	res := f.createResume(t)
	base := "/resumes/" + res.ID.String()

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		errMsg string
	}{
		{"unknown resume", fiber.MethodGet, "/resumes/" + uuid.NewString() + "/export", nil, fiber.StatusNotFound, "resume not found"},
		{"bad id", fiber.MethodGet, "/resumes/nope", nil, fiber.StatusBadRequest, "invalid resume id"},
		{"bad mode", fiber.MethodGet, base + "/export?mode=ink", nil, fiber.StatusBadRequest, ""},
		{"bad quality", fiber.MethodGet, base + "/export?mode=vector&quality=9", nil, fiber.StatusBadRequest, ""},
		{"path in filename", fiber.MethodGet, base + "/export?mode=vector&filename=../x.pdf", nil, fiber.StatusBadRequest, ""},
		{"raster without renderer", fiber.MethodGet, base + "/export", nil, fiber.StatusInternalServerError, httpadapter.ErrDownloadFailed},
		{"missing content", fiber.MethodPost, "/export", map[string]any{"mode": "vector"}, fiber.StatusBadRequest, "invalid resume content"},
		{"invalid content", fiber.MethodPost, "/export", map[string]any{"content": map[string]any{"skills": "go"}}, fiber.StatusBadRequest, "invalid resume content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := f.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, status, string(body))
			if tt.errMsg != "" {
				var got struct {
					Error string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, tt.errMsg, got.Error)
			}
		})
	}
}

func TestExportConflict(t *testing.T) {
	f := newFixture(t)
	res := f.createResume(t)

	release, ok := f.gate.TryAcquire("resume:" + res.ID.String())
	require.True(t, ok)
	status, _, _ := f.do(t, fiber.MethodGet, "/resumes/"+res.ID.String()+"/export?mode=vector", nil)
	assert.Equal(t, fiber.StatusConflict, status)

	release()
	status, _, _ = f.do(t, fiber.MethodGet, "/resumes/"+res.ID.String()+"/export?mode=vector", nil)
	assert.Equal(t, fiber.StatusOK, status)
}
