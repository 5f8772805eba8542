package pdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"resume-builder/internal/model"
	"resume-builder/internal/model/modeltest"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func pageCount(t *testing.T, b []byte) int {
	t.Helper()
	r, err := lpdf.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	return r.NumPage()
}

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type stubSurface struct {
	img      []byte
	err      error
	width    int
	scale    float64
	selector string
}

func (s *stubSurface) Capture(_ context.Context, selector string, width int, scale float64) ([]byte, error) {
	s.selector, s.width, s.scale = selector, width, scale
	return s.img, s.err
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, 794, A4.PixelWidth())
	assert.Equal(t, 816, Letter.PixelWidth())
	assert.Equal(t, PageSize{Width: 297, Height: 210}, A4.Landscape())
	assert.Equal(t, Letter.Landscape(), Options{Format: FormatLetter, Orientation: Landscape}.Page())
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, Options{}.Validate())
	assert.NoError(t, Options{Format: "A4", Orientation: "Landscape", Quality: 1}.Validate())
	assert.ErrorIs(t, Options{Format: "a3"}.Validate(), ErrInvalidOptions)
	assert.ErrorIs(t, Options{Orientation: "diagonal"}.Validate(), ErrInvalidOptions)
	assert.ErrorIs(t, Options{Quality: 0.5}.Validate(), ErrInvalidOptions)
	assert.ErrorIs(t, Options{Filename: "../x.pdf"}.Validate(), ErrInvalidOptions)
}

func TestMerge(t *testing.T) {
	got := Merge(DefaultOptions(), Options{Orientation: Landscape, Filename: "cv.pdf"})
	assert.Equal(t, Options{Format: FormatA4, Orientation: Landscape, Quality: DefaultRasterQuality, Filename: "cv.pdf"}, got)
}

func TestRasterGeneratorPaginates(t *testing.T) {
	// 100px wide maps to 210mm, so one A4 page is ~141.4px tall.
	cases := []struct {
		height int
		pages  int
	}{
		{100, 1},
		{141, 1},
		{142, 1}, // within one pixel of the boundary
		{200, 2},
		{354, 3},
	}
	for _, tc := range cases {
		s := &stubSurface{img: solidPNG(t, 100, tc.height)}
		res, err := NewRasterGenerator(nil, WithCompression(false)).Generate(context.Background(), Source{Surface: s}, Options{})
		require.NoError(t, err)
		assert.Equal(t, tc.pages, res.Pages(), "height %d", tc.height)
		assert.Equal(t, tc.pages, pageCount(t, res.Bytes()), "height %d", tc.height)
		assert.True(t, bytes.HasPrefix(res.Bytes(), []byte("%PDF")))
		assert.Equal(t, DefaultFilename, res.Filename())
	}
}

func TestRasterGeneratorCaptureParameters(t *testing.T) {
	s := &stubSurface{img: solidPNG(t, 20, 20)}
	_, err := NewRasterGenerator(nil).Generate(context.Background(), Source{Surface: s},
		Options{Format: FormatLetter, Orientation: Landscape, Quality: 3})
	require.NoError(t, err)
	assert.Equal(t, CaptureSelector, s.selector)
	assert.Equal(t, Letter.Landscape().PixelWidth(), s.width)
	assert.Equal(t, 3.0, s.scale)
}

func TestRasterGeneratorErrorsAreGeneric(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	g := NewRasterGenerator(zap.New(core))

	_, err := g.Generate(context.Background(), Source{Surface: &stubSurface{err: errors.New("tab crashed")}}, Options{})
	assert.Equal(t, ErrGenerate, err)
	assert.Equal(t, "failed to generate PDF", err.Error())

	_, err = g.Generate(context.Background(), Source{Surface: &stubSurface{img: []byte("not a png")}}, Options{})
	assert.Equal(t, ErrGenerate, err)
	assert.Equal(t, 2, logs.Len())

	_, err = g.Generate(context.Background(), Source{}, Options{})
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestVectorGeneratorNameOnly(t *testing.T) {
	res, err := NewVectorGenerator(nil, WithCompression(false)).
		Generate(context.Background(), Source{Content: modeltest.NameOnly("Jane Doe")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages())
	assert.Equal(t, 1, pageCount(t, res.Bytes()))
	body := string(res.Bytes())
	assert.Contains(t, body, "(Jane Doe) Tj")
	assert.NotContains(t, body, "PROFESSIONAL")
}

func TestVectorGeneratorContent(t *testing.T) {
	res, err := NewVectorGenerator(nil, WithCompression(false)).
		Generate(context.Background(), Source{Content: modeltest.Sample()}, Options{})
	require.NoError(t, err)
	body := string(res.Bytes())
	for _, want := range []string{
		"(PROFESSIONAL SUMMARY) Tj",
		"(PROFESSIONAL EXPERIENCE) Tj",
		"(EDUCATION) Tj",
		"(CORE COMPETENCIES) Tj",
		"(KEY PROJECTS) Tj",
		"(ACHIEVEMENTS) Tj",
		"(01/2020 - Present) Tj",
		"(2012 - 2016) Tj",
		"(Technologies: Go, PostgreSQL) Tj",
		"jane@example.com | +1 555 0100 | linkedin.com/in/janedoe | github.com/janedoe",
	} {
		assert.Contains(t, body, want)
	}
}

func TestVectorGeneratorPlaceholderName(t *testing.T) {
	res, err := NewVectorGenerator(nil, WithCompression(false)).
		Generate(context.Background(), Source{Content: modeltest.NameOnly("")}, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(res.Bytes()), "(Your Name) Tj")
}

func TestVectorLookaheadKeepsEntriesTogether(t *testing.T) {
	w := newVectorWriter(A4, false)
	w.write(modeltest.Long(25))
	require.NoError(t, w.doc.Error())
	require.Greater(t, w.doc.PageCount(), 1)

	var entries, moved int
	for _, p := range w.placements {
		if !strings.HasPrefix(p.Block, "experience[") {
			continue
		}
		entries++
		assert.Equal(t, p.Page, p.EndPage, "%s split across pages", p.Block)
		assert.LessOrEqual(t, p.End, w.bottom()+bodyLineHeight, p.Block)
		if p.Page > 1 && p.Top == margin {
			moved++
		}
	}
	assert.Equal(t, 25, entries)
	assert.Positive(t, moved)
}

func placementOf(t *testing.T, w *vectorWriter, block string) placement {
	t.Helper()
	for _, p := range w.placements {
		if p.Block == block {
			return p
		}
	}
	t.Fatalf("no placement for %s", block)
	return placement{}
}

func TestVectorHeadingStaysWithFirstEntry(t *testing.T) {
	// growing the summary walks each heading across the page break
	for words := 0; words <= 1200; words += 8 {
		c := modeltest.Sample()
		c.ProfessionalSummary = strings.Repeat("lorem ", words)
		w := newVectorWriter(A4, false)
		w.write(c)
		require.NoError(t, w.doc.Error())

		for _, section := range []string{"experience", "education", "projects", "achievements"} {
			h := placementOf(t, w, section)
			first := placementOf(t, w, section+"[0]")
			assert.Equal(t, h.Page, first.Page, "words=%d: %s heading on page %d, first entry on page %d", words, section, h.Page, first.Page)
		}
	}
}

func TestVectorLongParagraphContinues(t *testing.T) {
	c := modeltest.NameOnly("Jane Doe")
	c.ProfessionalSummary = strings.Repeat("word ", 4000)
	res, err := NewVectorGenerator(nil).Generate(context.Background(), Source{Content: c}, Options{})
	require.NoError(t, err)
	assert.Greater(t, res.Pages(), 1)
	assert.Equal(t, res.Pages(), pageCount(t, res.Bytes()))
}

func TestVectorGeneratorLetterLandscape(t *testing.T) {
	res, err := NewVectorGenerator(nil).Generate(context.Background(), Source{Content: modeltest.Sample()},
		Options{Format: FormatLetter, Orientation: Landscape, Filename: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", res.Filename())
	assert.Equal(t, res.Pages(), pageCount(t, res.Bytes()))
}

func TestVectorGeneratorInputErrors(t *testing.T) {
	g := NewVectorGenerator(nil)
	_, err := g.Generate(context.Background(), Source{}, Options{})
	assert.ErrorIs(t, err, ErrNoContent)
	_, err = g.Generate(context.Background(), Source{Content: &model.ResumeContent{}}, Options{Format: "tabloid"})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestVectorGeneratorTranslatesUnicode(t *testing.T) {
	c := modeltest.NameOnly("José Müller")
	c.Skills = []string{"Go", "Café"}
	_, err := NewVectorGenerator(nil).Generate(context.Background(), Source{Content: c}, Options{})
	require.NoError(t, err)
}
