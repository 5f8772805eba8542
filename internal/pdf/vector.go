package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"resume-builder/internal/model"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	margin          = 20.0
	font            = "Helvetica"
	placeholderName = "Your Name"
	bodyLineHeight  = 4.0
	headingHeight   = 8.0
)

// Space reserved before a block is placed. A block that does not fit in what
// is left of the page starts on the next one.
const (
	reserveSummary         = 30.0
	reserveExperience      = 40.0
	reserveEducation       = 30.0
	reserveSkills          = 25.0
	reserveProjects        = 30.0
	reserveAchievements    = 25.0
	reserveExperienceEntry = 35.0
	reserveEducationEntry  = 30.0
	reserveProjectEntry    = 25.0
	reserveAchievement     = 15.0
)

// VectorGenerator lays out the document as real text with the core
// Helvetica font. The result is selectable and small, at the cost of
// ignoring the visual template.
type VectorGenerator struct {
	log      *zap.Logger
	compress bool
}

func NewVectorGenerator(log *zap.Logger, opts ...GeneratorOption) *VectorGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	c := applyOptions(opts)
	return &VectorGenerator{log: log, compress: c.compress}
}

func (g *VectorGenerator) Generate(_ context.Context, src Source, opts Options) (*Result, error) {
	if src.Content == nil {
		return nil, ErrNoContent
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	o := opts.resolved()
	start := time.Now()

	w := newVectorWriter(o.Page(), g.compress)
	w.write(src.Content)
	if err := w.doc.Error(); err != nil {
		g.log.Error("vector layout failed", zap.Error(err))
		return nil, ErrGenerate
	}
	var buf bytes.Buffer
	if err := w.doc.Output(&buf); err != nil {
		g.log.Error("vector output failed", zap.Error(err))
		return nil, ErrGenerate
	}
	g.log.Info("vector pdf generated",
		zap.Int("pages", w.doc.PageCount()),
		zap.Int("size", buf.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return &Result{data: buf.Bytes(), pages: w.doc.PageCount(), filename: o.Filename}, nil
}

// placement records where a block landed, for layout tests.
type placement struct {
	Block   string
	Page    int
	Top     float64
	EndPage int
	End     float64
}

type vectorWriter struct {
	doc          *gofpdf.Fpdf
	tr           func(string) string
	pageW, pageH float64
	y            float64
	placements   []placement
}

func newVectorWriter(size PageSize, compress bool) *vectorWriter {
	orientation, format := size.gofpdfSize()
	doc := gofpdf.New(orientation, "mm", format, "")
	doc.SetCompression(compress)
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(false, margin)
	doc.SetCreator("resume-builder", false)
	doc.AddPage()
	w, h := doc.GetPageSize()
	return &vectorWriter{
		doc:   doc,
		tr:    doc.UnicodeTranslatorFromDescriptor(""),
		pageW: w,
		pageH: h,
		y:     margin,
	}
}

func (w *vectorWriter) contentWidth() float64 { return w.pageW - 2*margin }

func (w *vectorWriter) bottom() float64 { return w.pageH - margin }

func lineHeight(size float64) float64 { return size * 0.35 }

func (w *vectorWriter) newPage() {
	w.doc.AddPage()
	w.y = margin
}

// reserve starts a new page when the block will not fit. measured is the
// height the block is known to need; the fixed estimate wins when larger.
func (w *vectorWriter) reserve(block string, estimate, measured float64) int {
	need := estimate
	if measured > need {
		need = measured
	}
	if printable := w.bottom() - margin; need > printable {
		need = printable
	}
	if w.y+need > w.bottom() && w.y > margin {
		w.newPage()
	}
	w.placements = append(w.placements, placement{Block: block, Page: w.doc.PageNo(), Top: w.y})
	return len(w.placements) - 1
}

func (w *vectorWriter) finish(i int) {
	w.placements[i].EndPage = w.doc.PageNo()
	w.placements[i].End = w.y
}

// wrap splits text into lines that fit the content width at the current
// font. Input is UTF-8; output lines are already translated for the core
// font encoding.
func (w *vectorWriter) wrap(text string) []string {
	var out []string
	limit := w.contentWidth()
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := ""
		for _, word := range strings.FieldsFunc(para, unicode.IsSpace) {
			word = w.tr(word)
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if w.doc.GetStringWidth(candidate) <= limit {
				line = candidate
				continue
			}
			if line != "" {
				out = append(out, line)
			}
			line = ""
			for w.doc.GetStringWidth(word) > limit && len(word) > 1 {
				n := len(word) - 1
				for n > 1 && w.doc.GetStringWidth(word[:n]) > limit {
					n--
				}
				out = append(out, word[:n])
				word = word[n:]
			}
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (w *vectorWriter) setFont(style string, size float64) {
	w.doc.SetFont(font, style, size)
}

// measure returns the height text will take at the given font.
func (w *vectorWriter) measure(text, style string, size, lh float64) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	w.setFont(style, size)
	return float64(len(w.wrap(text))) * lh
}

// text writes wrapped text at the cursor. A paragraph longer than the page
// continues on the next one.
func (w *vectorWriter) text(text, style string, size, lh float64) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.setFont(style, size)
	for _, line := range w.wrap(text) {
		if w.y > w.bottom() {
			w.newPage()
			w.setFont(style, size)
		}
		w.doc.Text(margin, w.y, line)
		w.y += lh
	}
}

// heading places a section title. first is the space the section's first
// entry needs; the title moves to the next page with it.
func (w *vectorWriter) heading(block, title string, reserve, first float64) {
	i := w.reserve(block, reserve, headingHeight+first)
	w.setFont("B", 14)
	w.doc.Text(margin, w.y, w.tr(title))
	w.doc.SetLineWidth(0.3)
	w.doc.Line(margin, w.y+1.5, w.pageW-margin, w.y+1.5)
	w.y += headingHeight
	w.finish(i)
}

func (w *vectorWriter) write(c *model.ResumeContent) {
	w.header(c.PersonalInfo)

	if s := strings.TrimSpace(c.ProfessionalSummary); s != "" {
		w.heading("summary", "PROFESSIONAL SUMMARY", reserveSummary, bodyLineHeight)
		w.text(s, "", 10, bodyLineHeight)
		w.y += 5
	}

	if len(c.WorkExperience) > 0 {
		w.heading("experience", "PROFESSIONAL EXPERIENCE", reserveExperience,
			max(reserveExperienceEntry, w.experienceHead(c.WorkExperience[0])))
		for n, e := range c.WorkExperience {
			dates := model.FormatRange(e.StartDate, e.EndDate, e.Current, model.LayoutMonthYear)
			sub := joinNonEmpty(" | ", e.Company, e.Location)
			i := w.reserve(fmt.Sprintf("experience[%d]", n), reserveExperienceEntry, w.experienceHead(e))
			w.text(e.JobTitle, "B", 12, lineHeight(12))
			w.text(sub, "", 11, lineHeight(11))
			w.text(dates, "I", 10, lineHeight(10))
			w.y += 2
			w.text(e.Description, "", 10, bodyLineHeight)
			w.y += 5
			w.finish(i)
		}
	}

	if len(c.Education) > 0 {
		w.heading("education", "EDUCATION", reserveEducation,
			max(reserveEducationEntry, w.educationHead(c.Education[0])))
		for n, e := range c.Education {
			title := educationTitle(e)
			dates := model.FormatRange(e.StartDate, e.EndDate, e.Current, model.LayoutYear)
			i := w.reserve(fmt.Sprintf("education[%d]", n), reserveEducationEntry, w.educationHead(e))
			w.text(title, "B", 12, lineHeight(12))
			if e.School != title {
				w.text(e.School, "", 11, lineHeight(11))
			}
			w.text(dates, "I", 10, lineHeight(10))
			w.text(e.Description, "", 10, bodyLineHeight)
			w.y += 5
			w.finish(i)
		}
	}

	if skills := nonBlank(c.Skills); len(skills) > 0 {
		w.heading("skills", "CORE COMPETENCIES", reserveSkills, bodyLineHeight+1)
		w.text(strings.Join(skills, " • "), "", 10, bodyLineHeight+1)
		w.y += 5
	}

	if len(c.Projects) > 0 {
		w.heading("projects", "KEY PROJECTS", reserveProjects,
			max(reserveProjectEntry, w.projectHead(c.Projects[0])))
		for n, p := range c.Projects {
			dates := model.FormatRange(p.StartDate, p.EndDate, p.Current, model.LayoutMonthYear)
			i := w.reserve(fmt.Sprintf("projects[%d]", n), reserveProjectEntry, w.projectHead(p))
			w.text(p.Title, "B", 12, lineHeight(12))
			w.text(dates, "I", 10, lineHeight(10))
			w.text(p.Description, "", 10, bodyLineHeight)
			if tech := nonBlank(p.Technologies); len(tech) > 0 {
				w.text("Technologies: "+strings.Join(tech, ", "), "I", 9, lineHeight(9)+0.5)
			}
			if p.URL != "" {
				w.text(model.LinkLabel(p.URL), "", 9, lineHeight(9)+0.5)
			}
			w.y += 5
			w.finish(i)
		}
	}

	if len(c.Achievements) > 0 {
		w.heading("achievements", "ACHIEVEMENTS", reserveAchievements,
			max(reserveAchievement, w.achievementHead(c.Achievements[0])))
		for n, a := range c.Achievements {
			date := model.FormatDate(a.Date, model.LayoutMonthYear)
			i := w.reserve(fmt.Sprintf("achievements[%d]", n), reserveAchievement, w.achievementHead(a))
			w.text(a.Title, "B", 11, lineHeight(11))
			w.text(date, "I", 9, lineHeight(9))
			w.text(a.Description, "", 10, bodyLineHeight)
			w.y += 4
			w.finish(i)
		}
	}
}

// The *Head helpers measure the lines of an entry that must stay together.

func (w *vectorWriter) experienceHead(e model.WorkExperience) float64 {
	dates := model.FormatRange(e.StartDate, e.EndDate, e.Current, model.LayoutMonthYear)
	return w.measure(e.JobTitle, "B", 12, lineHeight(12)) +
		w.measure(joinNonEmpty(" | ", e.Company, e.Location), "", 11, lineHeight(11)) +
		w.measure(dates, "I", 10, lineHeight(10)) + 2
}

func educationTitle(e model.Education) string {
	if title := joinNonEmpty(" in ", e.Degree, e.FieldOfStudy); title != "" {
		return title
	}
	return e.School
}

func (w *vectorWriter) educationHead(e model.Education) float64 {
	dates := model.FormatRange(e.StartDate, e.EndDate, e.Current, model.LayoutYear)
	return w.measure(educationTitle(e), "B", 12, lineHeight(12)) +
		w.measure(e.School, "", 11, lineHeight(11)) +
		w.measure(dates, "I", 10, lineHeight(10))
}

func (w *vectorWriter) projectHead(p model.Project) float64 {
	dates := model.FormatRange(p.StartDate, p.EndDate, p.Current, model.LayoutMonthYear)
	return w.measure(p.Title, "B", 12, lineHeight(12)) + w.measure(dates, "I", 10, lineHeight(10))
}

func (w *vectorWriter) achievementHead(a model.Achievement) float64 {
	return w.measure(a.Title, "B", 11, lineHeight(11)) +
		w.measure(model.FormatDate(a.Date, model.LayoutMonthYear), "I", 9, lineHeight(9))
}

func (w *vectorWriter) header(p model.PersonalInfo) {
	name := strings.TrimSpace(p.FullName)
	if name == "" {
		name = placeholderName
	}
	w.text(name, "B", 20, 10)

	var contact []string
	for _, v := range []string{p.Email, p.Phone, model.LinkLabel(p.LinkedIn), model.LinkLabel(p.Website), model.LinkLabel(p.GitHub)} {
		if v = strings.TrimSpace(v); v != "" {
			contact = append(contact, v)
		}
	}
	if len(contact) > 0 {
		w.text(strings.Join(contact, " | "), "", 10, lineHeight(10)+1)
	}
	w.y += 6
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonBlank(parts), sep)
}
