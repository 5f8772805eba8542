package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"resume-builder/internal/model"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

//go:embed assets/resume.gohtml assets/style.css
var assets embed.FS

// RootSelector addresses the resume element in rendered documents.
const RootSelector = "#resume-root"

var ErrNoContent = errors.New("templates: no content")

var (
	page      = template.Must(template.New("resume.gohtml").ParseFS(assets, "assets/resume.gohtml"))
	baseStyle = mustRead("assets/style.css")
)

func mustRead(name string) string {
	b, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

type document struct {
	pageView
	CSS template.CSS
}

// Render produces a standalone HTML document for content in the given
// template, with the stylesheet inlined.
func Render(content *model.ResumeContent, id model.TemplateID) ([]byte, error) {
	if content == nil {
		return nil, ErrNoContent
	}
	t := Lookup(id)
	doc := document{pageView: buildView(content, t), CSS: template.CSS(stylesheet(t.Theme))}
	var buf bytes.Buffer
	if err := page.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("templates: render %s: %w", t.ID, err)
	}
	return buf.Bytes(), nil
}

// Markdown renders content as Markdown, following the section order and
// headings of the chosen template.
func Markdown(content *model.ResumeContent, id model.TemplateID) (string, error) {
	html, err := Render(content, id)
	if err != nil {
		return "", err
	}
	// the stylesheet has no place in a text export
	if i, j := bytes.Index(html, []byte("<style>")), bytes.Index(html, []byte("</style>")); i >= 0 && j > i {
		html = append(html[:i:i], html[j+len("</style>"):]...)
	}
	md, err := htmltomarkdown.ConvertString(string(html))
	if err != nil {
		return "", fmt.Errorf("templates: markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

func stylesheet(th Theme) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	vars := []struct{ name, value string }{
		{"accent", th.Accent},
		{"text", th.Text},
		{"muted", th.Muted},
		{"header-bg", th.HeaderBg},
		{"header-fg", th.HeaderFg},
		{"sidebar-bg", th.SidebarBg},
		{"sidebar-fg", th.SidebarFg},
		{"body-font", th.BodyFont},
		{"heading-font", th.HeadingFont},
		{"heading-case", th.HeadingCase},
		{"heading-align", th.HeadingAlign},
		{"heading-border", th.HeadingBorder},
	}
	for _, v := range vars {
		if v.value == "" {
			continue
		}
		fmt.Fprintf(&b, "  --%s: %s;\n", v.name, v.value)
	}
	b.WriteString("}\n")
	b.WriteString(baseStyle)
	return b.String()
}
