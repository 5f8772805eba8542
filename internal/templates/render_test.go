package templates_test

import (
	"bytes"
	"strings"
	"testing"

	"resume-builder/internal/model"
	"resume-builder/internal/model/modeltest"
	"resume-builder/internal/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, b []byte) *html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(b))
	require.NoError(t, err)
	return doc
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func findAll(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func TestRenderAllTemplates(t *testing.T) {
	for _, tpl := range templates.All() {
		t.Run(string(tpl.ID), func(t *testing.T) {
			out, err := templates.Render(modeltest.Sample(), tpl.ID)
			require.NoError(t, err)
			doc := parse(t, out)

			roots := findAll(doc, "template-"+string(tpl.ID))
			require.Len(t, roots, 1)
			assert.Equal(t, "Jane Doe", text(findAll(doc, "name")[0]))

			var present bool
			for _, d := range findAll(doc, "entry-dates") {
				if strings.HasSuffix(text(d), "Present") {
					present = true
				}
			}
			assert.True(t, present, "current job renders Present")

			headings := findAll(doc, "section-heading")
			assert.Len(t, headings, 6)
		})
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	out, err := templates.Render(modeltest.NameOnly("Jane Doe"), model.TemplateProfessional)
	require.NoError(t, err)
	doc := parse(t, out)
	assert.Empty(t, findAll(doc, "section"))
	assert.Empty(t, findAll(doc, "contact"))
	assert.Equal(t, "Jane Doe", text(findAll(doc, "name")[0]))
}

func TestRenderPlaceholderName(t *testing.T) {
	out, err := templates.Render(modeltest.NameOnly("  "), model.TemplateModern)
	require.NoError(t, err)
	assert.Equal(t, "Your Name", text(findAll(parse(t, out), "name")[0]))
}

func TestRenderUnknownTemplateFallsBack(t *testing.T) {
	want, err := templates.Render(modeltest.Sample(), model.TemplateProfessional)
	require.NoError(t, err)
	got, err := templates.Render(modeltest.Sample(), "holographic")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRenderIsDeterministic(t *testing.T) {
	a, err := templates.Render(modeltest.Sample(), model.TemplateCreative)
	require.NoError(t, err)
	b, err := templates.Render(modeltest.Sample(), model.TemplateCreative)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderDateFormats(t *testing.T) {
	cases := map[model.TemplateID]string{
		model.TemplateProfessional: "01/2020 - Present",
		model.TemplateModern:       "Jan 2020 - Present",
		model.TemplateMinimal:      "January 2020 - Present",
	}
	for id, want := range cases {
		out, err := templates.Render(modeltest.Sample(), id)
		require.NoError(t, err)
		dates := findAll(parse(t, out), "entry-dates")
		require.NotEmpty(t, dates)
		assert.Equal(t, want, text(dates[0]), id)
	}
}

func TestRenderSidebarLayout(t *testing.T) {
	out, err := templates.Render(modeltest.Sample(), model.TemplateCreative)
	require.NoError(t, err)
	doc := parse(t, out)
	sidebars := findAll(doc, "sidebar")
	require.Len(t, sidebars, 1)
	assert.Len(t, findAll(sidebars[0], "section-skills"), 1)
	assert.Len(t, findAll(sidebars[0], "section-experience"), 0)
}

func TestRenderEscapesContent(t *testing.T) {
	c := modeltest.Sample()
	c.ProfessionalSummary = "<script>alert(1)</script>"
	out, err := templates.Render(c, model.TemplateProfessional)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
}

func TestLookup(t *testing.T) {
	assert.Equal(t, model.TemplateProfessional, templates.Lookup("nope").ID)
	assert.Equal(t, "Innovation Catalyst", templates.Lookup(model.TemplateStartup).Tagline)
	assert.Len(t, templates.All(), len(model.TemplateIDs))
}

func TestMarkdown(t *testing.T) {
	md, err := templates.Markdown(modeltest.Sample(), model.TemplateProfessional)
	require.NoError(t, err)
	assert.Contains(t, md, "Jane Doe")
	assert.Contains(t, md, "Professional Experience")
	assert.Contains(t, md, "01/2020 - Present")
	assert.NotContains(t, md, "--accent")
}
