package templates

import (
	"strings"

	"resume-builder/internal/model"
)

const placeholderName = "Your Name"

type contactItem struct {
	Kind  string
	Label string
	Href  string
}

type entryView struct {
	Title       string
	Subtitle    string
	Location    string
	Dates       string
	Description string
	Tags        []string
	URL         string
	URLLabel    string
}

type sectionView struct {
	Key     Section
	Heading string
	Text    string
	Skills  []string
	Entries []entryView
}

type pageView struct {
	Template Template
	Name     string
	Tagline  string
	Location string
	Contact  []contactItem
	Main     []sectionView
	Sidebar  []sectionView
}

func buildView(c *model.ResumeContent, t Template) pageView {
	p := c.PersonalInfo
	v := pageView{
		Template: t,
		Name:     strings.TrimSpace(p.FullName),
		Tagline:  t.Tagline,
		Location: joinNonEmpty(", ", p.City, p.State),
		Contact:  contactItems(p),
	}
	if v.Name == "" {
		v.Name = placeholderName
	}
	for _, s := range t.Main {
		if sv, ok := buildSection(c, t, s); ok {
			v.Main = append(v.Main, sv)
		}
	}
	for _, s := range t.Sidebar {
		if sv, ok := buildSection(c, t, s); ok {
			v.Sidebar = append(v.Sidebar, sv)
		}
	}
	return v
}

func contactItems(p model.PersonalInfo) []contactItem {
	var out []contactItem
	if e := strings.TrimSpace(p.Email); e != "" {
		out = append(out, contactItem{Kind: "email", Label: e, Href: "mailto:" + e})
	}
	if ph := strings.TrimSpace(p.Phone); ph != "" {
		out = append(out, contactItem{Kind: "phone", Label: ph})
	}
	for _, l := range []struct{ kind, raw string }{
		{"linkedin", p.LinkedIn},
		{"website", p.Website},
		{"github", p.GitHub},
	} {
		if strings.TrimSpace(l.raw) == "" {
			continue
		}
		out = append(out, contactItem{Kind: l.kind, Label: model.LinkLabel(l.raw), Href: model.LinkHref(l.raw)})
	}
	return out
}

// buildSection reports false when the section has nothing to show.
func buildSection(c *model.ResumeContent, t Template, s Section) (sectionView, bool) {
	sv := sectionView{Key: s, Heading: t.Headings[s]}
	switch s {
	case SectionSummary:
		sv.Text = strings.TrimSpace(c.ProfessionalSummary)
		return sv, sv.Text != ""
	case SectionSkills:
		for _, sk := range c.Skills {
			if sk = strings.TrimSpace(sk); sk != "" {
				sv.Skills = append(sv.Skills, sk)
			}
		}
		return sv, len(sv.Skills) > 0
	case SectionExperience:
		for _, w := range c.WorkExperience {
			sv.Entries = append(sv.Entries, entryView{
				Title:       w.JobTitle,
				Subtitle:    w.Company,
				Location:    w.Location,
				Dates:       model.FormatRange(w.StartDate, w.EndDate, w.Current, t.DateLayout),
				Description: strings.TrimSpace(w.Description),
			})
		}
	case SectionEducation:
		for _, e := range c.Education {
			title := joinNonEmpty(" in ", e.Degree, e.FieldOfStudy)
			if title == "" {
				title = e.School
			}
			sub := e.School
			if sub == title {
				sub = ""
			}
			sv.Entries = append(sv.Entries, entryView{
				Title:       title,
				Subtitle:    sub,
				Location:    e.Location,
				Dates:       model.FormatRange(e.StartDate, e.EndDate, e.Current, t.EducationLayout),
				Description: strings.TrimSpace(e.Description),
			})
		}
	case SectionProjects:
		for _, pr := range c.Projects {
			ev := entryView{
				Title:       pr.Title,
				Dates:       model.FormatRange(pr.StartDate, pr.EndDate, pr.Current, t.DateLayout),
				Description: strings.TrimSpace(pr.Description),
			}
			for _, tech := range pr.Technologies {
				if tech = strings.TrimSpace(tech); tech != "" {
					ev.Tags = append(ev.Tags, tech)
				}
			}
			if pr.URL != "" {
				ev.URL = model.LinkHref(pr.URL)
				ev.URLLabel = model.LinkLabel(pr.URL)
			}
			sv.Entries = append(sv.Entries, ev)
		}
	case SectionAchievements:
		for _, a := range c.Achievements {
			sv.Entries = append(sv.Entries, entryView{
				Title:       a.Title,
				Dates:       model.FormatDate(a.Date, t.DateLayout),
				Description: strings.TrimSpace(a.Description),
			})
		}
	}
	return sv, len(sv.Entries) > 0
}

func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}
