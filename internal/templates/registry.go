package templates

import "resume-builder/internal/model"

// Layout selects the page skeleton a template uses.
type Layout string

const (
	LayoutClassic Layout = "classic"
	LayoutBanner  Layout = "banner"
	LayoutSidebar Layout = "sidebar"
)

// Section identifies one renderable part of a resume.
type Section string

const (
	SectionSummary      Section = "summary"
	SectionExperience   Section = "experience"
	SectionEducation    Section = "education"
	SectionSkills       Section = "skills"
	SectionProjects     Section = "projects"
	SectionAchievements Section = "achievements"
)

// Theme holds the CSS custom properties of a template.
type Theme struct {
	Accent        string
	Text          string
	Muted         string
	HeaderBg      string
	HeaderFg      string
	SidebarBg     string
	SidebarFg     string
	BodyFont      string
	HeadingFont   string
	HeadingCase   string // text-transform
	HeadingAlign  string
	HeadingBorder string
}

type Template struct {
	ID          model.TemplateID
	Name        string
	Description string
	Category    string
	Tagline     string
	Layout      Layout
	Theme       Theme
	Main        []Section
	Sidebar     []Section
	Headings    map[Section]string
	// Go layouts for entry dates.
	DateLayout      string
	EducationLayout string
}

const (
	sans  = `"Helvetica Neue", Helvetica, Arial, sans-serif`
	serif = `Georgia, "Times New Roman", serif`
	mono  = `"SFMono-Regular", Menlo, Consolas, monospace`
)

var registry = []Template{
	{
		ID:          model.TemplateProfessional,
		Name:        "Professional",
		Description: "Traditional layout for corporate roles",
		Category:    "Classic",
		Layout:      LayoutClassic,
		Theme: Theme{Accent: "#1f2937", Text: "#111827", Muted: "#4b5563", HeaderBg: "#ffffff", HeaderFg: "#111827",
			BodyFont: sans, HeadingFont: sans, HeadingCase: "uppercase", HeadingAlign: "left", HeadingBorder: "2px solid #1f2937"},
		Main: []Section{SectionSummary, SectionExperience, SectionEducation, SectionSkills, SectionProjects, SectionAchievements},
		Headings: map[Section]string{
			SectionSummary:      "Professional Summary",
			SectionExperience:   "Professional Experience",
			SectionEducation:    "Education",
			SectionSkills:       "Core Competencies",
			SectionProjects:     "Key Projects",
			SectionAchievements: "Achievements",
		},
		DateLayout:      model.LayoutMonthYear,
		EducationLayout: model.LayoutMonthYear,
	},
	{
		ID:          model.TemplateModern,
		Name:        "Modern",
		Description: "Clean design with a bold colored header",
		Category:    "Contemporary",
		Layout:      LayoutBanner,
		Theme: Theme{Accent: "#2563eb", Text: "#1f2937", Muted: "#6b7280", HeaderBg: "#2563eb", HeaderFg: "#ffffff",
			BodyFont: sans, HeadingFont: sans, HeadingCase: "none", HeadingAlign: "left", HeadingBorder: "2px solid #2563eb"},
		Main: []Section{SectionSummary, SectionExperience, SectionSkills, SectionEducation, SectionProjects, SectionAchievements},
		Headings: map[Section]string{
			SectionSummary:      "Executive Summary",
			SectionExperience:   "Professional Experience",
			SectionSkills:       "Core Skills",
			SectionEducation:    "Education",
			SectionProjects:     "Selected Projects",
			SectionAchievements: "Achievements",
		},
		DateLayout:      model.LayoutShortMonth,
		EducationLayout: model.LayoutYear,
	},
	{
		ID:          model.TemplateCreative,
		Name:        "Creative",
		Description: "Two-column layout with a colored sidebar",
		Category:    "Creative",
		Layout:      LayoutSidebar,
		Theme: Theme{Accent: "#7c3aed", Text: "#1f2937", Muted: "#6b7280", HeaderBg: "#7c3aed", HeaderFg: "#ffffff",
			SidebarBg: "#6d28d9", SidebarFg: "#f5f3ff",
			BodyFont: sans, HeadingFont: sans, HeadingCase: "none", HeadingAlign: "left", HeadingBorder: "none"},
		Sidebar: []Section{SectionSkills, SectionEducation},
		Main:    []Section{SectionSummary, SectionExperience, SectionProjects, SectionAchievements},
		Headings: map[Section]string{
			SectionSkills:       "Skills",
			SectionEducation:    "Education",
			SectionSummary:      "About Me",
			SectionExperience:   "Experience",
			SectionProjects:     "Projects",
			SectionAchievements: "Highlights",
		},
		DateLayout:      model.LayoutShortMonth,
		EducationLayout: model.LayoutYear,
	},
	{
		ID:          model.TemplateMinimal,
		Name:        "Minimal",
		Description: "Understated serif design with generous whitespace",
		Category:    "Classic",
		Layout:      LayoutClassic,
		Theme: Theme{Accent: "#374151", Text: "#111827", Muted: "#6b7280", HeaderBg: "#ffffff", HeaderFg: "#111827",
			BodyFont: serif, HeadingFont: serif, HeadingCase: "uppercase", HeadingAlign: "center", HeadingBorder: "none"},
		Main: []Section{SectionSummary, SectionExperience, SectionEducation, SectionSkills, SectionProjects, SectionAchievements},
		Headings: map[Section]string{
			SectionSummary:      "Profile",
			SectionExperience:   "Experience",
			SectionEducation:    "Education",
			SectionSkills:       "Skills",
			SectionProjects:     "Projects",
			SectionAchievements: "Achievements",
		},
		DateLayout:      model.LayoutLongMonth,
		EducationLayout: model.LayoutYear,
	},
	{
		ID:          model.TemplateTech,
		Name:        "Tech",
		Description: "Developer-focused layout with monospace accents",
		Category:    "Technical",
		Layout:      LayoutBanner,
		Theme: Theme{Accent: "#10b981", Text: "#111827", Muted: "#4b5563", HeaderBg: "#111827", HeaderFg: "#34d399",
			BodyFont: sans, HeadingFont: mono, HeadingCase: "none", HeadingAlign: "left", HeadingBorder: "1px dashed #10b981"},
		Main: []Section{SectionSummary, SectionSkills, SectionExperience, SectionProjects, SectionEducation, SectionAchievements},
		Headings: map[Section]string{
			SectionSummary:      "// About",
			SectionSkills:       "// Tech Stack",
			SectionExperience:   "// Work Experience",
			SectionProjects:     "// Projects",
			SectionEducation:    "// Education",
			SectionAchievements: "// Achievements",
		},
		DateLayout:      model.LayoutMonthYear,
		EducationLayout: model.LayoutYear,
	},
	{
		ID:          model.TemplateAcademic,
		Name:        "Academic",
		Description: "Research-oriented CV layout",
		Category:    "Academic",
		Layout:      LayoutClassic,
		Theme: Theme{Accent: "#7f1d1d", Text: "#1c1917", Muted: "#57534e", HeaderBg: "#ffffff", HeaderFg: "#1c1917",
			BodyFont: serif, HeadingFont: serif, HeadingCase: "none", HeadingAlign: "left", HeadingBorder: "1px solid #7f1d1d"},
		Main: []Section{SectionSummary, SectionEducation, SectionExperience, SectionProjects, SectionSkills, SectionAchievements},
		Headings: map[Section]string{
			SectionSummary:      "Research Interests",
			SectionEducation:    "Education",
			SectionExperience:   "Academic & Professional Experience",
			SectionProjects:     "Research Projects",
			SectionSkills:       "Technical Skills",
			SectionAchievements: "Honors & Awards",
		},
		DateLayout:      model.LayoutLongMonth,
		EducationLayout: model.LayoutYear,
	},
	{
		ID:          model.TemplateExecutive,
		Name:        "Executive",
		Description: "Senior leadership layout with a dark header",
		Category:    "Leadership",
		Layout:      LayoutBanner,
		Theme: Theme{Accent: "#b45309", Text: "#111827", Muted: "#4b5563", HeaderBg: "#0f172a", HeaderFg: "#f8fafc",
			BodyFont: serif, HeadingFont: sans, HeadingCase: "uppercase", HeadingAlign: "left", HeadingBorder: "2px solid #b45309"},
		Main: []Section{SectionSummary, SectionSkills, SectionExperience, SectionEducation, SectionProjects, SectionAchievements},
		Headings: map[Section]string{
			SectionSummary:      "Executive Profile",
			SectionSkills:       "Core Competencies",
			SectionExperience:   "Executive Experience",
			SectionEducation:    "Education & Credentials",
			SectionProjects:     "Strategic Initiatives",
			SectionAchievements: "Key Achievements",
		},
		DateLayout:      model.LayoutShortMonth,
		EducationLayout: model.LayoutYear,
	},
	{
		ID:          model.TemplateStartup,
		Name:        "Startup",
		Description: "Energetic layout for fast-moving teams",
		Category:    "Contemporary",
		Tagline:     "Innovation Catalyst",
		Layout:      LayoutBanner,
		Theme: Theme{Accent: "#ea580c", Text: "#1f2937", Muted: "#6b7280", HeaderBg: "linear-gradient(90deg, #f97316, #db2777)", HeaderFg: "#ffffff",
			BodyFont: sans, HeadingFont: sans, HeadingCase: "none", HeadingAlign: "left", HeadingBorder: "3px solid #f97316"},
		Main: []Section{SectionSummary, SectionSkills, SectionExperience, SectionProjects, SectionEducation, SectionAchievements},
		Headings: map[Section]string{
			SectionSummary:      "Mission Statement",
			SectionSkills:       "Superpowers",
			SectionExperience:   "The Journey",
			SectionProjects:     "Side Hustles",
			SectionEducation:    "Learning Adventures",
			SectionAchievements: "Wins",
		},
		DateLayout:      model.LayoutShortMonth,
		EducationLayout: model.LayoutYear,
	},
	{
		ID:          model.TemplateConsultant,
		Name:        "Consultant",
		Description: "Client-facing layout that leads with impact",
		Category:    "Leadership",
		Layout:      LayoutClassic,
		Theme: Theme{Accent: "#1d4ed8", Text: "#0f172a", Muted: "#475569", HeaderBg: "#ffffff", HeaderFg: "#1e3a8a",
			BodyFont: sans, HeadingFont: sans, HeadingCase: "uppercase", HeadingAlign: "left", HeadingBorder: "2px solid #1d4ed8"},
		Main: []Section{SectionSummary, SectionSkills, SectionExperience, SectionProjects, SectionEducation, SectionAchievements},
		Headings: map[Section]string{
			SectionSummary:      "Executive Summary",
			SectionSkills:       "Core Competencies",
			SectionExperience:   "Professional Experience",
			SectionProjects:     "Key Engagements",
			SectionEducation:    "Education & Certifications",
			SectionAchievements: "Client Impact",
		},
		DateLayout:      model.LayoutShortMonth,
		EducationLayout: model.LayoutYear,
	},
}

// Lookup returns the template for id, falling back to the default template.
func Lookup(id model.TemplateID) Template {
	id = id.Resolve()
	for _, t := range registry {
		if t.ID == id {
			return t
		}
	}
	return registry[0]
}

// All returns every template in catalogue order.
func All() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	return out
}

// Info is the public description of a template.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Layout      string `json:"layout"`
	Tagline     string `json:"tagline,omitempty"`
}

// Catalog describes every template in catalogue order.
func Catalog() []Info {
	out := make([]Info, 0, len(registry))
	for _, t := range registry {
		out = append(out, Info{
			ID:          string(t.ID),
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
			Layout:      string(t.Layout),
			Tagline:     t.Tagline,
		})
	}
	return out
}
