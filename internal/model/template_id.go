package model

import "strings"

// TemplateID names one of the visual templates.
type TemplateID string

const (
	TemplateProfessional TemplateID = "professional"
	TemplateModern       TemplateID = "modern"
	TemplateCreative     TemplateID = "creative"
	TemplateMinimal      TemplateID = "minimal"
	TemplateTech         TemplateID = "tech"
	TemplateAcademic     TemplateID = "academic"
	TemplateExecutive    TemplateID = "executive"
	TemplateStartup      TemplateID = "startup"
	TemplateConsultant   TemplateID = "consultant"

	DefaultTemplate = TemplateProfessional
)

// TemplateIDs lists every known template in catalogue order.
var TemplateIDs = []TemplateID{
	TemplateProfessional,
	TemplateModern,
	TemplateCreative,
	TemplateMinimal,
	TemplateTech,
	TemplateAcademic,
	TemplateExecutive,
	TemplateStartup,
	TemplateConsultant,
}

func (id TemplateID) Known() bool {
	for _, k := range TemplateIDs {
		if k == id {
			return true
		}
	}
	return false
}

// Resolve maps unknown or empty identifiers to the default template.
func (id TemplateID) Resolve() TemplateID {
	if id.Known() {
		return id
	}
	return DefaultTemplate
}

// ParseTemplateID is case and whitespace tolerant and never fails.
func ParseTemplateID(s string) TemplateID {
	return TemplateID(strings.ToLower(strings.TrimSpace(s))).Resolve()
}
