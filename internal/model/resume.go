package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Go models that match the resume content JSON stored by the builder and
// validated against schema.json.

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zipCode,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type WorkExperience struct {
	ID          string  `json:"id,omitempty"`
	Company     string  `json:"company"`
	JobTitle    string  `json:"jobTitle"`
	Location    string  `json:"location,omitempty"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Current     bool    `json:"current"`
	Description string  `json:"description"`
}

type Education struct {
	ID           string  `json:"id,omitempty"`
	School       string  `json:"school"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldOfStudy"`
	Location     string  `json:"location,omitempty"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Current      bool    `json:"current"`
	Description  string  `json:"description,omitempty"`
}

type Project struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      *string  `json:"endDate,omitempty"`
	Current      bool     `json:"current,omitempty"`
}

type Achievement struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Certifications and languages are part of the stored document but no
// template renders them.
type Certification struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Issuer         string `json:"issuer"`
	IssueDate      string `json:"issueDate,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	CredentialID   string `json:"credentialId,omitempty"`
	URL            string `json:"url,omitempty"`
}

type Language struct {
	ID          string `json:"id,omitempty"`
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

type ResumeContent struct {
	PersonalInfo        PersonalInfo     `json:"personalInfo"`
	ProfessionalSummary string           `json:"professionalSummary"`
	WorkExperience      []WorkExperience `json:"workExperience"`
	Education           []Education      `json:"education"`
	Skills              []string         `json:"skills"`
	Certifications      []Certification  `json:"certifications,omitempty"`
	Languages           []Language       `json:"languages,omitempty"`
	Achievements        []Achievement    `json:"achievements,omitempty"`
	Projects            []Project        `json:"projects,omitempty"`
}

// Resume is a stored document as returned by the document source.
type Resume struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"userId"`
	Title      string         `json:"title"`
	TemplateID TemplateID     `json:"templateId"`
	Content    *ResumeContent `json:"content"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// SetCurrent marks the entry as ongoing; an ongoing entry has no end date.
func (w *WorkExperience) SetCurrent(current bool) {
	w.Current = current
	if current {
		w.EndDate = nil
	}
}

// SetEndDate records an end date and clears the current flag.
func (w *WorkExperience) SetEndDate(date string) {
	w.EndDate = &date
	w.Current = false
}

func (e *Education) SetCurrent(current bool) {
	e.Current = current
	if current {
		e.EndDate = nil
	}
}

func (e *Education) SetEndDate(date string) {
	e.EndDate = &date
	e.Current = false
}

func (p *Project) SetCurrent(current bool) {
	p.Current = current
	if current {
		p.EndDate = nil
	}
}

func (p *Project) SetEndDate(date string) {
	p.EndDate = &date
	p.Current = false
}

// Normalize enforces the document invariants in place. It runs wherever a
// document enters the system (store writes, request decoding, imports);
// renderers read documents as they are.
func (c *ResumeContent) Normalize() {
	if c == nil {
		return
	}
	for i := range c.WorkExperience {
		w := &c.WorkExperience[i]
		if w.Current {
			w.EndDate = nil
		}
		w.EndDate = blankToNil(w.EndDate)
	}
	for i := range c.Education {
		e := &c.Education[i]
		if e.Current {
			e.EndDate = nil
		}
		e.EndDate = blankToNil(e.EndDate)
	}
	for i := range c.Projects {
		p := &c.Projects[i]
		if p.Current {
			p.EndDate = nil
		}
		p.EndDate = blankToNil(p.EndDate)
		p.Technologies = compact(p.Technologies)
	}
	c.Skills = compact(c.Skills)
	if c.WorkExperience == nil {
		c.WorkExperience = []WorkExperience{}
	}
	if c.Education == nil {
		c.Education = []Education{}
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// compact trims every value and drops blanks. The result is never nil.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
