// Package modeltest provides resume documents for tests.
package modeltest

import (
	"fmt"

	"resume-builder/internal/model"
)

func ptr(s string) *string { return &s }

// Sample returns a fully populated document with one ongoing job.
func Sample() *model.ResumeContent {
	return &model.ResumeContent{
		PersonalInfo: model.PersonalInfo{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "+1 555 0100",
			City:     "Lisbon",
			LinkedIn: "https://www.linkedin.com/in/janedoe/",
			GitHub:   "github.com/janedoe",
		},
		ProfessionalSummary: "Backend engineer focused on distributed systems.",
		WorkExperience: []model.WorkExperience{
			{
				Company:     "Acme",
				JobTitle:    "Staff Engineer",
				Location:    "Remote",
				StartDate:   "2020-01-15",
				Current:     true,
				Description: "Led the storage team.\nShipped the new replication layer.",
			},
			{
				Company:     "Initech",
				JobTitle:    "Engineer",
				StartDate:   "2016-03-01",
				EndDate:     ptr("2019-12-31"),
				Description: "Built internal tooling.",
			},
		},
		Education: []model.Education{
			{
				School:       "State University",
				Degree:       "BSc",
				FieldOfStudy: "Computer Science",
				StartDate:    "2012-09-01",
				EndDate:      ptr("2016-06-30"),
			},
		},
		Skills: []string{"Go", "PostgreSQL", "Kubernetes"},
		Projects: []model.Project{
			{
				Title:        "pgsync",
				Description:  "Logical replication tool.",
				Technologies: []string{"Go", "PostgreSQL"},
				URL:          "https://github.com/janedoe/pgsync",
			},
		},
		Achievements: []model.Achievement{
			{Title: "Speaker at GopherCon", Date: "2022-07-01", Description: "Talk on replication."},
		},
	}
}

// NameOnly returns a document with nothing but a name.
func NameOnly(name string) *model.ResumeContent {
	return &model.ResumeContent{
		PersonalInfo:   model.PersonalInfo{FullName: name},
		WorkExperience: []model.WorkExperience{},
		Education:      []model.Education{},
		Skills:         []string{},
	}
}

// Long returns a document with n experience entries, enough to span pages.
func Long(n int) *model.ResumeContent {
	c := Sample()
	c.WorkExperience = nil
	for i := 0; i < n; i++ {
		c.WorkExperience = append(c.WorkExperience, model.WorkExperience{
			Company:     fmt.Sprintf("Company %d", i),
			JobTitle:    "Engineer",
			StartDate:   "2015-01-01",
			EndDate:     ptr("2016-01-01"),
			Description: "Designed and operated services handling production traffic for several teams across the organisation.",
		})
	}
	return c
}
