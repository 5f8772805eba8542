package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExportPending   = "pending"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

// ExportJob is one attempt to export a resume as PDF.
type ExportJob struct {
	ID         uuid.UUID  `json:"id"`
	ResumeID   *uuid.UUID `json:"resume_id,omitempty"`
	TemplateID string     `json:"template_id"`
	Mode       string     `json:"mode"`
	Status     string     `json:"status"`
	Filename   string     `json:"filename"`
	Pages      int        `json:"pages"`
	SizeBytes  int        `json:"size_bytes"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
