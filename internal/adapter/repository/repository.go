package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resume not found")

// Store is the document source plus export history.
type Store interface {
	GetResume(ctx context.Context, id uuid.UUID) (*model.Resume, error)
	SaveResume(ctx context.Context, r *model.Resume) error
	ListResumes(ctx context.Context, userID uuid.UUID) ([]model.Resume, error)
	// DeleteResume removes a resume and its export history.
	DeleteResume(ctx context.Context, id uuid.UUID) error
	SaveExport(ctx context.Context, j *domain.ExportJob) error
	ListExports(ctx context.Context, resumeID uuid.UUID) ([]domain.ExportJob, error)
	Close() error
}

// encodeContent normalizes the document before it is written.
func encodeContent(c *model.ResumeContent) (string, error) {
	if c == nil {
		c = &model.ResumeContent{}
	}
	c.Normalize()
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode content: %w", err)
	}
	return string(b), nil
}

func decodeContent(raw string) (*model.ResumeContent, error) {
	c := &model.ResumeContent{}
	if raw == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return c, nil
}
