package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"resume-builder/internal/app"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

// localUser owns resumes imported from the command line.
var localUser = uuid.NewSHA1(uuid.NameSpaceURL, []byte("resume-builder:local"))

type document struct {
	content  *model.ResumeContent
	template model.TemplateID
	resumeID *uuid.UUID
}

// readContent reads and validates resume JSON from path, or from stdin when
// path is "-".
func readContent(path string, stdin io.Reader) (*model.ResumeContent, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := model.Validate(raw); err != nil {
		return nil, err
	}
	var c model.ResumeContent
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	c.Normalize()
	return &c, nil
}

// loadDocument resolves --file or --id into a document.
func loadDocument(ctx context.Context, a *app.App, file, id string, stdin io.Reader) (*document, error) {
	switch {
	case file != "" && id != "":
		return nil, errors.New("use either --file or --id, not both")
	case file != "":
		c, err := readContent(file, stdin)
		if err != nil {
			return nil, err
		}
		return &document{content: c}, nil
	case id != "":
		store, err := a.RequireStore()
		if err != nil {
			return nil, err
		}
		rid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid resume id %q", id)
		}
		res, err := store.GetResume(ctx, rid)
		if err != nil {
			return nil, err
		}
		return &document{content: res.Content, template: res.TemplateID, resumeID: &res.ID}, nil
	}
	return nil, nil
}

// pickTemplate prefers the flag, then the stored template, then the
// configured default.
func pickTemplate(flag string, doc *document, fallback string) model.TemplateID {
	if flag != "" {
		return model.ParseTemplateID(flag)
	}
	if doc != nil && doc.template != "" {
		return doc.template
	}
	return model.ParseTemplateID(fallback)
}
