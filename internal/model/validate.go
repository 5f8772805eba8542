package model

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var ErrInvalidContent = errors.New("invalid resume content")

// ValidationError carries one message per schema violation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidContent }

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Validate checks raw resume JSON against the embedded schema.
func Validate(raw []byte) error {
	return validate(gojsonschema.NewBytesLoader(raw))
}

// ValidateContent validates an already decoded document.
func ValidateContent(c *ResumeContent) error {
	if c == nil {
		return &ValidationError{Problems: []string{"content is required"}}
	}
	return validate(gojsonschema.NewGoLoader(c))
}

func validate(doc gojsonschema.JSONLoader) error {
	res, err := gojsonschema.Validate(schemaLoader, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &ValidationError{Problems: problems}
}
