package pdf

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
)

// Result holds a generated PDF document.
type Result struct {
	data     []byte
	pages    int
	filename string
}

func (r *Result) Bytes() []byte { return r.data }

func (r *Result) Base64() string { return base64.StdEncoding.EncodeToString(r.data) }

func (r *Result) Reader() io.Reader { return bytes.NewReader(r.data) }

func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

func (r *Result) WriteToFile(path string) error {
	return os.WriteFile(path, r.data, 0o644)
}

func (r *Result) Len() int { return len(r.data) }

// Pages is the number of pages in the document.
func (r *Result) Pages() int { return r.pages }

// Filename is the suggested name for the document.
func (r *Result) Filename() string { return r.filename }
