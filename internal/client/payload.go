package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// FileUpload is a file attached to a create or update call
type FileUpload struct {
	Field   string
	Name    string
	Content io.Reader
}

// OpenFile attaches the file at path under field. The caller closes the
// returned closer once the call returns.
func OpenFile(field, path string) (*FileUpload, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &FileUpload{Field: field, Name: filepath.Base(path), Content: f}, f, nil
}

// Payload is the body of a mutating call. It is sent as multipart form data
// when a file is attached and as JSON otherwise.
type Payload struct {
	Fields map[string]any
	File   *FileUpload

	raw any
}

// NewPayload creates a payload from fields
func NewPayload(fields map[string]any) *Payload {
	if fields == nil {
		fields = map[string]any{}
	}
	return &Payload{Fields: fields}
}

// Set adds or replaces one field
func (p *Payload) Set(name string, value any) *Payload {
	if p.Fields == nil {
		p.Fields = map[string]any{}
	}
	p.Fields[name] = value
	return p
}

// Attach adds a file to the payload
func (p *Payload) Attach(file *FileUpload) *Payload {
	p.File = file
	return p
}

// Multipart reports whether the payload is sent as form data
func (p *Payload) Multipart() bool {
	return p.File != nil
}

func (p *Payload) encode() (io.Reader, string, error) {
	if p.raw != nil {
		return encodeJSON(p.raw)
	}
	if !p.Multipart() {
		fields := p.Fields
		if fields == nil {
			fields = map[string]any{}
		}
		return encodeJSON(fields)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, err := formValue(p.Fields[name])
		if err != nil {
			return nil, "", fmt.Errorf("field %s: %w", name, err)
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile(p.File.Field, p.File.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, p.File.Content); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", p.File.Name, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func encodeJSON(v any) (io.Reader, string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(raw), "application/json", nil
}

// formValue renders a field as a multipart string. Structured values such as
// contentLinks travel JSON encoded.
func formValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return compactJSON(v)
	}
}
