package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
)

// FilePart is one file field of a form payload.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

type formField struct {
	Name   string
	Value  string
	List   []string
	IsList bool
}

// FormPayload is an ordered mutating-request body. Encoding is
// multipart/form-data whenever a file part is present, JSON otherwise —
// the presence of a file is the only thing that decides the wire format.
type FormPayload struct {
	fields []formField
	files  []FilePart
}

// NewFormPayload creates an empty payload.
func NewFormPayload() *FormPayload {
	return &FormPayload{}
}

// Set writes a scalar field, replacing any previous value under the name.
func (p *FormPayload) Set(name, value string) {
	for i := range p.fields {
		if p.fields[i].Name == name {
			p.fields[i].Value = value
			return
		}
	}
	p.fields = append(p.fields, formField{Name: name, Value: value})
}

// SetList writes a string-list field, replacing any previous value under
// the name. Lists encode as JSON arrays, or repeated multipart fields.
func (p *FormPayload) SetList(name string, values []string) {
	for i := range p.fields {
		if p.fields[i].Name == name {
			p.fields[i] = formField{Name: name, List: values, IsList: true}
			return
		}
	}
	p.fields = append(p.fields, formField{Name: name, List: values, IsList: true})
}

// Has reports whether a scalar field is present.
func (p *FormPayload) Has(name string) bool {
	for _, field := range p.fields {
		if field.Name == name {
			return true
		}
	}
	return false
}

// Get returns the value of a scalar field.
func (p *FormPayload) Get(name string) (string, bool) {
	for _, field := range p.fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// FieldNames returns the scalar field names in insertion order.
func (p *FormPayload) FieldNames() []string {
	names := make([]string, len(p.fields))
	for i, field := range p.fields {
		names[i] = field.Name
	}
	return names
}

// AddFile attaches a file part.
func (p *FormPayload) AddFile(file FilePart) {
	p.files = append(p.files, file)
}

// AddFileHeader reads an uploaded multipart file into a file part under the
// given field name.
func (p *FormPayload) AddFileHeader(field string, header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file %s: %w", header.Filename, err)
	}

	p.files = append(p.files, FilePart{
		Field:       field,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	return nil
}

// HasFiles reports whether the payload carries any file part.
func (p *FormPayload) HasFiles() bool {
	return len(p.files) > 0
}

// Encode serializes the payload and returns the body with its content type.
func (p *FormPayload) Encode() (io.Reader, string, error) {
	if !p.HasFiles() {
		object := make(map[string]any, len(p.fields))
		for _, field := range p.fields {
			if field.IsList {
				object[field.Name] = field.List
			} else {
				object[field.Name] = field.Value
			}
		}
		body, err := json.Marshal(object)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode form payload: %w", err)
		}
		return bytes.NewReader(body), "application/json", nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range p.fields {
		if field.IsList {
			for _, value := range field.List {
				if err := writer.WriteField(field.Name, value); err != nil {
					return nil, "", fmt.Errorf("failed to write form field %s: %w", field.Name, err)
				}
			}
			continue
		}
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", field.Name, err)
		}
	}

	for _, file := range p.files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part %s: %w", file.Field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart payload: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
