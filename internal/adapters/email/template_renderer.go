package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"conferenceplanner/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer implements domain.EmailTemplateRenderer using embedded template files.
// Each template is a set of three files: <name>_subject.txt, <name>.html and <name>.txt.
type templateRenderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewTemplateRenderer parses every embedded template.
func NewTemplateRenderer() (domain.EmailTemplateRenderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &templateRenderer{html: html, text: text}, nil
}

// Render executes the three files of templateName with data. The subject is
// trimmed to one line; To is left for the caller.
func (r *templateRenderer) Render(templateName string, data any) (domain.EmailMessage, error) {
	var msg domain.EmailMessage
	subject, err := execute(r.text, templateName+"_subject.txt", data)
	if err != nil {
		return msg, fmt.Errorf("render subject: %w", err)
	}
	msg.Subject = strings.Join(strings.Fields(subject), " ")

	if msg.HTML, err = execute(r.html, templateName+".html", data); err != nil {
		return msg, fmt.Errorf("render html: %w", err)
	}
	if msg.Text, err = execute(r.text, templateName+".txt", data); err != nil {
		return msg, fmt.Errorf("render text: %w", err)
	}
	return msg, nil
}

// executor is satisfied by both html/template and text/template.
type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func execute(t executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
