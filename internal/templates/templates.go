package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	text_template "text/template"
	"time"
)

//go:embed emails/*.html
var htmlTemplates embed.FS

//go:embed emails/*.txt
var textTemplates embed.FS

// TemplateRenderer manages loading and rendering of email templates
type TemplateRenderer struct {
	htmlTemplates *template.Template
	textTemplates *text_template.Template
}

// AdviceDigestData holds data for the advice digest email
type AdviceDigestData struct {
	LogDate              string
	Advice               string
	GeneratedAtFormatted string
}

// NewTemplateRenderer creates a new template renderer
func NewTemplateRenderer() (*TemplateRenderer, error) {
	htmlTmpl, err := template.ParseFS(htmlTemplates, "emails/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load HTML templates: %w", err)
	}

	textTmpl, err := text_template.ParseFS(textTemplates, "emails/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to load text templates: %w", err)
	}

	return &TemplateRenderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
	}, nil
}

func newAdviceDigestData(logDate, advice string, generatedAt time.Time) AdviceDigestData {
	return AdviceDigestData{
		LogDate:              logDate,
		Advice:               advice,
		GeneratedAtFormatted: generatedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
}

// RenderAdviceDigestHTML renders the HTML advice digest.
// The advice text is escaped by html/template.
func (t *TemplateRenderer) RenderAdviceDigestHTML(logDate, advice string, generatedAt time.Time) (string, error) {
	var buf strings.Builder
	if err := t.htmlTemplates.ExecuteTemplate(&buf, "advice_digest.html", newAdviceDigestData(logDate, advice, generatedAt)); err != nil {
		return "", fmt.Errorf("failed to render HTML template: %w", err)
	}
	return buf.String(), nil
}

// RenderAdviceDigestText renders the plain text advice digest
func (t *TemplateRenderer) RenderAdviceDigestText(logDate, advice string, generatedAt time.Time) (string, error) {
	var buf strings.Builder
	if err := t.textTemplates.ExecuteTemplate(&buf, "advice_digest.txt", newAdviceDigestData(logDate, advice, generatedAt)); err != nil {
		return "", fmt.Errorf("failed to render text template: %w", err)
	}
	return buf.String(), nil
}
