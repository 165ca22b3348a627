package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/lox/meteowidget/internal/htmlutil"
	"github.com/lox/meteowidget/internal/view"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"temps": func(hi, lo int) string {
			return fmt.Sprintf("%d° / %d°", hi, lo)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

var textTemplates = newTemplates()

// RenderText renders w as plain text, for terminals and text-only clients.
func RenderText(w view.Widget) (string, error) {
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, "widget", w); err != nil {
		return "", err
	}
	return htmlutil.ToText(buf.String()), nil
}
