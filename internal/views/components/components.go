package components

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("components").ParseFS(files, "templates/*.html"))

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

// StatCard renders a headline number with its label and a short hint.
func StatCard(label, value, hint string) templ.Component {
	return render("stat_card.html", struct {
		Label, Value, Hint string
	}{label, value, hint})
}

// Alert renders a banner. Kind is one of "info", "warning" or "error"; an empty
// message renders nothing.
func Alert(kind, message string) templ.Component {
	return render("alert.html", struct {
		Kind, Message string
	}{alertKind(kind), message})
}

func alertKind(kind string) string {
	switch kind {
	case "error", "warning":
		return kind
	default:
		return "info"
	}
}
