package pages

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"fichapp/internal/views/layout"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"money":        Money,
	"unitCost":     UnitCost,
	"qty":          Quantity,
	"percent":      Percent,
	"dash":         DefaultDash,
	"decimalInput": DecimalInput,
	"kindLabel":    KindLabel,
	"timestamp":    formatTimestamp,
}).ParseFS(files, "templates/*.html"))

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

func page(title, section string, body templ.Component) templ.Component {
	return layout.Layout(title+" · FichApp", section, body, true)
}

func renderHTML(ctx context.Context, component templ.Component) (template.HTML, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
