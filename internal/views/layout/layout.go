package layout

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("layout").ParseFS(files, "templates/*.html"))

// NavItem is one entry of the application sidebar.
type NavItem struct {
	Key   string
	Label string
	Href  string
}

// Navigation lists the sidebar entries in display order.
var Navigation = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Href: "/app"},
	{Key: "purchases", Label: "Purchases", Href: "/app/purchases"},
	{Key: "new-purchase", Label: "New purchase", Href: "/app/purchases/new"},
	{Key: "active-costs", Label: "Active costs", Href: "/app/active-costs"},
	{Key: "catalog", Label: "Units & groups", Href: "/app/units"},
	{Key: "parameters", Label: "Parameters", Href: "/app/parameters"},
	{Key: "exports", Label: "Exports", Href: "/app/exports"},
}

type navLink struct {
	NavItem
	State string
}

type pageData struct {
	Title         string
	Nav           []navLink
	Content       template.HTML
	Authenticated bool
}

// Layout wraps content in the application shell. The sidebar is only rendered for
// authenticated users and highlights the entry matching section.
func Layout(title, section string, content templ.Component, authenticated bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body, err := renderChild(ctx, content)
		if err != nil {
			return err
		}
		data := pageData{
			Title:         title,
			Content:       body,
			Authenticated: authenticated,
		}
		if authenticated {
			data.Nav = make([]navLink, 0, len(Navigation))
			for _, item := range Navigation {
				data.Nav = append(data.Nav, navLink{NavItem: item, State: linkState(item.Key, section)})
			}
		}
		return templates.ExecuteTemplate(w, "layout.html", data)
	})
}

func renderChild(ctx context.Context, component templ.Component) (template.HTML, error) {
	if component == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func linkState(key, section string) string {
	if key == section {
		return "active"
	}
	return "inactive"
}
