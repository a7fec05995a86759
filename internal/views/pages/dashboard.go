package pages

import (
	"context"
	"html/template"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"fichapp/internal/costing"
	"fichapp/internal/views/components"
	"fichapp/models"
)

// DashboardData feeds the landing page of the application.
type DashboardData struct {
	Purchases   int64
	Ingredients int64
	Units       int64
	Groups      int64
	LastRecord  *models.Purchase
	Skipped     []costing.SkippedRow
	Recent      []models.Purchase
	Message     string
}

type dashboardView struct {
	DashboardData
	Cards []template.HTML
}

// Dashboard renders the dashboard inside the application shell.
func Dashboard(data DashboardData) templ.Component {
	return page("Dashboard", "dashboard", DashboardPartial(data))
}

// DashboardPartial renders the dashboard body.
func DashboardPartial(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		view := dashboardView{DashboardData: data}
		cards := []templ.Component{
			components.StatCard("Purchases", strconv.FormatInt(data.Purchases, 10), "Rows in the ledger"),
			components.StatCard("Ingredients", strconv.FormatInt(data.Ingredients, 10), "With an active cost"),
			components.StatCard("Units", strconv.FormatInt(data.Units, 10), "Purchase units in the catalog"),
			components.StatCard("Groups", strconv.FormatInt(data.Groups, 10), "Ingredient groups"),
		}
		for _, card := range cards {
			html, err := renderHTML(ctx, card)
			if err != nil {
				return err
			}
			view.Cards = append(view.Cards, html)
		}
		return templates.ExecuteTemplate(w, "dashboard.html", view)
	})
}
