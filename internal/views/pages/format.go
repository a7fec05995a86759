package pages

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"fichapp/models"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Money renders a currency amount the way Brazilian kitchens read it: R$ 1.234,56.
func Money(value decimal.Decimal) string {
	return "R$ " + printer.Sprint(number.Decimal(value.Round(2).InexactFloat64(), number.Scale(2)))
}

// UnitCost renders a per-costing-unit cost with six decimal places.
func UnitCost(value decimal.Decimal) string {
	return "R$ " + printer.Sprint(number.Decimal(value.Round(6).InexactFloat64(), number.Scale(6)))
}

// Quantity renders a quantity with up to four decimal places.
func Quantity(value decimal.Decimal) string {
	return printer.Sprint(number.Decimal(value.Round(4).InexactFloat64(), number.MaxFractionDigits(4)))
}

// Percent renders a percentage with up to two decimal places.
func Percent(value decimal.Decimal) string {
	return printer.Sprint(number.Decimal(value.Round(2).InexactFloat64(), number.MaxFractionDigits(2))) + "%"
}

// DecimalInput renders a decimal as a form value; zero renders empty so the
// placeholder shows.
func DecimalInput(value decimal.Decimal) string {
	if value.IsZero() {
		return ""
	}
	return value.String()
}

// DefaultDash returns an em dash when the provided value is empty or whitespace.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

// KindLabel names a purchase kind for display.
func KindLabel(kind string) string {
	return models.KindLabel(kind)
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return "—"
	}
	return value.Local().Format("02/01/2006 15:04")
}
