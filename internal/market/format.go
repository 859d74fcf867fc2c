package market

import (
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.AmericanEnglish)
	titler  = cases.Title(language.AmericanEnglish)
)

// FormatCurrency formats amount as whole US dollars, e.g. "$2,500,000".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return printer.Sprintf("%s$%d", sign, int64(math.Round(amount)))
}

// FormatNumber formats n with thousands separators.
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// TypeTitle capitalizes a property type for display.
func TypeTitle(t string) string {
	return titler.String(t)
}
