package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatUSD renders whole dollars with digit grouping, e.g. "$1,299".
func FormatUSD(amount int) string {
	p := message.NewPrinter(language.AmericanEnglish)
	if amount < 0 {
		return p.Sprintf("-$%d", -amount)
	}
	return p.Sprintf("$%d", amount)
}

// FormatUSDRange renders a price range, e.g. "$799 – $1,799".
func FormatUSDRange(min, max int) string {
	return FormatUSD(min) + " – " + FormatUSD(max)
}
