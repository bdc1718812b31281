// Package money formats Rupiah amounts for display.
package money

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// Symbol is the display prefix for Rupiah amounts.
const Symbol = "Rp"

// FormatIDR renders a whole-Rupiah amount with Indonesian digit grouping,
// e.g. 250000 -> "Rp 250.000". Rupiah has no minor unit in circulation, so no
// decimals are printed.
func FormatIDR(amount int64) string {
	return printer.Sprintf("%s %d", Symbol, amount)
}

// Code is the ISO 4217 code of the shop currency.
func Code() string {
	return currency.IDR.String()
}
