// Package components holds the reusable rendering pieces of the TUI.
package components

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rasoi-labs/rasoi/internal/common"
)

// CurrencyFormatter renders amounts in a fixed locale and currency. There is
// no fallback: an unknown locale or currency code fails at construction.
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewCurrencyFormatter validates the locale and ISO 4217 code.
func NewCurrencyFormatter(locale, isoCode string) (*CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown locale %q: %w", common.ErrInvalidConfig, locale, err)
	}
	unit, err := currency.ParseISO(isoCode)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown currency %q: %w", common.ErrInvalidConfig, isoCode, err)
	}
	return &CurrencyFormatter{
		printer: message.NewPrinter(tag),
		symbol:  fmt.Sprint(currency.Symbol(unit)),
	}, nil
}

// Format renders an amount with the currency symbol, locale digit grouping,
// and no fraction digits.
func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	return f.symbol + f.printer.Sprint(number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(0)))
}
