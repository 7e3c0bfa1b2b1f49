package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MoneyDecimalPlaces matches the NUMERIC(10,2) columns.
	MoneyDecimalPlaces = 2
	MoneyMaxDigits     = 10
)

var maxMoney = decimal.New(1, MoneyMaxDigits-MoneyDecimalPlaces)

// validateMoney checks that v fits a NUMERIC(10,2) column.
func validateMoney(v *ValidationError, field string, value decimal.Decimal) {
	if !value.Round(MoneyDecimalPlaces).Equal(value) {
		v.Add(field, fmt.Sprintf("Ensure that there are no more than %d decimal places.", MoneyDecimalPlaces))
		return
	}
	if value.Abs().GreaterThanOrEqual(maxMoney) {
		v.Add(field, fmt.Sprintf("Ensure that there are no more than %d digits in total.", MoneyMaxDigits))
	}
}

// FormatMoney renders an amount the way the API exposes it, e.g. "900.00".
func FormatMoney(value decimal.Decimal) string {
	return value.StringFixed(MoneyDecimalPlaces)
}
