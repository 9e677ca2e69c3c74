package domain

import "github.com/shopspring/decimal"

// MinorUnitExponent is the number of decimal places stored in minor units.
const MinorUnitExponent = 2

// ToMinorUnits converts a decimal amount into integer minor units, dropping
// any digits beyond the second decimal place.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(MinorUnitExponent).IntPart()
}

// FromMinorUnits converts integer minor units back into a decimal amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}

// FormatMinorUnits renders minor units with exactly two decimal places.
func FormatMinorUnits(minor int64) string {
	return FromMinorUnits(minor).StringFixed(MinorUnitExponent)
}
