package investment

import "github.com/shopspring/decimal"

// minorUnitExponent is the number of decimal places between the major and
// minor currency unit (dollars and cents).
const minorUnitExponent = 2

// MaxAmount is the largest single investment accepted, in major units.
var MaxAmount = decimal.RequireFromString("999999.99")

// ToMinorUnits converts a major-unit amount to minor units, rounding half
// away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(minorUnitExponent).Round(0).IntPart()
}

// FromMinorUnits converts a minor-unit amount reported by the payment
// gateway to major units.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorUnitExponent)
}
