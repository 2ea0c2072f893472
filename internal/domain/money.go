// internal/domain/money.go
package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"micro-ledger/internal/util"
)

// DefaultScale is the number of fractional digits in a minor unit (cents).
const DefaultScale int32 = 2

// Bounds on a decimal amount accepted from callers. Rounding allocates a power of ten
// of the exponent's size, so both are checked first.
const (
	maxAmountExponent    = 18
	maxAmountCoefficient = 128 // bits
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// ToMinorUnits converts a user-facing decimal amount to integer minor units,
// rounding half-to-even at scale. The result must be strictly positive and fit in an int64.
func ToMinorUnits(amount decimal.Decimal, scale int32) (int64, error) {
	if exp := amount.Exponent(); exp < -maxAmountExponent || exp > maxAmountExponent {
		return 0, fmt.Errorf("%w: amount is out of range", util.ErrInvalidAmount)
	}
	if amount.Coefficient().BitLen() > maxAmountCoefficient {
		return 0, fmt.Errorf("%w: amount is out of range", util.ErrInvalidAmount)
	}

	units := amount.RoundBank(scale).Shift(scale)
	if units.Sign() <= 0 {
		return 0, fmt.Errorf("%w: amount must be at least %s", util.ErrInvalidAmount, FormatMinorUnits(1, scale))
	}
	if units.GreaterThan(maxMinorUnits) {
		return 0, fmt.Errorf("%w: amount is too large", util.ErrInvalidAmount)
	}
	return units.IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(units int64, scale int32) decimal.Decimal {
	return decimal.New(units, -scale)
}

// FormatMinorUnits renders minor units with exactly scale fractional digits, e.g. 10000 -> "100.00".
func FormatMinorUnits(units int64, scale int32) string {
	return FromMinorUnits(units, scale).StringFixed(scale)
}
