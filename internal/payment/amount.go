package payment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Charge bounds. Business policy, not a gateway requirement.
var (
	MinAmount = decimal.NewFromInt(100)
	MaxAmount = decimal.NewFromInt(5_000_000)
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount validates a charge amount: it must parse as a number, be
// positive, and sit inside the policy bounds.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: not a number", ErrInvalidAmount)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	if d.LessThan(MinAmount) {
		return decimal.Zero, fmt.Errorf("%w: below minimum of %s", ErrInvalidAmount, MinAmount)
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: above maximum of %s", ErrInvalidAmount, MaxAmount)
	}
	return d, nil
}

// Subunits converts a major-unit amount to the gateway's integer subunits
// (kobo for NGN).
func Subunits(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}
