package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountDecimals is the number of fractional digits a human amount may carry.
// Amounts are stored as integer base units scaled by 10^AmountDecimals.
const AmountDecimals = 3

// Amount is a treasury-denominated quantity in integer base units.
type Amount int64

// ParseAmount converts a human string such as "12.5" into base units.
// Negative values and values with more than AmountDecimals fractional
// digits are rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	scaled := d.Shift(AmountDecimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, AmountDecimals)
	}
	if scaled.GreaterThan(decimal.NewFromInt(1 << 62)) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	return Amount(scaled.IntPart()), nil
}

// MustParseAmount is ParseAmount for constants and tests.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the amount with exactly AmountDecimals fractional digits.
func (a Amount) String() string {
	return decimal.New(int64(a), -AmountDecimals).StringFixed(AmountDecimals)
}
