// Package money implements a fixed-point dollars-and-cents amount.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformed   = errors.New("malformed money value")
	ErrNegative    = errors.New("negative money value")
	ErrInvalidRate = errors.New("invalid rate")
	ErrOverflow    = errors.New("money overflow")
)

var hundred = decimal.NewFromInt(100)

// Money is an amount held as a whole number of cents.
// The zero value is $0.00.
type Money struct {
	cents int64
}

// New builds an amount from dollars and cents. Cents outside [0,99] are
// carried into dollars.
func New(dollars int64, cents int64) Money {
	return Money{cents: dollars*100 + cents}
}

func FromCents(cents int64) Money { return Money{cents: cents} }

func (m Money) Dollars() int64 { return m.cents / 100 }

// Cents is the fractional part, always in [0,99].
func (m Money) Cents() int64 {
	c := m.cents % 100
	if c < 0 {
		c = -c
	}
	return c
}

func (m Money) InCents() int64 { return m.cents }

func (m Money) IsZero() bool { return m.cents == 0 }

func (m Money) Add(o Money) Money { return Money{cents: m.cents + o.cents} }

func (m Money) Sub(o Money) Money { return Money{cents: m.cents - o.cents} }

// AddChecked is Add that fails with ErrOverflow instead of wrapping.
func (m Money) AddChecked(o Money) (Money, error) {
	if (o.cents > 0 && m.cents > math.MaxInt64-o.cents) ||
		(o.cents < 0 && m.cents < math.MinInt64-o.cents) {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrOverflow, m, o)
	}
	return Money{cents: m.cents + o.cents}, nil
}

// Compare returns -1, 0 or +1.
func (m Money) Compare(o Money) int {
	switch {
	case m.cents < o.cents:
		return -1
	case m.cents > o.cents:
		return 1
	default:
		return 0
	}
}

func (m Money) Less(o Money) bool { return m.cents < o.cents }

// String renders "D.C" with the cents unpadded, so $10.03 prints as "10.3".
func (m Money) String() string {
	sign := ""
	if m.cents < 0 {
		sign = "-"
	}
	d := m.Dollars()
	if d < 0 {
		d = -d
	}
	return sign + strconv.FormatInt(d, 10) + "." + strconv.FormatInt(m.Cents(), 10)
}

// Parse reads "D", "D.C" or "D.CC". A single fractional digit is tenths.
// The dollar part must start with a digit, so "+1", ".5" and padded input
// are malformed. A leading '-' is reported as ErrNegative.
func Parse(s string) (Money, error) {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || !isDigit(digits[0]) || strings.ContainsAny(s, "eE") {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && (len(s)-i-1 > 2 || len(s)-i-1 == 0) {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: %q", ErrNegative, s)
	}

	c := d.Mul(hundred)
	if !c.IsInteger() || c.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return Money{cents: c.IntPart()}, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ValidateRate reports whether ratePercent can be applied to a price.
// Rates below -100 would drive prices negative.
func ValidateRate(ratePercent float64) error {
	if math.IsNaN(ratePercent) || math.IsInf(ratePercent, 0) || ratePercent < -100 {
		return fmt.Errorf("%w: %v", ErrInvalidRate, ratePercent)
	}
	return nil
}

// Increase returns m*ratePercent/100 with fractional pennies discarded.
// It fails with ErrOverflow when the increase or the raised price does not
// fit in an int64 count of cents.
func (m Money) Increase(ratePercent float64) (Money, error) {
	if err := ValidateRate(ratePercent); err != nil {
		return Money{}, err
	}
	inc := decimal.NewFromInt(m.cents).
		Mul(decimal.NewFromFloat(ratePercent)).
		Div(hundred).
		Truncate(0)
	if inc.GreaterThan(decimal.NewFromInt(math.MaxInt64-max(m.cents, 0))) ||
		inc.LessThan(decimal.NewFromInt(math.MinInt64-min(m.cents, 0))) {
		return Money{}, fmt.Errorf("%w: %s raised by %v%%", ErrOverflow, m, ratePercent)
	}
	return Money{cents: inc.IntPart()}, nil
}
