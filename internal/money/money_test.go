package money

import (
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		dollars int64
		cents   int64
	}{
		{"10.03", 10, 3},
		{"10.3", 10, 30},
		{"10.30", 10, 30},
		{"7", 7, 0},
		{"0.0", 0, 0},
		{"04.99", 4, 99},
		{"123456789.01", 123456789, 1},
	}

	for _, tt := range tests {
		m, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if m.Dollars() != tt.dollars || m.Cents() != tt.cents {
			t.Fatalf("Parse(%q)=%d.%02d want %d.%02d", tt.in, m.Dollars(), m.Cents(), tt.dollars, tt.cents)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrMalformed},
		{"abc", ErrMalformed},
		{"1.234", ErrMalformed},
		{"1.", ErrMalformed},
		{"1e3", ErrMalformed},
		{"+1.00", ErrMalformed},
		{".5", ErrMalformed},
		{" 3.1 ", ErrMalformed},
		{"3.1 ", ErrMalformed},
		{"-", ErrMalformed},
		{"-1.50", ErrNegative},
	}

	for _, tt := range tests {
		_, err := Parse(tt.in)
		if !errors.Is(err, tt.want) {
			t.Fatalf("Parse(%q) err=%v want %v", tt.in, err, tt.want)
		}
	}
}

func TestString_MinimalForm(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{New(10, 3), "10.3"},
		{New(10, 30), "10.30"},
		{New(0, 0), "0.0"},
		{FromCents(1013), "10.13"},
		{FromCents(-150), "-1.50"},
	}

	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Fatalf("String()=%q want %q", got, tt.want)
		}
	}
}

func TestNew_CarriesCents(t *testing.T) {
	m := New(1, 250)
	if m.Dollars() != 3 || m.Cents() != 50 {
		t.Fatalf("got %d.%02d want 3.50", m.Dollars(), m.Cents())
	}
}

func TestCompare(t *testing.T) {
	a, b := New(4, 0), New(4, 1)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatalf("compare broken")
	}
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("less broken")
	}
	if got := b.Sub(a); got != FromCents(1) {
		t.Fatalf("sub=%v", got)
	}
}

func TestIncrease_Truncates(t *testing.T) {
	tests := []struct {
		price string
		rate  float64
		want  int64
	}{
		{"10.00", 10, 100},
		{"10.03", 1, 10},
		{"0.99", 50, 49},
		{"19.99", 33.3, 665},
		{"10.00", -10, -100},
		{"0.05", -10, 0},
	}

	for _, tt := range tests {
		inc, err := MustParse(tt.price).Increase(tt.rate)
		if err != nil {
			t.Fatalf("Increase(%s, %v): %v", tt.price, tt.rate, err)
		}
		if inc.InCents() != tt.want {
			t.Fatalf("Increase(%s, %v)=%d want %d", tt.price, tt.rate, inc.InCents(), tt.want)
		}
	}
}

func TestIncrease_InvalidRate(t *testing.T) {
	for _, r := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -100.5} {
		if _, err := New(1, 0).Increase(r); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("rate %v: err=%v", r, err)
		}
	}
}

func TestIncrease_Overflow(t *testing.T) {
	tests := []struct {
		price Money
		rate  float64
	}{
		{MustParse("10.03"), 1e18},
		{MustParse("10.03"), 1e300},
		{FromCents(math.MaxInt64 - 5), 100},
	}

	for _, tt := range tests {
		if _, err := tt.price.Increase(tt.rate); !errors.Is(err, ErrOverflow) {
			t.Fatalf("Increase(%s, %v) err=%v want overflow", tt.price, tt.rate, err)
		}
	}

	inc, err := FromCents(math.MaxInt64 - 100).Increase(0)
	if err != nil || !inc.IsZero() {
		t.Fatalf("zero rate near max: inc=%s err=%v", inc, err)
	}
}

func TestAddChecked(t *testing.T) {
	if got, err := New(1, 50).AddChecked(FromCents(75)); err != nil || got != New(2, 25) {
		t.Fatalf("got=%s err=%v", got, err)
	}
	if _, err := FromCents(math.MaxInt64).AddChecked(FromCents(1)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("max+1 err=%v", err)
	}
	if _, err := FromCents(math.MinInt64).AddChecked(FromCents(-1)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("min-1 err=%v", err)
	}
}
