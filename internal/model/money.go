package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in cents. Prices are multiplied by whole night counts,
// so integer cents keep them exact.
type Money int64

// Cents builds a Money value from a cent amount.
func Cents(c int64) Money { return Money(c) }

// Units builds a Money value from whole currency units.
func Units(u int64) Money { return Money(u * 100) }

// Times multiplies by an integer factor such as a night count.
func (m Money) Times(n int) Money { return m * Money(n) }

// Cents returns the raw cent amount.
func (m Money) Cents() int64 { return int64(m) }

// Float is the amount in currency units, for sorting and display.
func (m Money) Float() float64 { return float64(m) / 100.0 }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders a JSON number with two decimals, e.g. 300.00.
func (m Money) MarshalJSON() ([]byte, error) { return []byte(m.String()), nil }

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMoney parses a decimal amount with at most two fractional digits
// without going through float64.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid amount: empty")
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if !digits(whole) || !digits(frac) || whole+frac == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: at most two decimals", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	v := w*100 + f
	if neg {
		v = -v
	}
	return Money(v), nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
