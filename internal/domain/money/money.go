// Package money handles euro amounts stored as integer cents.
package money

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Cents is an amount in euro cents. Integer arithmetic keeps sums exact.
type Cents int64

// ErrInvalidAmount is returned when an amount string cannot be parsed.
var ErrInvalidAmount = errors.New("amount must be a number with at most two decimals")

var dutch = message.NewPrinter(language.Dutch)

// maxUnits is the largest whole-euro part that still fits in Cents.
const maxUnits = (math.MaxInt64 - 99) / 100

// Parse reads an amount typed by a user: "5", "5.5", "5,50", "€ 1.234,50".
// When both separators are present the last one is the decimal separator.
// PRE: none
// POST: returns the amount in cents or ErrInvalidAmount
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	decimalAt := -1
	switch {
	case dot >= 0 && comma >= 0:
		decimalAt = max(dot, comma)
	case dot >= 0:
		decimalAt = dot
	case comma >= 0:
		decimalAt = comma
	}

	whole, frac := s, ""
	if decimalAt >= 0 {
		whole, frac = s[:decimalAt], s[decimalAt+1:]
	}
	// Anything left in the whole part other than digits must be grouping.
	whole = strings.NewReplacer(".", "", ",", "").Replace(whole)
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 || !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxUnits {
		return 0, ErrInvalidAmount
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	total := Cents(units*100 + cents)
	if negative {
		total = -total
	}
	return total, nil
}

// String returns the plain decimal form used in form inputs, e.g. "5.00".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + strconv.FormatInt(v/100, 10) + "." + twoDigits(v%100)
}

// Format renders the amount for display with Dutch grouping, e.g. "€ 1.234,50".
func (c Cents) Format() string {
	return dutch.Sprintf("€ %.2f", float64(c)/100)
}

// Sum adds amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
