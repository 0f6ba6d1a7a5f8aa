// Package money holds the fixed-point rules shared by every balance, stake and amount.
package money

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every committed amount carries.
const Scale = 2

var (
	ErrMalformed   = errors.New("malformed_amount")
	ErrNotPositive = errors.New("amount_not_positive")
	ErrTooPrecise  = errors.New("amount_too_precise")
)

// maxLiteralLen bounds the digits a client may send. Exponents are limited
// to two digits so rescaling to Scale stays cheap.
const maxLiteralLen = 40

var literalPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d{1,2})?$`)

// decode is the only entry point for client-supplied amounts.
func decode(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxLiteralLen || !literalPattern.MatchString(s) {
		return decimal.Zero, ErrMalformed
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrMalformed
	}
	return d, nil
}

// Parse reads a decimal string and validates it as a positive amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decode(s)
	if err != nil {
		return decimal.Zero, err
	}
	if err := ValidatePositive(d); err != nil {
		return decimal.Zero, err
	}
	return Round(d), nil
}

// ParseBalance reads an absolute balance: zero is allowed, negatives and
// sub-cent values are not.
func ParseBalance(s string) (decimal.Decimal, error) {
	d, err := decode(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNotPositive
	}
	if !d.Equal(d.Truncate(Scale)) {
		return decimal.Zero, ErrTooPrecise
	}
	return Round(d), nil
}

// ValidatePositive rejects zero, negative and sub-cent amounts.
func ValidatePositive(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrNotPositive
	}
	if !d.Equal(d.Truncate(Scale)) {
		return ErrTooPrecise
	}
	return nil
}

// Round brings d to Scale using half-away-from-zero rounding.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// MustParse is for constants and tests.
func MustParse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return Round(d)
}

// Literal is an amount as sent by a client, either a JSON string or a JSON
// number. It keeps the exact text so no float rounding happens before Parse.
type Literal string

func (l *Literal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*l = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var out string
		if err := json.Unmarshal(b, &out); err != nil {
			return err
		}
		*l = Literal(out)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return ErrMalformed
	}
	*l = Literal(n.String())
	return nil
}
