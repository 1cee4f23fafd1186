// Package money wraps shopspring/decimal with the two rules every monetary
// amount in the system obeys: never negative, never more than two fractional
// digits. All bill and cash-count arithmetic goes through exact decimals —
// floats never touch money.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
)

// Amount is a validated non-negative decimal with at most two fractional
// digits. The zero value is a valid 0.00 amount.
type Amount struct {
	d decimal.Decimal
}

// New validates d against the Amount invariants.
func New(d decimal.Decimal) (Amount, error) {
	if d.IsNegative() {
		return Amount{}, apierror.Validation("monetary value cannot be negative")
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return Amount{}, apierror.Validation("monetary value cannot have more than two decimal places")
	}
	return Amount{d: d}, nil
}

// FromString parses s ("12.50") into an Amount.
func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, apierror.Validation("invalid monetary value: " + s)
	}
	return New(d)
}

// MustFromString is for constants and tests; panics on invalid input.
func MustFromString(s string) Amount {
	a, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

func Zero() Amount { return Amount{d: decimal.Zero} }

// Decimal returns the underlying exact decimal.
func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

// Sub returns a signed decimal: differences (surplus/shortage) may be
// negative and are therefore not Amounts themselves.
func (a Amount) Sub(b Amount) decimal.Decimal { return a.d.Sub(b.d) }

func (a Amount) MulInt(n int64) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(n))}
}

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }
func (a Amount) IsZero() bool        { return a.d.IsZero() }
func (a Amount) String() string      { return a.d.StringFixed(2) }

func (a Amount) MarshalJSON() ([]byte, error) { return a.d.MarshalJSON() }
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := New(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
