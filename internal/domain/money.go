package domain

import (
	"github.com/shopspring/decimal"
)

const moneyScale = 2

// Money is an immutable decimal amount normalized to two fractional digits
type Money struct {
	amount decimal.Decimal
}

// NewMoney normalizes amount to two decimal places, rounding half away from zero
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(moneyScale)}
}

// NewMoneyFromFloat builds Money from the shortest decimal representation of f
func NewMoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// NewMoneyFromString parses a decimal string such as "25.99"
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(d), nil
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

func (m Money) Sub(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// Cmp returns -1, 0 or +1 comparing m to other
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Float64 is a lossy view used for telemetry attributes
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String always renders two fractional digits
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

// MarshalJSON writes the amount as a bare JSON number, e.g. 10.00
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted numeric string
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}
