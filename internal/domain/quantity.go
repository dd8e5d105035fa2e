package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("invalid quantity")

// Quantity is a strictly positive amount of a product. Zero and negative
// values are rejected at construction, so a held Quantity is always usable.
// Fractional quantities are allowed (e.g. 1.5 kg).
type Quantity struct {
	value decimal.Decimal
}

func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.Sign() <= 0 {
		return Quantity{}, fmt.Errorf("%w: %s", ErrInvalidQuantity, value)
	}
	return Quantity{value: value}, nil
}

func (q Quantity) Value() decimal.Decimal { return q.value }

func (q Quantity) Equals(other Quantity) bool {
	return q.value.Equal(other.value)
}

func (q Quantity) String() string { return q.value.String() }

func (q Quantity) MarshalJSON() ([]byte, error) {
	return q.value.MarshalJSON()
}
