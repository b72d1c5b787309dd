package papertrade

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is a number of whole shares.
type Quantity int64

// ParseQuantity parses a base 10 integer quantity.
func ParseQuantity(s string) (Quantity, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Quantity(n), nil
}

func (q Quantity) decimal() decimal.Decimal { return decimal.NewFromInt(int64(q)) }
func (q Quantity) IsPositive() bool         { return q > 0 }
func (q Quantity) String() string           { return strconv.FormatInt(int64(q), 10) }
