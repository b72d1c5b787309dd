package papertrade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide parses "buy" or "sell", in any case.
func ParseSide(s string) (Side, error) {
	switch Side(NormalizeID(s)) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("unknown trade side: %q", s)
	}
}

// Trade is an executed order. Trades are never modified once recorded.
type Trade struct {
	ID         uuid.UUID
	Side       Side
	Instrument string
	Quantity   Quantity
	Price      Money // per share
	Time       time.Time
}

// Amount returns the cash exchanged by the trade.
func (t Trade) Amount() Money { return t.Price.Mul(t.Quantity) }

func (t Trade) String() string {
	return fmt.Sprintf("[%s] %s %d x %s @ %v", t.Time.Format(time.DateTime), t.Side, t.Quantity, t.Instrument, t.Price)
}

// Equal reports whether both trades are identical.
func (t Trade) Equal(o Trade) bool {
	return t.ID == o.ID &&
		t.Side == o.Side &&
		t.Instrument == o.Instrument &&
		t.Quantity == o.Quantity &&
		t.Price.Equal(o.Price) &&
		t.Time.Equal(o.Time)
}
