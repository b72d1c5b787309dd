package papertrade

// Holding is a position in one instrument.
//
// A Holding with a zero quantity has a zero average cost; the Ledger never
// keeps such holdings.
type Holding struct {
	Instrument  string
	Quantity    Quantity
	AverageCost Money // weighted-average cost per share
}

// add returns the holding after buying q shares at price.
func (h Holding) add(q Quantity, price Money) Holding {
	total := h.Quantity + q
	if total == 0 {
		return Holding{Instrument: h.Instrument, AverageCost: M(0, h.AverageCost.cur)}
	}
	cost := h.AverageCost.Mul(h.Quantity).Add(price.Mul(q))
	return Holding{
		Instrument:  h.Instrument,
		Quantity:    total,
		AverageCost: cost.Div(total),
	}
}

// remove returns the holding after selling q shares. The average cost is
// unchanged unless the position is closed.
func (h Holding) remove(q Quantity) Holding {
	h.Quantity -= q
	if h.Quantity == 0 {
		h.AverageCost = M(0, h.AverageCost.cur)
	}
	return h
}

// Cost returns the total cost basis of the holding.
func (h Holding) Cost() Money { return h.AverageCost.Mul(h.Quantity) }

// Value returns the market value of the holding at price.
func (h Holding) Value(price Money) Money { return price.Mul(h.Quantity) }

// Equal reports whether both holdings are identical.
func (h Holding) Equal(o Holding) bool {
	return h.Instrument == o.Instrument && h.Quantity == o.Quantity && h.AverageCost.Equal(o.AverageCost)
}
