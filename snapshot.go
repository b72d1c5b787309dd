package papertrade

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"
)

// Snapshot is a point-in-time copy of the cash and holdings of a Ledger.
//
// The holdings map is owned by the snapshot; the Ledger hands out copies.
type Snapshot struct {
	Time     time.Time
	Cash     Money
	Holdings map[string]Holding
}

func newSnapshot(on time.Time, cash Money, holdings map[string]Holding) Snapshot {
	return Snapshot{Time: on, Cash: cash, Holdings: maps.Clone(holdings)}
}

// clone returns a deep copy of the snapshot.
func (s Snapshot) clone() Snapshot {
	s.Holdings = maps.Clone(s.Holdings)
	if s.Holdings == nil {
		s.Holdings = make(map[string]Holding)
	}
	return s
}

// Positions returns an iterator over holdings sorted by instrument.
func (s Snapshot) Positions() iter.Seq[Holding] {
	return sortedHoldings(s.Holdings)
}

// Value returns the snapshot's cash plus its holdings valued at the given
// prices. Unknown instruments count as zero.
func (s Snapshot) Value(prices Prices) Money {
	return valueAt(s.Cash, s.Holdings, prices)
}

// Equal reports whether both snapshots are identical.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Time.Equal(o.Time) && s.Cash.Equal(o.Cash) && sameHoldings(s.Holdings, o.Holdings)
}

// apply returns the snapshot following tx, as Ledger.Buy and Ledger.Sell
// record it.
func (s Snapshot) apply(tx Trade) (Snapshot, error) {
	next := s.clone()
	next.Time = tx.Time
	h, held := next.Holdings[tx.Instrument]
	switch tx.Side {
	case SideBuy:
		cost := tx.Amount()
		if cost.GreaterThan(s.Cash) {
			return Snapshot{}, fmt.Errorf("%w: need %v but have %v", ErrInsufficientFunds, cost, s.Cash)
		}
		if !held {
			h = Holding{Instrument: tx.Instrument, AverageCost: M(0, s.Cash.cur)}
		}
		next.Holdings[tx.Instrument] = h.add(tx.Quantity, tx.Price)
		next.Cash = s.Cash.Sub(cost)
	case SideSell:
		if !held || h.Quantity < tx.Quantity {
			return Snapshot{}, fmt.Errorf("%w: holding %d", ErrInsufficientShares, h.Quantity)
		}
		if h = h.remove(tx.Quantity); h.Quantity == 0 {
			delete(next.Holdings, tx.Instrument)
		} else {
			next.Holdings[tx.Instrument] = h
		}
		next.Cash = s.Cash.Add(tx.Amount())
	default:
		return Snapshot{}, fmt.Errorf("unknown trade side: %q", tx.Side)
	}
	return next, nil
}

func valueAt(cash Money, holdings map[string]Holding, prices Prices) Money {
	total := cash
	for _, h := range holdings {
		if ins, ok := prices.Get(h.Instrument); ok {
			total = total.Add(h.Value(ins.Price))
		}
	}
	return total
}

func sameHoldings(a, b map[string]Holding) bool {
	return maps.EqualFunc(a, b, Holding.Equal)
}

func sortedHoldings(holdings map[string]Holding) iter.Seq[Holding] {
	keys := slices.Sorted(maps.Keys(holdings))
	return func(yield func(Holding) bool) {
		for _, k := range keys {
			if !yield(holdings[k]) {
				return
			}
		}
	}
}
