package papertrade

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger is a trading account: a cash balance, holdings, the log of
// executed trades and the history of snapshots.
//
// Cash and holdings change only through Buy and Sell; every successful
// trade appends one Trade and one Snapshot. A failed trade changes nothing.
//
// It is safe for concurrent use.
type Ledger struct {
	mu        sync.Mutex
	now       func() time.Time
	newID     func() uuid.UUID
	cash      Money
	holdings  map[string]Holding // index holdings by instrument id
	trades    []Trade
	snapshots []Snapshot
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithClock sets the clock used to timestamp trades and snapshots.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// WithIDs sets the generator of trade ids.
func WithIDs(newID func() uuid.UUID) LedgerOption {
	return func(l *Ledger) { l.newID = newID }
}

// NewLedger creates a ledger holding cash and nothing else. The currency of
// cash is the currency of the account. It captures the first snapshot.
func NewLedger(cash Money, opts ...LedgerOption) (*Ledger, error) {
	if cash.IsNegative() {
		return nil, fmt.Errorf("starting cash must not be negative: %v", cash)
	}
	l := newLedger(cash, opts...)
	l.snapshot()
	return l, nil
}

// newLedger creates a ledger without any snapshot.
func newLedger(cash Money, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		now:       time.Now,
		newID:     uuid.New,
		cash:      cash,
		holdings:  make(map[string]Holding),
		trades:    make([]Trade, 0),
		snapshots: make([]Snapshot, 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Currency returns the currency of the account.
func (l *Ledger) Currency() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash.cur
}

// Cash returns the cash balance.
func (l *Ledger) Cash() Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash
}

// Holding returns the holding for an instrument, if any.
func (l *Ledger) Holding(id string) (Holding, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.holdings[NormalizeID(id)]
	return h, ok
}

// Holdings returns an iterator over a copy of the holdings, sorted by instrument.
func (l *Ledger) Holdings() iter.Seq[Holding] {
	l.mu.Lock()
	holdings := maps.Clone(l.holdings)
	l.mu.Unlock()
	return sortedHoldings(holdings)
}

// Trades returns a copy of the trade log in chronological order.
func (l *Ledger) Trades() []Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.trades)
}

// Snapshots returns a copy of the snapshot history in chronological order.
func (l *Ledger) Snapshots() []Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snaps := make([]Snapshot, len(l.snapshots))
	for i, s := range l.snapshots {
		snaps[i] = s.clone()
	}
	return snaps
}

// TotalValue returns the cash plus every holding valued at its current
// price. Holdings whose instrument cannot be priced count as zero.
func (l *Ledger) TotalValue(prices Prices) Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return valueAt(l.cash, l.holdings, prices)
}

// Buy buys q shares of the instrument at its current price.
func (l *Ledger) Buy(prices Prices, id string, q Quantity) (Trade, error) {
	id = NormalizeID(id)
	if !q.IsPositive() {
		return Trade{}, fmt.Errorf("buy %s: %w: %v", id, ErrInvalidQuantity, q)
	}
	ins, ok := prices.Get(id)
	if !ok {
		return Trade{}, fmt.Errorf("buy %s: %w", id, ErrUnknownInstrument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	price := ins.Price.In(l.cash.cur)
	cost := price.Mul(q)
	if cost.GreaterThan(l.cash) {
		return Trade{}, fmt.Errorf("buy %d %s: %w: need %v but have %v", q, id, ErrInsufficientFunds, cost, l.cash)
	}

	h, ok := l.holdings[id]
	if !ok {
		h = Holding{Instrument: id, AverageCost: M(0, l.cash.cur)}
	}
	l.holdings[id] = h.add(q, price)
	l.cash = l.cash.Sub(cost)
	return l.record(SideBuy, id, q, price), nil
}

// Sell sells q held shares of the instrument at its current price.
// Selling the whole position removes the holding and its average cost.
func (l *Ledger) Sell(prices Prices, id string, q Quantity) (Trade, error) {
	id = NormalizeID(id)
	if !q.IsPositive() {
		return Trade{}, fmt.Errorf("sell %s: %w: %v", id, ErrInvalidQuantity, q)
	}
	ins, ok := prices.Get(id)
	if !ok {
		return Trade{}, fmt.Errorf("sell %s: %w", id, ErrUnknownInstrument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := l.holdings[id]
	if !ok || h.Quantity < q {
		return Trade{}, fmt.Errorf("sell %d %s: %w: holding %d", q, id, ErrInsufficientShares, h.Quantity)
	}

	price := ins.Price.In(l.cash.cur)
	if h = h.remove(q); h.Quantity == 0 {
		delete(l.holdings, id)
	} else {
		l.holdings[id] = h
	}
	l.cash = l.cash.Add(price.Mul(q))
	return l.record(SideSell, id, q, price), nil
}

// record appends a trade and a snapshot. l.mu must be held.
func (l *Ledger) record(side Side, id string, q Quantity, price Money) Trade {
	tx := Trade{
		ID:         l.newID(),
		Side:       side,
		Instrument: id,
		Quantity:   q,
		Price:      price,
		Time:       l.now(),
	}
	l.trades = append(l.trades, tx)
	l.snapshots = append(l.snapshots, newSnapshot(tx.Time, l.cash, l.holdings))
	return tx
}

// snapshot captures the current state. Used at creation only.
func (l *Ledger) snapshot() {
	l.snapshots = append(l.snapshots, newSnapshot(l.now(), l.cash, l.holdings))
}
