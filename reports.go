package papertrade

import "time"

// PortfolioReport is the state of a ledger valued at current prices.
type PortfolioReport struct {
	Currency   string
	Cash       Money
	Positions  []Position
	TotalValue Money
}

// Position is one holding valued at its current price.
type Position struct {
	Instrument  string
	Name        string
	Quantity    Quantity
	AverageCost Money
	Price       Money // zero when the instrument cannot be priced
	MarketValue Money
	Gain        Money // unrealized, MarketValue minus cost
	Priced      bool
}

// NewPortfolioReport values every holding of l at the given prices.
func NewPortfolioReport(l *Ledger, prices Prices) *PortfolioReport {
	cur := l.Currency()
	r := &PortfolioReport{
		Currency:   cur,
		Cash:       l.Cash(),
		TotalValue: l.TotalValue(prices),
	}
	for h := range l.Holdings() {
		p := Position{
			Instrument:  h.Instrument,
			Quantity:    h.Quantity,
			AverageCost: h.AverageCost,
			Price:       M(0, cur),
			MarketValue: M(0, cur),
		}
		if ins, ok := prices.Get(h.Instrument); ok {
			p.Name = ins.Name
			p.Price = ins.Price.In(cur)
			p.MarketValue = h.Value(p.Price)
			p.Priced = true
		}
		p.Gain = p.MarketValue.Sub(h.Cost())
		r.Positions = append(r.Positions, p)
	}
	return r
}

// HistoryReport lists the snapshots of a ledger.
type HistoryReport struct {
	Currency string
	Entries  []HistoryEntry
}

// HistoryEntry is one snapshot. Value is computed with current prices, not
// the prices at the snapshot time, which are not recorded.
type HistoryEntry struct {
	Time      time.Time
	Cash      Money
	Positions int
	Value     Money
}

// NewHistoryReport values every snapshot of l at the given prices.
func NewHistoryReport(l *Ledger, prices Prices) *HistoryReport {
	r := &HistoryReport{Currency: l.Currency()}
	for _, s := range l.Snapshots() {
		r.Entries = append(r.Entries, HistoryEntry{
			Time:      s.Time,
			Cash:      s.Cash,
			Positions: len(s.Holdings),
			Value:     s.Value(prices),
		})
	}
	return r
}
