package papertrade

import (
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// minPrice is the lowest price Advance can produce.
var minPrice = decimal.NewFromInt(1)

// Instrument is a tradable symbol with its current price.
type Instrument struct {
	ID    string
	Name  string
	Price Money
}

// NormalizeID returns the canonical form of an instrument identifier.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Prices resolves the current price of instruments. Market implements it.
type Prices interface {
	Get(id string) (Instrument, bool)
}

// Market holds the simulated instruments and their current prices.
//
// It is safe for concurrent use.
type Market struct {
	mu          sync.Mutex
	instruments []*Instrument
	index       map[string]*Instrument
	rng         *rand.Rand
}

// MarketOption configures a Market.
type MarketOption func(*Market)

// WithRand sets the random source used by Advance.
func WithRand(r *rand.Rand) MarketOption {
	return func(m *Market) { m.rng = r }
}

// WithSeed makes Advance deterministic.
func WithSeed(seed uint64) MarketOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// NewMarket returns a new empty market.
func NewMarket(opts ...MarketOption) *Market {
	m := &Market{
		instruments: make([]*Instrument, 0),
		index:       make(map[string]*Instrument),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return m
}

// DefaultMarket returns a market seeded with the default universe.
func DefaultMarket(opts ...MarketOption) *Market {
	m := NewMarket(opts...)
	for _, ins := range []Instrument{
		{"TCS", "Tata Consultancy Services", M(3500.00, "")},
		{"INFY", "Infosys", M(1450.00, "")},
		{"RELI", "Reliance Industries", M(2450.00, "")},
		{"HDFC", "HDFC Bank", M(1700.00, "")},
		{"LT", "Larsen & Toubro", M(2200.00, "")},
	} {
		// cannot fail, the universe above is valid.
		if err := m.Add(ins.ID, ins.Name, ins.Price); err != nil {
			panic(err)
		}
	}
	return m
}

// Add declares an instrument, or replaces it when the id already exists.
// The price is rounded to cents.
func (m *Market) Add(id, name string, price Money) error {
	id = NormalizeID(id)
	if id == "" {
		return errors.New("instrument id is missing")
	}
	price = Money{value: price.value.Round(2)}
	if !price.IsPositive() {
		return fmt.Errorf("instrument %q: price must be positive, got %v", id, price)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ins, ok := m.index[id]; ok {
		ins.Name, ins.Price = name, price
		return nil
	}
	ins := &Instrument{ID: id, Name: name, Price: price}
	m.instruments = append(m.instruments, ins)
	m.index[id] = ins
	return nil
}

// Has reports whether the instrument is known. The lookup is case-insensitive.
func (m *Market) Has(id string) bool {
	_, ok := m.Get(id)
	return ok
}

// Get returns a copy of the instrument. The lookup is case-insensitive.
func (m *Market) Get(id string) (Instrument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ins, ok := m.index[NormalizeID(id)]
	if !ok {
		return Instrument{}, false
	}
	return *ins, true
}

// All returns an iterator over copies of the instruments in insertion order.
func (m *Market) All() iter.Seq[Instrument] {
	m.mu.Lock()
	list := make([]Instrument, len(m.instruments))
	for i, ins := range m.instruments {
		list[i] = *ins
	}
	m.mu.Unlock()

	return func(yield func(Instrument) bool) {
		for _, ins := range list {
			if !yield(ins) {
				return
			}
		}
	}
}

// Len returns the number of instruments.
func (m *Market) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instruments)
}

// Advance moves every price by a uniform random relative change in
// [-volatility, +volatility], floors it at 1.00 and rounds it to cents.
//
// volatility is expected in [0, 1], it is not checked.
func (m *Market) Advance(volatility float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	one := decimal.NewFromInt(1)
	for _, ins := range m.instruments {
		change := decimal.NewFromFloat((m.rng.Float64()*2 - 1) * volatility)
		price := ins.Price.value.Mul(one.Add(change))
		if price.LessThan(minPrice) {
			price = minPrice
		}
		ins.Price = Money{value: price.Round(2)}
	}
}
