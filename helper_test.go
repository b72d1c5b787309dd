package papertrade

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// INR is a helper for test to create rupee money from const
func INR(v float64) Money { return M(v, "INR") }

// P is a helper for test to create a market price from const
func P(v float64) Money { return M(v, "") }

// stepClock returns a clock starting at 2025-01-02 09:30 UTC that moves one
// minute forward on each call.
func stepClock() func() time.Time {
	next := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

// seqIDs returns a generator of predictable trade ids: ...0001, ...0002, etc.
func seqIDs() func() uuid.UUID {
	var n byte
	return func() uuid.UUID {
		n++
		return uuid.UUID{15: n}
	}
}

// newTestMarket returns a market with TCS and INFY at known prices.
func newTestMarket(t *testing.T) *Market {
	t.Helper()
	m := NewMarket(WithSeed(1))
	if err := m.Add("TCS", "Tata Consultancy Services", P(3500)); err != nil {
		t.Fatal(err)
	}
	if err := m.Add("INFY", "Infosys", P(1450)); err != nil {
		t.Fatal(err)
	}
	return m
}

// newTestLedger returns a deterministic ledger with 100000 INR.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := NewLedger(INR(100000), WithClock(stepClock()), WithIDs(seqIDs()))
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// setPrice changes the market price of an instrument.
func setPrice(t *testing.T, m *Market, id string, price float64) {
	t.Helper()
	ins, ok := m.Get(id)
	if !ok {
		t.Fatalf("unknown instrument %q", id)
	}
	if err := m.Add(id, ins.Name, P(price)); err != nil {
		t.Fatal(err)
	}
}
