package papertrade

import (
	"testing"
)

func TestNewPortfolioReport(t *testing.T) {
	m := newTestMarket(t)
	l := newTestLedger(t)
	if _, err := l.Buy(m, "TCS", 10); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Buy(m, "INFY", 4); err != nil {
		t.Fatal(err)
	}
	setPrice(t, m, "TCS", 3600)
	setPrice(t, m, "INFY", 1400)

	r := NewPortfolioReport(l, m)
	if r.Currency != "INR" {
		t.Errorf("Currency = %q, want INR", r.Currency)
	}
	if want := INR(59200); !r.Cash.Equal(want) {
		t.Errorf("Cash = %v, want %v", r.Cash, want)
	}
	if want := INR(100800); !r.TotalValue.Equal(want) {
		t.Errorf("TotalValue = %v, want %v", r.TotalValue, want)
	}
	if len(r.Positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(r.Positions))
	}

	testCases := []struct {
		pos       Position
		id        string
		wantValue Money
		wantGain  Money
	}{
		{r.Positions[0], "INFY", INR(5600), INR(-200)},
		{r.Positions[1], "TCS", INR(36000), INR(1000)},
	}
	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			if tc.pos.Instrument != tc.id {
				t.Fatalf("Instrument = %q, want %q", tc.pos.Instrument, tc.id)
			}
			if !tc.pos.Priced {
				t.Errorf("position is not priced")
			}
			if !tc.pos.MarketValue.Equal(tc.wantValue) {
				t.Errorf("MarketValue = %v, want %v", tc.pos.MarketValue, tc.wantValue)
			}
			if !tc.pos.Gain.Equal(tc.wantGain) {
				t.Errorf("Gain = %v, want %v", tc.pos.Gain, tc.wantGain)
			}
		})
	}
}

func TestNewPortfolioReport_Unpriced(t *testing.T) {
	m := newTestMarket(t)
	l := newTestLedger(t)
	if _, err := l.Buy(m, "TCS", 1); err != nil {
		t.Fatal(err)
	}
	r := NewPortfolioReport(l, NewMarket())
	if len(r.Positions) != 1 || r.Positions[0].Priced {
		t.Fatalf("Positions = %+v, want one unpriced position", r.Positions)
	}
	if !r.Positions[0].MarketValue.IsZero() {
		t.Errorf("unpriced MarketValue = %v, want 0", r.Positions[0].MarketValue)
	}
	if !r.TotalValue.Equal(r.Cash) {
		t.Errorf("TotalValue = %v, want the cash %v", r.TotalValue, r.Cash)
	}
}

func TestNewHistoryReport(t *testing.T) {
	m := newTestMarket(t)
	l := newTestLedger(t)
	if _, err := l.Buy(m, "TCS", 10); err != nil {
		t.Fatal(err)
	}
	setPrice(t, m, "TCS", 4000)

	r := NewHistoryReport(l, m)
	if len(r.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(r.Entries))
	}
	if want := INR(100000); !r.Entries[0].Value.Equal(want) {
		t.Errorf("first entry value = %v, want %v", r.Entries[0].Value, want)
	}
	// valued at the current price, not the price of the trade.
	if want := INR(105000); !r.Entries[1].Value.Equal(want) {
		t.Errorf("second entry value = %v, want %v", r.Entries[1].Value, want)
	}
	if r.Entries[1].Positions != 1 {
		t.Errorf("second entry positions = %d, want 1", r.Entries[1].Positions)
	}
	if !r.Entries[0].Time.Before(r.Entries[1].Time) {
		t.Errorf("entries are not in chronological order")
	}
}
