package papertrade

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQuery(t *testing.T) {
	m := newTestMarket(t)
	l := newTestLedger(t)
	if _, err := l.Buy(m, "TCS", 10); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Buy(m, "INFY", 2); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		path string
		want any
	}{
		{"$.currency", "INR"},
		{"$.cash", json.Number("62100")},
		{"$.holdings.TCS.quantity", json.Number("10")},
		{"$.holdings.INFY.averageCost", json.Number("1450")},
		{"$.trades[1].instrument", "INFY"},
		{"$.trades[*].side", []any{"BUY", "BUY"}},
		{"$.snapshots[0].cash", json.Number("100000")},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			got, err := Query(l, tc.path)
			if err != nil {
				t.Fatalf("Query(%q) unexpected error: %v", tc.path, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Query(%q) mismatch (-want +got):\n%s", tc.path, diff)
			}
		})
	}

	if _, err := Query(l, "$.holdings[?"); err == nil {
		t.Errorf("Query() with an invalid path succeeded, want an error")
	}
}

func TestQuery_ExactDecimals(t *testing.T) {
	m := newTestMarket(t)
	l := newTestLedger(t)
	if _, err := l.Buy(m, "TCS", 10); err != nil {
		t.Fatal(err)
	}
	setPrice(t, m, "TCS", 3512.33)
	if _, err := l.Buy(m, "TCS", 3); err != nil {
		t.Fatal(err)
	}
	h, ok := l.Holding("TCS")
	if !ok {
		t.Fatal("no TCS holding")
	}
	got, err := Query(l, "$.holdings.TCS.averageCost")
	if err != nil {
		t.Fatal(err)
	}
	if want := json.Number(h.AverageCost.Decimal().String()); got != want {
		t.Errorf("Query() = %v, want %v", got, want)
	}
}
