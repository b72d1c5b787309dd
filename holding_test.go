package papertrade

import (
	"testing"
)

func TestHolding_Add(t *testing.T) {
	tests := []struct {
		name  string
		start Holding
		q     Quantity
		price Money
		want  Holding
	}{
		{
			name:  "opening",
			start: Holding{Instrument: "TCS", AverageCost: INR(0)},
			q:     10,
			price: INR(3500),
			want:  Holding{Instrument: "TCS", Quantity: 10, AverageCost: INR(3500)},
		},
		{
			name:  "same weight",
			start: Holding{Instrument: "TCS", Quantity: 10, AverageCost: INR(3500)},
			q:     10,
			price: INR(3600),
			want:  Holding{Instrument: "TCS", Quantity: 20, AverageCost: INR(3550)},
		},
		{
			name:  "weighted",
			start: Holding{Instrument: "INFY", Quantity: 3, AverageCost: INR(1000)},
			q:     1,
			price: INR(2000),
			want:  Holding{Instrument: "INFY", Quantity: 4, AverageCost: INR(1250)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.add(tt.q, tt.price)
			if !got.Equal(tt.want) {
				t.Errorf("add(%d, %v) = %+v, want %+v", tt.q, tt.price, got, tt.want)
			}
		})
	}
}

func TestHolding_AverageCostBounds(t *testing.T) {
	h := Holding{Instrument: "TCS", AverageCost: INR(0)}
	h = h.add(7, INR(3500.10))
	h = h.add(3, INR(3612.35))
	if h.AverageCost.LessThan(INR(3500.10)) || h.AverageCost.GreaterThan(INR(3612.35)) {
		t.Errorf("average cost %v is not between the two prices", h.AverageCost)
	}
}

func TestHolding_Remove(t *testing.T) {
	h := Holding{Instrument: "TCS", Quantity: 20, AverageCost: INR(3550)}

	partial := h.remove(5)
	if want := (Holding{Instrument: "TCS", Quantity: 15, AverageCost: INR(3550)}); !partial.Equal(want) {
		t.Errorf("remove(5) = %+v, want %+v", partial, want)
	}

	closed := h.remove(20)
	if closed.Quantity != 0 || !closed.AverageCost.IsZero() {
		t.Errorf("remove(20) = %+v, want an empty holding", closed)
	}
	if closed.AverageCost.Currency() != "INR" {
		t.Errorf("remove(20) lost the currency: %q", closed.AverageCost.Currency())
	}
}

func TestHolding_CostAndValue(t *testing.T) {
	h := Holding{Instrument: "TCS", Quantity: 4, AverageCost: INR(3500)}
	if got, want := h.Cost(), INR(14000); !got.Equal(want) {
		t.Errorf("Cost() = %v, want %v", got, want)
	}
	if got, want := h.Value(INR(3700)), INR(14800); !got.Equal(want) {
		t.Errorf("Value() = %v, want %v", got, want)
	}
}
