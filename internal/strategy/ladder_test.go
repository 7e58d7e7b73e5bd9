package strategy

import (
	"testing"
	"time"
)

func TestLadderedCallAllocation(t *testing.T) {
	strikes := []float64{100, 105, 110}
	tests := []struct {
		name          string
		shares        int
		ratio         float64
		legs          int
		wantContracts []int
	}{
		{
			name:   "even split",
			shares: 1500, ratio: 0.667, legs: 5,
			// int(1500*0.667) = 1000 shares covered, 10 contracts.
			wantContracts: []int{2, 2, 2, 2, 2},
		},
		{
			name:   "remainder goes to last leg",
			shares: 1100, ratio: 1.0, legs: 5,
			wantContracts: []int{2, 2, 2, 2, 3},
		},
		{
			name:   "fewer contracts than legs",
			shares: 300, ratio: 1.0, legs: 5,
			wantContracts: []int{1, 1, 1},
		},
		{
			name:   "single contract",
			shares: 100, ratio: 1.0, legs: 5,
			wantContracts: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewLadderedCallCalculator(LadderedCallConfig{
				CallOffsetPercent: 5,
				ContractRatio:     tt.ratio,
				NumLegs:           tt.legs,
			})
			legs, err := calc.Calculate(100, strikes, tt.shares, tuesday)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(legs) != len(tt.wantContracts) {
				t.Fatalf("got %d legs, want %d", len(legs), len(tt.wantContracts))
			}
			total := 0
			for i, leg := range legs {
				if leg.NumContracts != tt.wantContracts[i] {
					t.Errorf("leg %d contracts = %d, want %d", leg.Leg, leg.NumContracts, tt.wantContracts[i])
				}
				total += leg.NumContracts
			}
			// No contracts may be created or lost by the split.
			if want := calc.TotalContracts(tt.shares); total != want {
				t.Errorf("total contracts = %d, want %d", total, want)
			}
		})
	}
}

func TestLadderedCallExpirations(t *testing.T) {
	calc := NewLadderedCallCalculator(LadderedCallConfig{ContractRatio: 1.0, NumLegs: 3})
	legs, err := calc.Calculate(100, []float64{105, 110}, 300, tuesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(legs) != 3 {
		t.Fatalf("got %d legs, want 3", len(legs))
	}
	prev := time.Time{}
	for _, leg := range legs {
		if leg.Expiration.Weekday() != time.Friday {
			t.Errorf("leg %d expiration %s is not a Friday", leg.Leg, leg.Expiration.Format("2006-01-02"))
		}
		if !leg.Expiration.After(tuesday) {
			t.Errorf("leg %d expiration %s not after start", leg.Leg, leg.Expiration.Format("2006-01-02"))
		}
		if !prev.IsZero() && leg.Expiration.Sub(prev) != 7*24*time.Hour {
			t.Errorf("leg %d not one week after previous", leg.Leg)
		}
		prev = leg.Expiration
	}
}

func TestLadderedCallNoContracts(t *testing.T) {
	calc := NewLadderedCallCalculator(LadderedCallConfig{ContractRatio: 0.667, NumLegs: 5})
	legs, err := calc.Calculate(100, []float64{105}, 50, tuesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(legs) != 0 {
		t.Errorf("got %d legs for 50 shares, want none", len(legs))
	}
}
