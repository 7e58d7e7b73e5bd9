package strategy

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSpreadParametersValidate(t *testing.T) {
	today := date(2026, time.August, 25)
	good := SpreadParameters{
		ShortStrike: 95,
		LongStrike:  90,
		SpreadWidth: 5,
		Expiration:  date(2026, time.September, 4),
		Quantity:    1,
	}

	if err := good.Validate(today); err != nil {
		t.Fatalf("valid parameters rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(p *SpreadParameters)
		wantMsg string
	}{
		{
			name:    "non-positive short strike",
			mutate:  func(p *SpreadParameters) { p.ShortStrike = 0 },
			wantMsg: "Short strike must be positive",
		},
		{
			name:    "non-positive long strike",
			mutate:  func(p *SpreadParameters) { p.LongStrike = -1 },
			wantMsg: "Long strike must be positive",
		},
		{
			name:    "inverted strikes",
			mutate:  func(p *SpreadParameters) { p.ShortStrike, p.LongStrike = 90, 95 },
			wantMsg: "must be higher than long strike",
		},
		{
			name:    "width disagrees with strike difference",
			mutate:  func(p *SpreadParameters) { p.SpreadWidth = 10 },
			wantMsg: "does not match strike difference",
		},
		{
			name:    "past expiration",
			mutate:  func(p *SpreadParameters) { p.Expiration = date(2026, time.August, 21) },
			wantMsg: "must be in the future",
		},
		{
			name:    "non-positive quantity",
			mutate:  func(p *SpreadParameters) { p.Quantity = 0 },
			wantMsg: "Quantity must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := good
			tt.mutate(&p)
			err := p.Validate(today)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

// Expiring today is allowed; only strictly past dates are rejected.
func TestSpreadParametersValidateSameDayExpiration(t *testing.T) {
	today := date(2026, time.August, 28)
	p := SpreadParameters{
		ShortStrike: 95,
		LongStrike:  90,
		SpreadWidth: 5,
		Expiration:  today,
		Quantity:    1,
	}
	if err := p.Validate(today); err != nil {
		t.Errorf("same-day expiration rejected: %v", err)
	}
}
