package strategy

import (
	"errors"
	"testing"
)

var chainStrikes = []float64{85, 90, 92.5, 95, 97.5, 100}

func TestNearestStrikeBelow(t *testing.T) {
	tests := []struct {
		name    string
		target  float64
		want    float64
		wantErr bool
	}{
		{name: "between strikes", target: 96, want: 95},
		{name: "exact strike", target: 95, want: 95},
		{name: "above all strikes", target: 150, want: 100},
		{name: "below all strikes", target: 80, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NearestStrikeBelow(chainStrikes, tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				nsErrCheck(t, err)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NearestStrikeBelow(%v) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func nsErrCheck(t *testing.T, err error) *NoStrikeError {
	t.Helper()
	var nse *NoStrikeError
	if !errors.As(err, &nse) {
		t.Fatalf("expected NoStrikeError, got %T: %v", err, err)
	}
	return nse
}

func TestNearestStrikeAbove(t *testing.T) {
	tests := []struct {
		name    string
		target  float64
		want    float64
		wantErr bool
	}{
		{name: "between strikes", target: 93, want: 95},
		{name: "exact strike", target: 92.5, want: 92.5},
		{name: "below all strikes", target: 50, want: 85},
		{name: "above all strikes", target: 105, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NearestStrikeAbove(chainStrikes, tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				nsErrCheck(t, err)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NearestStrikeAbove(%v) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestNearestStrike(t *testing.T) {
	tests := []struct {
		name    string
		strikes []float64
		target  float64
		want    float64
		wantErr bool
	}{
		{name: "closest wins", strikes: chainStrikes, target: 96, want: 95},
		{name: "exact match", strikes: chainStrikes, target: 97.5, want: 97.5},
		{name: "tie keeps first encountered", strikes: []float64{90, 100}, target: 95, want: 90},
		{name: "empty chain", strikes: nil, target: 95, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NearestStrike(tt.strikes, tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				nsErrCheck(t, err)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NearestStrike(%v) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

// Snapping an already-snapped strike must be a no-op.
func TestSnapIdempotence(t *testing.T) {
	for _, s := range chainStrikes {
		below, err := NearestStrikeBelow(chainStrikes, s)
		if err != nil || below != s {
			t.Errorf("NearestStrikeBelow(%v) = %v, %v; want identity", s, below, err)
		}
		above, err := NearestStrikeAbove(chainStrikes, s)
		if err != nil || above != s {
			t.Errorf("NearestStrikeAbove(%v) = %v, %v; want identity", s, above, err)
		}
		near, err := NearestStrike(chainStrikes, s)
		if err != nil || near != s {
			t.Errorf("NearestStrike(%v) = %v, %v; want identity", s, near, err)
		}
	}
}

func TestNoStrikeErrorMessage(t *testing.T) {
	_, err := NearestStrikeBelow([]float64{90}, 85)
	nse := nsErrCheck(t, err)
	want := "No available strikes at or below target strike $85.00"
	if nse.Error() != want {
		t.Errorf("error = %q, want %q", nse.Error(), want)
	}
}
