package strategy

import (
	"fmt"
	"math"
)

// Snap direction for strike resolution against an option chain.
const (
	snapBelow = "at or below"
	snapAbove = "at or above"
	snapNear  = "near"
)

// NoStrikeError reports that no listed strike satisfies the requested
// relation to the target price.
type NoStrikeError struct {
	Side   string
	Target float64
}

func (e *NoStrikeError) Error() string {
	return fmt.Sprintf("No available strikes %s target strike $%.2f", e.Side, e.Target)
}

// NearestStrikeBelow returns the highest strike less than or equal to target.
func NearestStrikeBelow(strikes []float64, target float64) (float64, error) {
	found := false
	best := 0.0
	for _, s := range strikes {
		if s <= target && (!found || s > best) {
			best = s
			found = true
		}
	}
	if !found {
		return 0, &NoStrikeError{Side: snapBelow, Target: target}
	}
	return best, nil
}

// NearestStrikeAbove returns the lowest strike greater than or equal to target.
func NearestStrikeAbove(strikes []float64, target float64) (float64, error) {
	found := false
	best := 0.0
	for _, s := range strikes {
		if s >= target && (!found || s < best) {
			best = s
			found = true
		}
	}
	if !found {
		return 0, &NoStrikeError{Side: snapAbove, Target: target}
	}
	return best, nil
}

// NearestStrike returns the strike with the smallest absolute distance to
// target. Ties keep the first strike encountered in the slice.
func NearestStrike(strikes []float64, target float64) (float64, error) {
	if len(strikes) == 0 {
		return 0, &NoStrikeError{Side: snapNear, Target: target}
	}
	best := strikes[0]
	bestDist := math.Abs(strikes[0] - target)
	for _, s := range strikes[1:] {
		if d := math.Abs(s - target); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best, nil
}
