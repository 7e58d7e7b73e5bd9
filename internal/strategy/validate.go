package strategy

import (
	"fmt"
	"math"
	"time"
)

// ValidationError reports strategy parameters that fail a sanity check
// before any order is submitted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate sanity-checks the resolved spread against the current date. The
// carried width must agree with the strike difference to within a cent.
func (p *SpreadParameters) Validate(today time.Time) error {
	if p.ShortStrike <= 0 {
		return validationErrorf("Short strike must be positive, got %.2f", p.ShortStrike)
	}
	if p.LongStrike <= 0 {
		return validationErrorf("Long strike must be positive, got %.2f", p.LongStrike)
	}
	if p.ShortStrike <= p.LongStrike {
		return validationErrorf("Short strike (%.2f) must be higher than long strike (%.2f)", p.ShortStrike, p.LongStrike)
	}
	if p.SpreadWidth <= 0 {
		return validationErrorf("Spread width must be positive, got %.2f", p.SpreadWidth)
	}
	if math.Abs((p.ShortStrike-p.LongStrike)-p.SpreadWidth) > 0.01 {
		return validationErrorf("Spread width %.2f does not match strike difference %.2f", p.SpreadWidth, p.ShortStrike-p.LongStrike)
	}
	if midnight(p.Expiration).Before(midnight(today)) {
		return validationErrorf("Expiration date (%s) must be in the future", p.Expiration.Format("2006-01-02"))
	}
	if p.Quantity <= 0 {
		return validationErrorf("Quantity must be positive, got %d", p.Quantity)
	}
	return nil
}
