package broker

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

// flakyBroker fails every call until fixed.
type flakyBroker struct {
	Broker
	failing bool
	calls   int
}

func (f *flakyBroker) GetCurrentPrice(symbol string) (float64, error) {
	f.calls++
	if f.failing {
		return 0, errors.New("backend down")
	}
	return 100, nil
}

func TestCircuitBreakerPassesThrough(t *testing.T) {
	fb := &flakyBroker{}
	cb := NewCircuitBreakerBroker(fb, log.New(&bytes.Buffer{}, "", 0))

	price, err := cb.GetCurrentPrice("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 100 {
		t.Errorf("price = %v, want 100", price)
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	fb := &flakyBroker{failing: true}
	var buf bytes.Buffer
	cb := NewCircuitBreakerBroker(fb, log.New(&buf, "", 0), CircuitBreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.6,
	})

	for i := 0; i < 5; i++ {
		_, _ = cb.GetCurrentPrice("AAPL")
	}

	_, err := cb.GetCurrentPrice("AAPL")
	if err == nil {
		t.Fatal("expected error from open breaker")
	}
	if fb.calls >= 6 {
		t.Errorf("backend saw %d calls, breaker never opened", fb.calls)
	}
	if !strings.Contains(buf.String(), "Circuit breaker") {
		t.Error("expected state change log line")
	}
}

func TestStrikesHelpers(t *testing.T) {
	chain := []OptionContract{
		{Strike: 100, OptionType: OptionTypePut},
		{Strike: 95, OptionType: OptionTypePut},
		{Strike: 100, OptionType: OptionTypeCall},
		{Strike: 105, OptionType: OptionTypeCall},
	}

	strikes := Strikes(chain)
	want := []float64{95, 100, 105}
	if len(strikes) != len(want) {
		t.Fatalf("strikes = %v, want %v", strikes, want)
	}
	for i := range want {
		if strikes[i] != want[i] {
			t.Errorf("strikes[%d] = %v, want %v", i, strikes[i], want[i])
		}
	}

	other := []OptionContract{
		{Strike: 100}, {Strike: 105}, {Strike: 110},
	}
	common := CommonStrikes(chain, other)
	if len(common) != 2 || common[0] != 100 || common[1] != 105 {
		t.Errorf("common = %v, want [100 105]", common)
	}

	opt, ok := GetOptionByStrike(chain, 100.00001, OptionTypeCall)
	if !ok || opt.OptionType != OptionTypeCall {
		t.Errorf("GetOptionByStrike tolerance lookup failed: %+v, %v", opt, ok)
	}
	if _, ok := GetOptionByStrike(chain, 97, OptionTypePut); ok {
		t.Error("expected miss for absent strike")
	}
}
