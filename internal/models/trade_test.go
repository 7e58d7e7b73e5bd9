package models

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

func result(symbol string, success bool, errMsg string) TradeResult {
	return TradeResult{
		Symbol:       symbol,
		Success:      success,
		OrderID:      "OID-1",
		ShortStrike:  95,
		LongStrike:   90,
		Expiration:   time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC),
		Quantity:     1,
		ErrorMessage: errMsg,
		Timestamp:    time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC),
	}
}

func TestNewExecutionSummary(t *testing.T) {
	results := []TradeResult{
		result("AAPL", true, ""),
		result("MSFT", false, "rejected"),
		result("GOOG", true, ""),
	}

	s := NewExecutionSummary(4, results)

	if s.Total != 4 {
		t.Errorf("total = %d, want 4", s.Total)
	}
	if s.Successful != 2 {
		t.Errorf("successful = %d, want 2", s.Successful)
	}
	// Failed counts over the results, not the requested symbols.
	if s.Failed != 1 {
		t.Errorf("failed = %d, want 1", s.Failed)
	}
	if got := s.SuccessRate(); got != 50 {
		t.Errorf("success rate = %v, want 50", got)
	}
	failed := s.FailedSymbols()
	if len(failed) != 1 || failed[0] != "MSFT" {
		t.Errorf("failed symbols = %v, want [MSFT]", failed)
	}
}

// Ladder legs produce several results for one symbol; the failure count
// must never go negative.
func TestNewExecutionSummaryPerLegResults(t *testing.T) {
	legs := []TradeResult{
		result("AAPL_L1", true, ""),
		result("AAPL_L2", true, ""),
		result("AAPL_L3", true, ""),
		result("AAPL_L4", true, ""),
		result("AAPL_L5", true, ""),
	}

	s := NewExecutionSummary(1, legs)

	if s.Total != 1 {
		t.Errorf("total = %d, want 1", s.Total)
	}
	if s.Successful != 5 {
		t.Errorf("successful = %d, want 5", s.Successful)
	}
	if s.Failed != 0 {
		t.Errorf("failed = %d, want 0", s.Failed)
	}
}

func TestExecutionSummaryEmpty(t *testing.T) {
	s := NewExecutionSummary(0, nil)
	if s.SuccessRate() != 0 {
		t.Errorf("success rate = %v, want 0", s.SuccessRate())
	}
	if s.Failed != 0 {
		t.Errorf("failed = %d, want 0", s.Failed)
	}
}

func TestLogReport(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	s := NewExecutionSummary(2, []TradeResult{
		result("AAPL", true, ""),
		result("MSFT", false, "Insufficient buying power"),
	})
	s.LogReport(logger)

	out := buf.String()
	for _, want := range []string{
		"TRADING CYCLE SUMMARY",
		"Total symbols: 2",
		"Successful: 1",
		"Failed: 1",
		"Success rate: 50.0%",
		"DETAILED TRADE RESULTS",
		"✓ AAPL: order OID-1",
		"✗ MSFT: Insufficient buying power",
		"Failed symbols: MSFT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}
