package models

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// TradeResult records the outcome of one attempted trade for one symbol.
// Failed trades carry the reason in ErrorMessage.
type TradeResult struct {
	Symbol       string    `json:"symbol"`
	Success      bool      `json:"success"`
	OrderID      string    `json:"order_id,omitempty"`
	ShortStrike  float64   `json:"short_strike"`
	LongStrike   float64   `json:"long_strike"`
	Expiration   time.Time `json:"expiration"`
	Quantity     int       `json:"quantity"`
	FilledPrice  float64   `json:"filled_price,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ExecutionSummary aggregates the results of one trading cycle.
type ExecutionSummary struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Results    []TradeResult `json:"results"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// NewExecutionSummary folds trade results into cycle totals. Total reflects
// the number of symbols requested, which differs from the result count when
// symbols are rejected before processing or a strategy emits one result per
// leg, so Failed counts over the results rather than the symbols.
func NewExecutionSummary(totalSymbols int, results []TradeResult) *ExecutionSummary {
	s := &ExecutionSummary{
		Total:   totalSymbols,
		Results: results,
	}
	for _, r := range results {
		if r.Success {
			s.Successful++
		}
	}
	s.Failed = len(results) - s.Successful
	return s
}

// SuccessRate returns the fraction of successful trades as a percentage.
func (s *ExecutionSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total) * 100
}

// FailedSymbols lists the symbols whose trades failed.
func (s *ExecutionSummary) FailedSymbols() []string {
	var failed []string
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r.Symbol)
		}
	}
	return failed
}

const reportSeparator = "============================================================"

// LogReport writes the cycle report to the logger, one line per trade.
func (s *ExecutionSummary) LogReport(logger *log.Logger) {
	logger.Println(reportSeparator)
	logger.Println("TRADING CYCLE SUMMARY")
	logger.Println(reportSeparator)
	logger.Printf("Total symbols: %d", s.Total)
	logger.Printf("Successful: %d", s.Successful)
	logger.Printf("Failed: %d", s.Failed)
	logger.Printf("Success rate: %.1f%%", s.SuccessRate())
	logger.Println("DETAILED TRADE RESULTS")
	for _, r := range s.Results {
		logger.Println(r.ReportLine())
	}
	if failed := s.FailedSymbols(); len(failed) > 0 {
		logger.Printf("Failed symbols: %s", strings.Join(failed, ", "))
	}
	logger.Println(reportSeparator)
}

// ReportLine renders one trade for the cycle report.
func (r *TradeResult) ReportLine() string {
	if r.Success {
		return fmt.Sprintf("✓ %s: order %s, short %.2f, long %.2f, exp %s, qty %d",
			r.Symbol, r.OrderID, r.ShortStrike, r.LongStrike, r.Expiration.Format("2006-01-02"), r.Quantity)
	}
	return fmt.Sprintf("✗ %s: %s", r.Symbol, r.ErrorMessage)
}
