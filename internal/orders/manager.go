// Package orders validates and submits orders, retrying transient broker
// failures with exponential backoff.
package orders

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/eddiefleurent/optioneer/internal/broker"
	"github.com/eddiefleurent/optioneer/internal/models"
	"github.com/eddiefleurent/optioneer/internal/strategy"
)

// Order statuses reported by the manager.
const (
	StatusSubmitted          = "submitted"
	StatusSimulated          = "simulated"
	StatusValidationFailed   = "validation_failed"
	StatusMaxRetriesExceeded = "max_retries_exceeded"
)

// Config contains configuration for the order manager.
type Config struct {
	MaxRetries int
	DryRun     bool
}

// DefaultConfig is the default configuration for the order manager.
var DefaultConfig = Config{
	MaxRetries: 3,
}

// Terminal rejection markers. A broker error containing any of these is not
// worth retrying.
var nonRetryableMarkers = []string{
	"insufficient",
	"invalid strike",
	"invalid symbol",
	"not found",
	"unauthorized",
	"forbidden",
	"rejected",
}

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Manager submits orders through a broker with validation, dry-run support,
// and bounded retries.
type Manager struct {
	broker broker.Broker
	logger *log.Logger
	cfg    Config

	// sleep and now are swapped out in tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// NewManager creates an order manager. A nil logger falls back to the
// default logger; zero-valued config fields take their defaults.
func NewManager(b broker.Broker, logger *log.Logger, config ...Config) *Manager {
	cfg := DefaultConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig.MaxRetries
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		broker: b,
		logger: logger,
		cfg:    cfg,
		sleep:  time.Sleep,
		now:    time.Now,
	}
}

// ValidateOrder checks a spread order before submission.
func (m *Manager) ValidateOrder(order broker.SpreadOrder) error {
	if order.Symbol == "" {
		return &strategy.ValidationError{Reason: "Symbol cannot be empty"}
	}
	if !symbolPattern.MatchString(order.Symbol) {
		return &strategy.ValidationError{Reason: fmt.Sprintf("Symbol %q must be uppercase", order.Symbol)}
	}
	if order.ShortStrike <= 0 {
		return &strategy.ValidationError{Reason: "Short strike must be positive"}
	}
	if order.ShortStrike <= order.LongStrike {
		return &strategy.ValidationError{Reason: fmt.Sprintf(
			"Short strike (%.2f) must be higher than long strike (%.2f) for put credit spread",
			order.ShortStrike, order.LongStrike)}
	}
	if order.Quantity <= 0 {
		return &strategy.ValidationError{Reason: "Quantity must be positive"}
	}
	today := m.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	if order.Expiration.Before(today) {
		return &strategy.ValidationError{Reason: fmt.Sprintf(
			"Expiration date (%s) must be in the future", order.Expiration.Format("2006-01-02"))}
	}
	return nil
}

// SubmitWithRetry validates and submits the order. Transient failures are
// retried up to MaxRetries attempts with exponential backoff; terminal
// rejections return immediately. In dry-run mode no broker call is made.
func (m *Manager) SubmitWithRetry(order broker.SpreadOrder) *broker.OrderResult {
	if err := m.ValidateOrder(order); err != nil {
		m.logger.Printf("Order validation failed for %s: %v", order.Symbol, err)
		return &broker.OrderResult{
			Success:      false,
			Status:       StatusValidationFailed,
			ErrorMessage: err.Error(),
		}
	}

	if m.cfg.DryRun {
		orderID := fmt.Sprintf("DRY-RUN-%s-%s", order.Symbol, m.now().Format("20060102150405"))
		m.logger.Printf("Dry run: would submit %s spread %0.2f/%0.2f x%d exp %s",
			order.Symbol, order.ShortStrike, order.LongStrike, order.Quantity,
			order.Expiration.Format("2006-01-02"))
		return &broker.OrderResult{
			Success: true,
			OrderID: orderID,
			Status:  StatusSimulated,
		}
	}

	var lastError string
	for attempt := 1; attempt <= m.cfg.MaxRetries; attempt++ {
		result, err := m.broker.SubmitSpreadOrder(order)
		if err == nil && result != nil && result.Success {
			m.logger.Printf("Order submitted for %s: %s (attempt %d)", order.Symbol, result.OrderID, attempt)
			if result.Status == "" {
				result.Status = StatusSubmitted
			}
			return result
		}

		if err != nil {
			lastError = err.Error()
		} else if result != nil {
			lastError = result.ErrorMessage
		} else {
			lastError = "no result returned"
		}

		if !IsRetryable(lastError) {
			m.logger.Printf("Order rejected for %s, not retrying: %s", order.Symbol, lastError)
			if result != nil && err == nil {
				return result
			}
			return &broker.OrderResult{Success: false, ErrorMessage: lastError}
		}

		if attempt < m.cfg.MaxRetries {
			delay := backoffDelay(attempt)
			m.logger.Printf("Order attempt %d/%d for %s failed: %s (retrying in %s)",
				attempt, m.cfg.MaxRetries, order.Symbol, lastError, delay)
			m.sleep(delay)
		}
	}

	return &broker.OrderResult{
		Success: false,
		Status:  StatusMaxRetriesExceeded,
		ErrorMessage: fmt.Sprintf("Failed after %d attempts. Last error: %s",
			m.cfg.MaxRetries, lastError),
	}
}

// SubmitSpread wraps SubmitWithRetry into a TradeResult for cycle reporting.
func (m *Manager) SubmitSpread(params *strategy.SpreadParameters, symbol string) models.TradeResult {
	order := broker.SpreadOrder{
		Symbol:      symbol,
		ShortStrike: params.ShortStrike,
		LongStrike:  params.LongStrike,
		Expiration:  params.Expiration,
		Quantity:    params.Quantity,
	}
	result := m.SubmitWithRetry(order)
	return models.TradeResult{
		Symbol:       symbol,
		Success:      result.Success,
		OrderID:      result.OrderID,
		ShortStrike:  params.ShortStrike,
		LongStrike:   params.LongStrike,
		Expiration:   params.Expiration,
		Quantity:     params.Quantity,
		ErrorMessage: result.ErrorMessage,
		Timestamp:    m.now(),
	}
}

// IsRetryable classifies a broker error message. Unknown or empty messages
// are assumed transient.
func IsRetryable(errMsg string) bool {
	if errMsg == "" {
		return true
	}
	lower := strings.ToLower(errMsg)
	for _, marker := range nonRetryableMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// backoffDelay doubles the wait for each failed attempt: 1s, 2s, 4s, ...
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}
