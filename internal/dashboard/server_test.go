package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eddiefleurent/optioneer/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testSummary() *models.ExecutionSummary {
	return models.NewExecutionSummary(2, []models.TradeResult{
		{Symbol: "AAPL", Success: true, OrderID: "OID-1", Timestamp: time.Now()},
		{Symbol: "MSFT", Success: false, ErrorMessage: "rejected", Timestamp: time.Now()},
	})
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(Config{Port: 0}, testLogger())

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s := NewServer(Config{Port: 0}, testLogger())

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status before any cycle = %d, want 204", rec.Code)
	}

	s.SetSummary(testSummary())

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.ExecutionSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if got.Total != 2 || got.Successful != 1 || got.Failed != 1 {
		t.Errorf("summary = %+v", got)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := NewServer(Config{Port: 0, AuthToken: "sekrit"}, testLogger())
	s.SetSummary(testSummary())

	t.Run("missing token rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("header token accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
		req.Header.Set("X-Auth-Token", "sekrit")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("query token accepted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary?token=sekrit", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
