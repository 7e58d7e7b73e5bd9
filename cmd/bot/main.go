package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/eddiefleurent/optioneer/internal/bot"
	"github.com/eddiefleurent/optioneer/internal/broker"
	"github.com/eddiefleurent/optioneer/internal/config"
	"github.com/eddiefleurent/optioneer/internal/dashboard"
	"github.com/eddiefleurent/optioneer/internal/mock"
)

// simSeedPrice is the starting quote for every simulated symbol.
const simSeedPrice = 100.0

func main() {
	var (
		configPath string
		dryRun     bool
		once       bool
	)
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate and log orders without submitting them")
	flag.BoolVar(&once, "once", false, "Run a single trading cycle and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dryRun {
		cfg.Strategy.DryRun = true
	}

	logger := newLogger(cfg)
	logger.Printf("Starting optioneer in %s mode", cfg.Environment.Mode)
	if cfg.IsPaperTrading() {
		logger.Println("PAPER TRADING MODE - No real money at risk")
	}

	br := buildBroker(cfg, logger)

	engine := bot.New(cfg, br, logger)
	if err := engine.Initialize(); err != nil {
		logger.Fatalf("Failed to initialize bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once {
		summary, err := engine.ExecuteCycle()
		if err != nil {
			logger.Fatalf("Trading cycle failed: %v", err)
		}
		if summary.Failed > 0 {
			os.Exit(1)
		}
		return
	}

	g, ctx := errgroup.WithContext(ctx)

	var dash *dashboard.Server
	if cfg.Dashboard.Enabled {
		dash = dashboard.NewServer(dashboard.Config{
			Port:      cfg.Dashboard.Port,
			AuthToken: cfg.Dashboard.AuthToken,
		}, newDashboardLogger(cfg))
		g.Go(dash.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return dash.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		runCycle := func() {
			summary, err := engine.ExecuteCycle()
			if err != nil {
				logger.Printf("ERROR: trading cycle failed: %v", err)
				return
			}
			if dash != nil {
				dash.SetSummary(summary)
			}
		}

		ticker := time.NewTicker(cfg.GetCycleInterval())
		defer ticker.Stop()

		runCycle()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				runCycle()
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("Shutdown error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// newLogger builds the engine logger, teeing to a rotated file when one is
// configured.
func newLogger(cfg *config.Config) *log.Logger {
	var out io.Writer = os.Stdout
	if cfg.Logging.FilePath != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Logging.FilePath,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAgeDays,
			Compress:   true,
		})
	}
	return log.New(out, "[BOT] ", log.LstdFlags)
}

func newDashboardLogger(cfg *config.Config) *logrus.Logger {
	l := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Environment.LogLevel); err == nil {
		l.SetLevel(level)
	}
	return l
}

// buildBroker wires the simulated brokerage behind a circuit breaker. The
// simulator seeds every configured symbol with the same starting quote and
// drifts from there.
func buildBroker(cfg *config.Config, logger *log.Logger) broker.Broker {
	prices := make(map[string]float64, len(cfg.Strategy.Symbols))
	for _, symbol := range cfg.Strategy.Symbols {
		prices[symbol] = simSeedPrice
	}
	sim := mock.NewSimulator(prices)
	sim.EnableJitter()
	return broker.NewCircuitBreakerBroker(sim, logger)
}
