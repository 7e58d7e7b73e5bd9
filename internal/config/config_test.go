package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/optioneer/internal/strategy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
environment:
  mode: paper
strategy:
  kind: pcs
  symbols: [AAPL, MSFT]
`

func TestLoadMinimalConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "paper", cfg.Environment.Mode)
	assert.True(t, cfg.IsPaperTrading())
	assert.Equal(t, "sim", cfg.Broker.Provider)
	assert.Equal(t, 3, cfg.Broker.MaxRetries)
	assert.Equal(t, strategy.KindPutCreditSpread, cfg.Strategy.StrategyKind())
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Strategy.Symbols)
}

func TestLoadAppliesStrategyDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.InDelta(t, 5.0, cfg.Strategy.Spread.StrikeOffsetPercent, 1e-9)
	assert.InDelta(t, 5.0, cfg.Strategy.Spread.SpreadWidth, 1e-9)
	assert.Equal(t, 1, cfg.Strategy.Spread.Quantity)
	assert.Equal(t, 1, cfg.Strategy.Spread.ExpirationWeeks)
	assert.Equal(t, 100, cfg.Strategy.Collar.SharesPerSymbol)
	assert.InDelta(t, 0.667, cfg.Strategy.LadderedCall.ContractRatio, 1e-9)
	assert.Equal(t, 5, cfg.Strategy.LadderedCall.NumLegs)
	assert.Equal(t, 100, cfg.Strategy.MarriedPut.SharesToBuy)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"\nbogus_section:\n  x: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("DASH_TOKEN", "sekrit")
	cfg, err := Load(writeConfig(t, minimalConfig+`
dashboard:
  enabled: true
  auth_token: ${DASH_TOKEN}
`))
	require.NoError(t, err)
	assert.Equal(t, "sekrit", cfg.Dashboard.AuthToken)
	assert.Equal(t, 9847, cfg.Dashboard.Port)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name: "bad mode",
			yaml: `
environment:
  mode: production
strategy:
  kind: pcs
  symbols: [AAPL]
`,
			wantMsg: "mode must be paper or live",
		},
		{
			name: "unknown strategy kind",
			yaml: `
strategy:
  kind: nope
  symbols: [AAPL]
`,
			wantMsg: "unknown strategy kind",
		},
		{
			name: "no symbols",
			yaml: `
strategy:
  kind: pcs
  symbols: []
`,
			wantMsg: "symbols must not be empty",
		},
		{
			name: "lowercase symbol",
			yaml: `
strategy:
  kind: pcs
  symbols: [aapl]
`,
			wantMsg: "must be 1-5 uppercase letters",
		},
		{
			name: "offset out of range",
			yaml: `
strategy:
  kind: pcs
  symbols: [AAPL]
  spread:
    strike_offset_percent: 150
`,
			wantMsg: "must be in [0, 100]",
		},
		{
			name: "bad cycle interval",
			yaml: `
schedule:
  cycle_interval: soon
strategy:
  kind: pcs
  symbols: [AAPL]
`,
			wantMsg: "invalid cycle_interval",
		},
		{
			name: "unsupported provider",
			yaml: `
broker:
  provider: tradier
strategy:
  kind: pcs
  symbols: [AAPL]
`,
			wantMsg: "unsupported broker provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGetCycleInterval(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+"\nschedule:\n  cycle_interval: 5m\n"))
	require.NoError(t, err)
	assert.Equal(t, "5m", cfg.Schedule.CycleInterval)
	assert.Equal(t, "5m0s", cfg.GetCycleInterval().String())
}

func TestCalcConfigMapping(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
strategy:
  kind: ic
  symbols: [SPY]
  iron_condor:
    put_offset_percent: 3
    call_offset_percent: 3
    wing_width: 10
    expiration_days: 45
    num_contracts: 2
`))
	require.NoError(t, err)

	ic := cfg.Strategy.IronCondorCalcConfig()
	assert.InDelta(t, 3.0, ic.PutOffsetPercent, 1e-9)
	assert.InDelta(t, 10.0, ic.WingWidth, 1e-9)
	assert.Equal(t, 45, ic.ExpirationDays)
	assert.Equal(t, 2, ic.NumContracts)
}
