// Package config provides configuration management for the trading engine.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/eddiefleurent/optioneer/internal/strategy"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Broker      BrokerConfig      `yaml:"broker"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Strategy    StrategyConfig    `yaml:"strategy"`
	Logging     LoggingConfig     `yaml:"logging"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
}

// EnvironmentConfig defines the environment settings.
type EnvironmentConfig struct {
	Mode     string `yaml:"mode"`      // paper | live
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// BrokerConfig defines broker settings.
type BrokerConfig struct {
	Provider   string `yaml:"provider"` // sim is the only built-in provider
	MaxRetries int    `yaml:"max_retries"`
}

// ScheduleConfig defines when trading cycles run.
type ScheduleConfig struct {
	CycleInterval string `yaml:"cycle_interval"`
	MarketCheck   bool   `yaml:"market_check"`
}

// LoggingConfig defines log output and rotation settings.
type LoggingConfig struct {
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DashboardConfig defines the status dashboard settings.
type DashboardConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// StrategyConfig selects the strategy kind and its parameters. Only the
// section matching Kind is consulted at runtime.
type StrategyConfig struct {
	Kind    string   `yaml:"kind"`
	Symbols []string `yaml:"symbols"`
	DryRun  bool     `yaml:"dry_run"`

	Spread         SpreadConfig         `yaml:"spread"`
	Collar         CollarConfig         `yaml:"collar"`
	CoveredCall    CoveredCallConfig    `yaml:"covered_call"`
	Wheel          WheelConfig          `yaml:"wheel"`
	LadderedCall   LadderedCallConfig   `yaml:"laddered_call"`
	DoubleCalendar DoubleCalendarConfig `yaml:"double_calendar"`
	Butterfly      ButterflyConfig      `yaml:"butterfly"`
	MarriedPut     MarriedPutConfig     `yaml:"married_put"`
	LongStraddle   LongStraddleConfig   `yaml:"long_straddle"`
	IronButterfly  IronButterflyConfig  `yaml:"iron_butterfly"`
	ShortStrangle  ShortStrangleConfig  `yaml:"short_strangle"`
	IronCondor     IronCondorConfig     `yaml:"iron_condor"`
}

// SpreadConfig holds put credit spread settings.
type SpreadConfig struct {
	StrikeOffsetPercent float64 `yaml:"strike_offset_percent"`
	SpreadWidth         float64 `yaml:"spread_width"`
	Quantity            int     `yaml:"quantity"`
	ExpirationWeeks     int     `yaml:"expiration_weeks"`
}

// CollarConfig holds collar settings.
type CollarConfig struct {
	PutOffsetPercent  float64 `yaml:"put_offset_percent"`
	CallOffsetPercent float64 `yaml:"call_offset_percent"`
	PutOffsetDollars  float64 `yaml:"put_offset_dollars"`
	CallOffsetDollars float64 `yaml:"call_offset_dollars"`
	ExpirationDays    int     `yaml:"expiration_days"`
	SharesPerSymbol   int     `yaml:"shares_per_symbol"`
}

// CoveredCallConfig holds covered call settings.
type CoveredCallConfig struct {
	StrikeOffsetPercent float64 `yaml:"strike_offset_percent"`
	StrikeOffsetDollars float64 `yaml:"strike_offset_dollars"`
	ExpirationDays      int     `yaml:"expiration_days"`
}

// WheelConfig holds wheel settings.
type WheelConfig struct {
	PutOffsetPercent  float64 `yaml:"put_offset_percent"`
	CallOffsetPercent float64 `yaml:"call_offset_percent"`
	PutOffsetDollars  float64 `yaml:"put_offset_dollars"`
	CallOffsetDollars float64 `yaml:"call_offset_dollars"`
	ExpirationDays    int     `yaml:"expiration_days"`
}

// LadderedCallConfig holds laddered covered call settings.
type LadderedCallConfig struct {
	CallOffsetPercent float64 `yaml:"call_offset_percent"`
	CallOffsetDollars float64 `yaml:"call_offset_dollars"`
	ContractRatio     float64 `yaml:"contract_ratio"`
	NumLegs           int     `yaml:"num_legs"`
}

// DoubleCalendarConfig holds double calendar settings.
type DoubleCalendarConfig struct {
	PutOffsetPercent    float64 `yaml:"put_offset_percent"`
	CallOffsetPercent   float64 `yaml:"call_offset_percent"`
	ShortExpirationDays int     `yaml:"short_expiration_days"`
	LongExpirationDays  int     `yaml:"long_expiration_days"`
	NumContracts        int     `yaml:"num_contracts"`
}

// ButterflyConfig holds butterfly settings.
type ButterflyConfig struct {
	WingWidth      float64 `yaml:"wing_width"`
	ExpirationDays int     `yaml:"expiration_days"`
	NumContracts   int     `yaml:"num_contracts"`
}

// MarriedPutConfig holds married put settings.
type MarriedPutConfig struct {
	PutOffsetPercent float64 `yaml:"put_offset_percent"`
	PutOffsetDollars float64 `yaml:"put_offset_dollars"`
	ExpirationDays   int     `yaml:"expiration_days"`
	SharesToBuy      int     `yaml:"shares_to_buy"`
}

// LongStraddleConfig holds long straddle settings.
type LongStraddleConfig struct {
	ExpirationDays int `yaml:"expiration_days"`
	NumContracts   int `yaml:"num_contracts"`
}

// IronButterflyConfig holds iron butterfly settings.
type IronButterflyConfig struct {
	WingWidth      float64 `yaml:"wing_width"`
	ExpirationDays int     `yaml:"expiration_days"`
	NumContracts   int     `yaml:"num_contracts"`
}

// ShortStrangleConfig holds short strangle settings.
type ShortStrangleConfig struct {
	PutOffsetPercent  float64 `yaml:"put_offset_percent"`
	CallOffsetPercent float64 `yaml:"call_offset_percent"`
	ExpirationDays    int     `yaml:"expiration_days"`
	NumContracts      int     `yaml:"num_contracts"`
}

// IronCondorConfig holds iron condor settings.
type IronCondorConfig struct {
	PutOffsetPercent  float64 `yaml:"put_offset_percent"`
	CallOffsetPercent float64 `yaml:"call_offset_percent"`
	WingWidth         float64 `yaml:"wing_width"`
	ExpirationDays    int     `yaml:"expiration_days"`
	NumContracts      int     `yaml:"num_contracts"`
}

// Load reads and validates the configuration from a YAML file. Environment
// variable references in the file are expanded before parsing, and unknown
// keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// normalize fills zero-valued settings with their defaults.
func (c *Config) normalize() {
	if c.Environment.Mode == "" {
		c.Environment.Mode = "paper"
	}
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
	if c.Broker.Provider == "" {
		c.Broker.Provider = "sim"
	}
	if c.Broker.MaxRetries == 0 {
		c.Broker.MaxRetries = 3
	}
	if c.Schedule.CycleInterval == "" {
		c.Schedule.CycleInterval = "15m"
	}
	if c.Strategy.Kind == "" {
		c.Strategy.Kind = string(strategy.KindPutCreditSpread)
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 28
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 9847
	}
	c.Strategy.normalize()
}

func (s *StrategyConfig) normalize() {
	if s.Spread.StrikeOffsetPercent == 0 {
		s.Spread.StrikeOffsetPercent = strategy.DefaultSpreadConfig.OffsetPercent
	}
	if s.Spread.SpreadWidth == 0 {
		s.Spread.SpreadWidth = strategy.DefaultSpreadConfig.SpreadWidth
	}
	if s.Spread.Quantity == 0 {
		s.Spread.Quantity = strategy.DefaultSpreadConfig.Quantity
	}
	if s.Spread.ExpirationWeeks == 0 {
		s.Spread.ExpirationWeeks = strategy.DefaultSpreadConfig.ExpirationWeeks
	}
	if s.Collar.SharesPerSymbol == 0 {
		s.Collar.SharesPerSymbol = strategy.DefaultCollarConfig.SharesPerSymbol
	}
	if s.LadderedCall.ContractRatio == 0 {
		s.LadderedCall.ContractRatio = strategy.DefaultLadderedCallConfig.ContractRatio
	}
	if s.LadderedCall.NumLegs == 0 {
		s.LadderedCall.NumLegs = strategy.DefaultLadderedCallConfig.NumLegs
	}
	if s.MarriedPut.SharesToBuy == 0 {
		s.MarriedPut.SharesToBuy = strategy.DefaultMarriedPutConfig.SharesToBuy
	}
}

// Validate checks configuration constraints.
func (c *Config) Validate() error {
	if c.Environment.Mode != "paper" && c.Environment.Mode != "live" {
		return fmt.Errorf("environment mode must be paper or live, got %q", c.Environment.Mode)
	}
	if c.Broker.Provider != "sim" {
		return fmt.Errorf("unsupported broker provider %q", c.Broker.Provider)
	}
	if c.Broker.MaxRetries < 1 {
		return fmt.Errorf("broker max_retries must be at least 1, got %d", c.Broker.MaxRetries)
	}
	if _, err := time.ParseDuration(c.Schedule.CycleInterval); err != nil {
		return fmt.Errorf("invalid cycle_interval %q: %w", c.Schedule.CycleInterval, err)
	}
	if _, err := strategy.ParseKind(c.Strategy.Kind); err != nil {
		return err
	}
	if len(c.Strategy.Symbols) == 0 {
		return fmt.Errorf("strategy symbols must not be empty")
	}
	for _, sym := range c.Strategy.Symbols {
		if !symbolPattern.MatchString(sym) {
			return fmt.Errorf("symbol %q must be 1-5 uppercase letters", sym)
		}
	}
	if err := c.Strategy.validateOffsets(); err != nil {
		return err
	}
	if c.Strategy.Spread.SpreadWidth <= 0 {
		return fmt.Errorf("spread width must be positive, got %.2f", c.Strategy.Spread.SpreadWidth)
	}
	if c.Strategy.Spread.Quantity <= 0 {
		return fmt.Errorf("spread quantity must be a positive integer, got %d", c.Strategy.Spread.Quantity)
	}
	if c.Strategy.Spread.ExpirationWeeks <= 0 {
		return fmt.Errorf("expiration weeks must be positive, got %d", c.Strategy.Spread.ExpirationWeeks)
	}
	if c.Dashboard.Enabled && (c.Dashboard.Port < 1 || c.Dashboard.Port > 65535) {
		return fmt.Errorf("dashboard port must be in 1-65535, got %d", c.Dashboard.Port)
	}
	return nil
}

func (s *StrategyConfig) validateOffsets() error {
	percents := map[string]float64{
		"spread strike_offset_percent":        s.Spread.StrikeOffsetPercent,
		"collar put_offset_percent":           s.Collar.PutOffsetPercent,
		"collar call_offset_percent":          s.Collar.CallOffsetPercent,
		"wheel put_offset_percent":            s.Wheel.PutOffsetPercent,
		"wheel call_offset_percent":           s.Wheel.CallOffsetPercent,
		"short_strangle put_offset_percent":   s.ShortStrangle.PutOffsetPercent,
		"short_strangle call_offset_percent":  s.ShortStrangle.CallOffsetPercent,
		"iron_condor put_offset_percent":      s.IronCondor.PutOffsetPercent,
		"iron_condor call_offset_percent":     s.IronCondor.CallOffsetPercent,
		"double_calendar put_offset_percent":  s.DoubleCalendar.PutOffsetPercent,
		"double_calendar call_offset_percent": s.DoubleCalendar.CallOffsetPercent,
	}
	for name, pct := range percents {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%s must be in [0, 100], got %.2f", name, pct)
		}
	}
	return nil
}

// IsPaperTrading reports whether the engine runs against the simulator.
func (c *Config) IsPaperTrading() bool {
	return c.Environment.Mode == "paper"
}

// GetCycleInterval returns the parsed cycle interval.
func (c *Config) GetCycleInterval() time.Duration {
	d, err := time.ParseDuration(c.Schedule.CycleInterval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// StrategyKind returns the parsed strategy kind. Validation guarantees it
// parses.
func (s *StrategyConfig) StrategyKind() strategy.Kind {
	k, _ := strategy.ParseKind(s.Kind)
	return k
}

// SpreadCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) SpreadCalcConfig() strategy.SpreadConfig {
	return strategy.SpreadConfig{
		OffsetPercent:   s.Spread.StrikeOffsetPercent,
		SpreadWidth:     s.Spread.SpreadWidth,
		Quantity:        s.Spread.Quantity,
		ExpirationWeeks: s.Spread.ExpirationWeeks,
	}
}

// CollarCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) CollarCalcConfig() strategy.CollarConfig {
	return strategy.CollarConfig{
		PutOffsetPercent:  s.Collar.PutOffsetPercent,
		CallOffsetPercent: s.Collar.CallOffsetPercent,
		PutOffsetDollars:  s.Collar.PutOffsetDollars,
		CallOffsetDollars: s.Collar.CallOffsetDollars,
		ExpirationDays:    s.Collar.ExpirationDays,
		SharesPerSymbol:   s.Collar.SharesPerSymbol,
	}
}

// CoveredCallCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) CoveredCallCalcConfig() strategy.CoveredCallConfig {
	return strategy.CoveredCallConfig{
		OffsetPercent:  s.CoveredCall.StrikeOffsetPercent,
		OffsetDollars:  s.CoveredCall.StrikeOffsetDollars,
		ExpirationDays: s.CoveredCall.ExpirationDays,
	}
}

// WheelCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) WheelCalcConfig() strategy.WheelConfig {
	return strategy.WheelConfig{
		PutOffsetPercent:  s.Wheel.PutOffsetPercent,
		CallOffsetPercent: s.Wheel.CallOffsetPercent,
		PutOffsetDollars:  s.Wheel.PutOffsetDollars,
		CallOffsetDollars: s.Wheel.CallOffsetDollars,
		ExpirationDays:    s.Wheel.ExpirationDays,
	}
}

// LadderedCallCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) LadderedCallCalcConfig() strategy.LadderedCallConfig {
	return strategy.LadderedCallConfig{
		CallOffsetPercent: s.LadderedCall.CallOffsetPercent,
		CallOffsetDollars: s.LadderedCall.CallOffsetDollars,
		ContractRatio:     s.LadderedCall.ContractRatio,
		NumLegs:           s.LadderedCall.NumLegs,
	}
}

// DoubleCalendarCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) DoubleCalendarCalcConfig() strategy.DoubleCalendarConfig {
	return strategy.DoubleCalendarConfig{
		PutOffsetPercent:    s.DoubleCalendar.PutOffsetPercent,
		CallOffsetPercent:   s.DoubleCalendar.CallOffsetPercent,
		ShortExpirationDays: s.DoubleCalendar.ShortExpirationDays,
		LongExpirationDays:  s.DoubleCalendar.LongExpirationDays,
		NumContracts:        s.DoubleCalendar.NumContracts,
	}
}

// ButterflyCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) ButterflyCalcConfig() strategy.ButterflyConfig {
	return strategy.ButterflyConfig{
		WingWidth:      s.Butterfly.WingWidth,
		ExpirationDays: s.Butterfly.ExpirationDays,
		NumContracts:   s.Butterfly.NumContracts,
	}
}

// MarriedPutCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) MarriedPutCalcConfig() strategy.MarriedPutConfig {
	return strategy.MarriedPutConfig{
		PutOffsetPercent: s.MarriedPut.PutOffsetPercent,
		PutOffsetDollars: s.MarriedPut.PutOffsetDollars,
		ExpirationDays:   s.MarriedPut.ExpirationDays,
		SharesToBuy:      s.MarriedPut.SharesToBuy,
	}
}

// LongStraddleCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) LongStraddleCalcConfig() strategy.LongStraddleConfig {
	return strategy.LongStraddleConfig{
		ExpirationDays: s.LongStraddle.ExpirationDays,
		NumContracts:   s.LongStraddle.NumContracts,
	}
}

// IronButterflyCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) IronButterflyCalcConfig() strategy.IronButterflyConfig {
	return strategy.IronButterflyConfig{
		WingWidth:      s.IronButterfly.WingWidth,
		ExpirationDays: s.IronButterfly.ExpirationDays,
		NumContracts:   s.IronButterfly.NumContracts,
	}
}

// ShortStrangleCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) ShortStrangleCalcConfig() strategy.ShortStrangleConfig {
	return strategy.ShortStrangleConfig{
		PutOffsetPercent:  s.ShortStrangle.PutOffsetPercent,
		CallOffsetPercent: s.ShortStrangle.CallOffsetPercent,
		ExpirationDays:    s.ShortStrangle.ExpirationDays,
		NumContracts:      s.ShortStrangle.NumContracts,
	}
}

// IronCondorCalcConfig maps the YAML section onto calculator settings.
func (s *StrategyConfig) IronCondorCalcConfig() strategy.IronCondorConfig {
	return strategy.IronCondorConfig{
		PutOffsetPercent:  s.IronCondor.PutOffsetPercent,
		CallOffsetPercent: s.IronCondor.CallOffsetPercent,
		WingWidth:         s.IronCondor.WingWidth,
		ExpirationDays:    s.IronCondor.ExpirationDays,
		NumContracts:      s.IronCondor.NumContracts,
	}
}
