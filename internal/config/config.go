package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"tradebot/internal/domain"
)

// Config is the full runtime configuration. Percent fields are given in
// percent in the YAML file and normalized to fractions through the accessor
// methods. API credentials come from the environment (or a .env file next to
// the config file), never from YAML.
type Config struct {
	Symbol                string           `yaml:"symbol"`
	QuoteAsset            string           `yaml:"quote_asset"`
	Interval              string           `yaml:"interval"`
	Lookback              int              `yaml:"lookback"`
	BuyMin                float64          `yaml:"buy_min"`
	BuyPrice              float64          `yaml:"buy_price"`
	OrderMarginPct        float64          `yaml:"order_margin_pct"`
	FibonacciTolerancePct float64          `yaml:"fibonacci_tolerance_pct"`
	PercentageToUsePct    float64          `yaml:"percentage_to_use_pct"`
	BalanceSafe           float64          `yaml:"balance_safe"`
	TickInterval          string           `yaml:"tick_interval"`
	EntryCriterion        string           `yaml:"entry_criterion"`
	FeeScale              float64          `yaml:"fee_scale"`
	DatabaseURL           string           `yaml:"database_url"`
	ListenAddr            string           `yaml:"listen_addr"`
	Simulation            SimulationConfig `yaml:"simulation"`

	APIKey             string        `yaml:"-"`
	APISecret          string        `yaml:"-"`
	ParsedTickInterval time.Duration `yaml:"-"`
}

// SimulationConfig replaces live venue reads with fixed values and turns
// order submissions into log lines.
type SimulationConfig struct {
	Enabled bool    `yaml:"enabled"`
	Balance float64 `yaml:"balance"`
	Price   float64 `yaml:"price"`
}

// OrderMargin returns the configured exit margin as a fraction.
func (c *Config) OrderMargin() float64 { return c.OrderMarginPct / 100 }

// FibonacciTolerance returns the support proximity tolerance as a fraction.
func (c *Config) FibonacciTolerance() float64 { return c.FibonacciTolerancePct / 100 }

// PercentageToUse returns the fraction of the balance used per entry.
func (c *Config) PercentageToUse() float64 { return c.PercentageToUsePct / 100 }

// Load reads the YAML config file, merges credentials from the environment
// (loading a .env file from the config file's directory first, if present),
// applies defaults and validates. Validation failures are fatal to startup.
func Load(filename string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(filename), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %v", envPath, err)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %v", err)
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %v", err)
	}

	cfg.APIKey = os.Getenv("BINANCE_API_KEY")
	cfg.APISecret = os.Getenv("BINANCE_API_SECRET")

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	duration, err := time.ParseDuration(cfg.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tick interval: %v", err)
	}
	cfg.ParsedTickInterval = duration

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.QuoteAsset == "" {
		c.QuoteAsset = "BRL"
	}
	if c.Interval == "" {
		c.Interval = "1h"
	}
	if c.Lookback == 0 {
		c.Lookback = 500
	}
	if c.TickInterval == "" {
		c.TickInterval = "30s"
	}
	if c.EntryCriterion == "" {
		c.EntryCriterion = string(domain.CriterionFibonacci)
	}
	if c.FeeScale == 0 {
		// Binance reports commissions as integers; 10 means 0.1% with this
		// divisor. The alternative scale of 100 exists for venues that
		// report basis points times 100. Set explicitly if unsure.
		c.FeeScale = 10000
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
}

func (c *Config) validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("config: symbol is required")
	}
	if c.PercentageToUsePct <= 0 {
		return fmt.Errorf("config: percentage_to_use_pct must be positive")
	}
	if !c.Simulation.Enabled && (c.APIKey == "" || c.APISecret == "") {
		return fmt.Errorf("config: BINANCE_API_KEY and BINANCE_API_SECRET are required outside simulation mode")
	}
	switch domain.EntryCriterion(c.EntryCriterion) {
	case domain.CriterionFibonacci, domain.CriterionSupportResistance:
	default:
		return fmt.Errorf("config: unknown entry_criterion %q", c.EntryCriterion)
	}
	if c.FeeScale != 100 && c.FeeScale != 10000 {
		return fmt.Errorf("config: fee_scale must be 100 or 10000, got %v", c.FeeScale)
	}
	return nil
}
