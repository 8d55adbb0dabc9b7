package churn

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/handlepool/internal/logger"
)

// Config describes a churn workload.
type Config struct {
	Seed         uint64  `yaml:"seed"`
	Rounds       int     `yaml:"rounds"` // <= 0 runs until the context is cancelled
	Operations   int     `yaml:"operations"`
	InsertRatio  float64 `yaml:"insert_ratio"`
	RecycleRatio float64 `yaml:"recycle_ratio"`
	Capacity     int     `yaml:"capacity"`
	StaleWindow  int     `yaml:"stale_window"` // freed handles kept for probing

	MetricsAddr string        `yaml:"metrics_addr"`
	Log         logger.Config `yaml:"log"`
}

// DefaultConfig returns the workload used when no file or flags are given.
func DefaultConfig() Config {
	return Config{
		Seed:         1,
		Rounds:       1,
		Operations:   100000,
		InsertRatio:  0.5,
		RecycleRatio: 0.05,
		Capacity:     1024,
		StaleWindow:  4096,
		Log:          logger.Config{Level: "info", Encoding: "console"},
	}
}

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read churn config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse churn config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks the workload parameters.
func (c Config) Validate() error {
	switch {
	case c.Operations <= 0:
		return errors.Errorf("operations must be positive, got %d", c.Operations)
	case c.InsertRatio < 0 || c.InsertRatio > 1:
		return errors.Errorf("insert_ratio must be in [0,1], got %g", c.InsertRatio)
	case c.RecycleRatio < 0 || c.InsertRatio+c.RecycleRatio > 1:
		return errors.Errorf("recycle_ratio must be in [0,%g], got %g", 1-c.InsertRatio, c.RecycleRatio)
	case c.StaleWindow < 0:
		return errors.Errorf("stale_window must not be negative, got %d", c.StaleWindow)
	}
	return nil
}
