package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Logging struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Backend struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"backend"`

	Dashboard dashboardConfig `yaml:"dashboard"`

	MySQL mysqlConfig `yaml:"mysql"`
}

type dashboardConfig struct {
	// CallStatsOwner is "inline" when another renderer on the page owns the
	// call-stats cells.
	CallStatsOwner    string        `yaml:"callstats_owner"`
	ManagerID         int           `yaml:"manager_id"`
	DefaultManagerID  int           `yaml:"default_manager_id"`
	ScorecardTimezone string        `yaml:"scorecard_timezone"`
	Debounce          time.Duration `yaml:"debounce"`
	RangeDelay        time.Duration `yaml:"range_delay"`
	ChartDelay        time.Duration `yaml:"chart_delay"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Server.Addr = ":8870"
	cfg.Logging.Level = "info"
	cfg.Backend.BaseURL = "http://127.0.0.1:5000"
	cfg.Dashboard = dashboardConfig{
		CallStatsOwner:    string(ownerBundle),
		DefaultManagerID:  4,
		ScorecardTimezone: "America/Los_Angeles",
		Debounce:          250 * time.Millisecond,
		RangeDelay:        200 * time.Millisecond,
		ChartDelay:        250 * time.Millisecond,
		SessionTTL:        2 * time.Hour,
		SweepInterval:     time.Minute,
	}
	return cfg
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.Dashboard.DefaultManagerID <= 0 {
		cfg.Dashboard.DefaultManagerID = 4
	}
	return cfg, nil
}
