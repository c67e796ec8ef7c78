package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/simeonreusch/planobs/infra/metrics"
	"github.com/simeonreusch/planobs/infra/queue"
)

type Config struct {
	Plan    PlanConfig    `json:"plan"`
	Site    SiteConfig    `json:"site"`
	Queue   queue.Config  `json:"queue"`
	Metrics MetricsConfig `json:"metrics"`
}

// Load reads the configuration file and applies PLANOBS_-prefixed
// environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("PLANOBS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "planobs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Plan.SetDefaults()
	cfg.Site.SetDefaults()
	cfg.Queue.SetDefaults()
	if err := cfg.Plan.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Plan.SetDefaults()
	cfg.Site.SetDefaults()
	cfg.Queue.SetDefaults()
	return cfg
}

// MetricsConfig selects the metrics sinks to enable.
type MetricsConfig struct {
	PrometheusEnabled bool                 `json:"prometheus_enabled"`
	PrometheusPort    int                  `json:"prometheus_port"`
	InfluxEnabled     bool                 `json:"influx_enabled"`
	Influx            metrics.InfluxConfig `json:"influx"`
}
