package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/simeonreusch/planobs/config"
	coremetrics "github.com/simeonreusch/planobs/core/metrics"
	"github.com/simeonreusch/planobs/infra/logger"
	"github.com/simeonreusch/planobs/infra/metrics"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "planobs",
	Short: "Observation planning for transient follow-up with ZTF",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configured file, falling back to defaults when no
// file is given.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			return config.Load("config.yaml")
		}
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

// buildSink assembles the configured metrics sinks, mirroring the service
// wiring: none, one, or a fan-out of several.
func buildSink(cfg *config.Config, log logger.Logger) coremetrics.Sink {
	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			log.Errorf("prom sink: %v", err)
		} else {
			sinks = append(sinks, sink)
			go func() {
				if err := metrics.StartPromServer(cfg.Metrics.PrometheusPort); err != nil {
					log.Errorf("prom server: %v", err)
				}
			}()
		}
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics.Influx))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}
	case 1:
		return sinks[0]
	default:
		return coremetrics.NewMultiSink(sinks...)
	}
}
