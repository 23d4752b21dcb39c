package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
	"github.com/YuminosukeSato/aqforecast/pkg/log"
)

var (
	envFile string
	cfg     *Config
	logger  log.Logger = log.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "aqforecast",
	Short: "Air-quality multi-horizon feature pipeline and forecaster",
	Long: `aqforecast reads hourly pollutant and weather observations from CSV and
turns them into model-ready feature tables, trains one regressor per forecast
horizon, and forecasts the next hours from the latest observations.

Every setting can also be given as an AQ_* environment variable or in a dotenv
file, e.g. AQ_TARGET=ozone AQ_HORIZONS=1,24.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(envFile, cmd)
		if err != nil {
			return err
		}
		if err := log.SetupLogger(loaded.LogLevel, os.Stderr); err != nil {
			return err
		}
		log.InstallZerologWarnings(os.Stderr)
		cfg = loaded
		logger = log.GetLogger().With(log.ComponentKey, "cli")
		logger.Debug("Configuration loaded", "config", cfg.String())
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file to seed the environment from")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("target", string(airquality.PM25), "pollutant to forecast")
	pf.IntSlice("horizons", airquality.DefaultHorizons(), "forecast horizons in hours")
	pf.String("wind", airquality.WindMathematical.String(), "wind vectorization: mathematical or compass")

	rootCmd.AddCommand(featuresCmd, trainCmd, predictCmd)
}

// readObservations loads a CSV file, or stdin when path is "-".
func readObservations(path string) ([]airquality.Observation, error) {
	if path == "-" {
		return airquality.ReadObservationsCSV(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	obs, err := airquality.ReadObservationsCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return obs, nil
}
