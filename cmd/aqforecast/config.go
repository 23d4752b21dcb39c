package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// envPrefix namespaces every variable, e.g. AQ_TARGET.
const envPrefix = "AQ"

// Config is the CLI configuration. Values come from the environment (optionally
// seeded by a dotenv file) and are overridden by explicitly set flags.
type Config struct {
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Target         string  `envconfig:"TARGET" default:"pm2_5" validate:"required,oneof=pm2_5 pm10 nitrogen_dioxide ozone"`
	Horizons       []int   `envconfig:"HORIZONS" default:"1,12,24,72,168" validate:"required,min=1,dive,gt=0"`
	WindConvention string  `envconfig:"WIND_CONVENTION" default:"mathematical" validate:"oneof=mathematical compass"`
	TestSize       float64 `envconfig:"TEST_SIZE" default:"0.2" validate:"gt=0,lt=1"`
	RidgeAlpha     float64 `envconfig:"RIDGE_ALPHA" default:"1" validate:"gte=0"`
}

// loadConfig reads envFile if it exists, processes the AQ_* environment and
// applies flag overrides before validating.
func loadConfig(envFile string, flags *cobra.Command) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "loading %s", envFile)
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "processing environment configuration")
	}
	if err := applyFlags(&cfg, flags); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

// applyFlags copies the flags the user actually set over cfg.
func applyFlags(cfg *Config, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}
	flags := cmd.Flags()
	var err error
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = flags.GetString("log-level"); err != nil {
			return err
		}
	}
	if flags.Changed("target") {
		if cfg.Target, err = flags.GetString("target"); err != nil {
			return err
		}
	}
	if flags.Changed("horizons") {
		if cfg.Horizons, err = flags.GetIntSlice("horizons"); err != nil {
			return err
		}
	}
	if flags.Changed("wind") {
		if cfg.WindConvention, err = flags.GetString("wind"); err != nil {
			return err
		}
	}
	if flags.Changed("test-size") {
		if cfg.TestSize, err = flags.GetFloat64("test-size"); err != nil {
			return err
		}
	}
	if flags.Changed("alpha") {
		if cfg.RidgeAlpha, err = flags.GetFloat64("alpha"); err != nil {
			return err
		}
	}
	return nil
}

// Pipeline converts cfg into a pipeline configuration for the given mode.
func (c *Config) Pipeline(mode airquality.Mode) (airquality.Config, error) {
	wind, err := airquality.ParseWindConvention(c.WindConvention)
	if err != nil {
		return airquality.Config{}, err
	}
	return airquality.NewConfig(c.Target,
		airquality.WithHorizons(c.Horizons...),
		airquality.WithMode(mode),
		airquality.WithWindConvention(wind),
	)
}

func (c *Config) String() string {
	return fmt.Sprintf("target=%s horizons=%v wind=%s test_size=%g alpha=%g",
		c.Target, c.Horizons, c.WindConvention, c.TestSize, c.RidgeAlpha)
}
