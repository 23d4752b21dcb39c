package airquality

import (
	"sort"

	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// Mode selects the pipeline variant. There is no zero-value default; a Config
// always names its mode explicitly.
type Mode int

const (
	// ModeTraining builds full-window features, horizon targets and drops
	// incomplete rows.
	ModeTraining Mode = iota + 1
	// ModeInference builds partial-window features, no targets, and fills
	// remaining gaps so the latest row survives.
	ModeInference
)

func (m Mode) String() string {
	switch m {
	case ModeTraining:
		return "training"
	case ModeInference:
		return "inference"
	default:
		return "unknown"
	}
}

// ParseMode accepts "training" or "inference".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "training":
		return ModeTraining, nil
	case "inference":
		return ModeInference, nil
	}
	return 0, errors.NewConfigError("mode", "must be training or inference", s)
}

// WindConvention selects how wind direction maps onto the u/v components.
type WindConvention int

const (
	// WindMathematical treats the direction as a mathematical angle:
	// u = speed·cos(θ), v = speed·sin(θ). Models in production were trained on it.
	WindMathematical WindConvention = iota
	// WindCompass treats the direction as a compass bearing:
	// u = speed·sin(θ), v = speed·cos(θ), so 0° (north) is all v.
	WindCompass
)

func (w WindConvention) String() string {
	if w == WindCompass {
		return "compass"
	}
	return "mathematical"
}

// ParseWindConvention accepts "mathematical" or "compass".
func ParseWindConvention(s string) (WindConvention, error) {
	switch s {
	case "mathematical":
		return WindMathematical, nil
	case "compass":
		return WindCompass, nil
	}
	return 0, errors.NewConfigError("wind_convention", "must be mathematical or compass", s)
}

// DefaultHorizons returns the forecast horizons in hours used when none are given.
func DefaultHorizons() []int {
	return []int{1, 12, 24, 72, 168}
}

// Config is the immutable per-invocation pipeline configuration. Build it with
// NewConfig; derive variants with With.
type Config struct {
	target   Pollutant
	horizons []int
	mode     Mode
	wind     WindConvention
}

// Option configures a Config.
type Option func(*Config)

// WithHorizons replaces the horizon set.
func WithHorizons(horizons ...int) Option {
	return func(c *Config) {
		c.horizons = append([]int(nil), horizons...)
	}
}

// WithMode sets the pipeline variant.
func WithMode(m Mode) Option {
	return func(c *Config) {
		c.mode = m
	}
}

// WithWindConvention sets the wind vectorization convention.
func WithWindConvention(w WindConvention) Option {
	return func(c *Config) {
		c.wind = w
	}
}

// NewConfig validates target and options. Defaults: DefaultHorizons, training
// mode, WindMathematical.
func NewConfig(target string, opts ...Option) (Config, error) {
	p, err := ParsePollutant(target)
	if err != nil {
		return Config{}, err
	}
	c := Config{
		target:   p,
		horizons: DefaultHorizons(),
		mode:     ModeTraining,
		wind:     WindMathematical,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	sort.Ints(c.horizons)
	return c, nil
}

// With returns a validated copy of c with opts applied.
func (c Config) With(opts ...Option) (Config, error) {
	return NewConfig(string(c.target), append([]Option{
		WithHorizons(c.horizons...),
		WithMode(c.mode),
		WithWindConvention(c.wind),
	}, opts...)...)
}

// ForTarget returns a validated copy of c forecasting p instead.
func (c Config) ForTarget(p Pollutant) (Config, error) {
	return NewConfig(string(p),
		WithHorizons(c.horizons...),
		WithMode(c.mode),
		WithWindConvention(c.wind),
	)
}

func (c Config) validate() error {
	if c.mode != ModeTraining && c.mode != ModeInference {
		return errors.NewConfigError("mode", "must be training or inference", int(c.mode))
	}
	if c.wind != WindMathematical && c.wind != WindCompass {
		return errors.NewConfigError("wind_convention", "unknown convention", int(c.wind))
	}
	if len(c.horizons) == 0 {
		return errors.NewConfigError("horizons", "at least one horizon is required", c.horizons)
	}
	seen := make(map[int]bool, len(c.horizons))
	for _, h := range c.horizons {
		if h <= 0 {
			return errors.NewConfigError("horizons", "horizons must be positive", h)
		}
		if seen[h] {
			return errors.NewConfigError("horizons", "duplicate horizon", h)
		}
		seen[h] = true
	}
	return nil
}

// Target returns the pollutant being forecast.
func (c Config) Target() Pollutant { return c.target }

// Horizons returns a copy of the horizons, ascending.
func (c Config) Horizons() []int { return append([]int(nil), c.horizons...) }

// MaxHorizon returns the largest configured horizon.
func (c Config) MaxHorizon() int {
	if len(c.horizons) == 0 {
		return 0
	}
	return c.horizons[len(c.horizons)-1]
}

// Mode returns the pipeline variant.
func (c Config) Mode() Mode { return c.mode }

// Wind returns the wind vectorization convention.
func (c Config) Wind() WindConvention { return c.wind }

// Valid reports whether c came out of NewConfig.
func (c Config) Valid() bool {
	return c.target.Valid() && c.validate() == nil
}
