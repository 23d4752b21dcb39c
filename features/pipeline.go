package features

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/frame"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
	"github.com/YuminosukeSato/aqforecast/pkg/log"
)

// Result is the table produced by one pipeline invocation.
type Result struct {
	// Frame holds the feature columns followed, in training mode, by the target
	// columns. Rows are in time order.
	Frame *frame.Frame
	// Features is the FeaturesFor layout of Target.
	Features []string
	// Targets names the target columns; empty in inference mode.
	Targets []string
	// Observed is the target pollutant's own (filled) value at each row. It is not
	// a feature; it serves as the persistence baseline.
	Observed []float64

	Target   airquality.Pollutant
	Horizons []int
	Mode     airquality.Mode
}

// Len returns the number of rows.
func (r *Result) Len() int {
	return r.Frame.Len()
}

// FeatureMatrix returns the rows × len(Features) model input.
func (r *Result) FeatureMatrix() (*mat.Dense, error) {
	return r.Frame.Matrix(r.Features)
}

// TargetVector returns the target column for horizon h.
func (r *Result) TargetVector(h int) (*mat.VecDense, error) {
	if r.Mode != airquality.ModeTraining {
		return nil, errors.NewValueError("Result.TargetVector", "inference results carry no targets")
	}
	return r.Frame.Vector(airquality.TargetColumn(h))
}

// Pipeline runs Load, Build, GenerateTargets and the row policy for one Config.
// It holds no state between runs and is safe for concurrent use.
type Pipeline struct {
	cfg     airquality.Config
	builder *Builder
	logger  log.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger. The default is log.GetLogger().
func WithLogger(l log.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithBuilder replaces the default Builder.
func WithBuilder(b *Builder) PipelineOption {
	return func(p *Pipeline) {
		if b != nil {
			p.builder = b
		}
	}
}

// NewPipeline validates cfg and creates a Pipeline. A Config not built with
// airquality.NewConfig is rejected with a ConfigError.
func NewPipeline(cfg airquality.Config, opts ...PipelineOption) (*Pipeline, error) {
	if !cfg.Valid() {
		if _, err := airquality.ParsePollutant(string(cfg.Target())); err != nil {
			return nil, err
		}
		return nil, errors.NewConfigError("config", "use airquality.NewConfig", cfg.Target())
	}
	p := &Pipeline{
		cfg:     cfg,
		builder: NewBuilder(),
		logger:  log.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(log.ComponentKey, "features")
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() airquality.Config {
	return p.cfg
}

// Run executes the variant selected by the configured mode.
func (p *Pipeline) Run(obs []airquality.Observation) (*Result, error) {
	if p.cfg.Mode() == airquality.ModeInference {
		return p.RunInference(obs)
	}
	return p.RunTraining(obs)
}

// RunTraining builds full-window features and horizon targets, then drops every
// row with an undefined feature or target. Short history shrinks the table; an
// empty table is returned with an InsufficientHistoryWarning, not an error.
func (p *Pipeline) RunTraining(obs []airquality.Observation) (*Result, error) {
	cfg, err := p.cfg.With(airquality.WithMode(airquality.ModeTraining))
	if err != nil {
		return nil, err
	}
	return p.run(obs, cfg)
}

// RunInference builds features over partial windows, creates no targets and
// fills remaining gaps backward then forward, so every input row, including the
// latest, is kept.
func (p *Pipeline) RunInference(obs []airquality.Observation) (*Result, error) {
	cfg, err := p.cfg.With(airquality.WithMode(airquality.ModeInference))
	if err != nil {
		return nil, err
	}
	return p.run(obs, cfg)
}

func (p *Pipeline) run(obs []airquality.Observation, cfg airquality.Config) (res *Result, err error) {
	defer errors.Recover(&err, "Pipeline.Run")

	start := time.Now()
	target := cfg.Target()
	logger := p.logger.With(
		log.RunIDKey, uuid.NewString(),
		log.TargetKey, string(target),
		log.ModeKey, cfg.Mode().String(),
	)

	featureCols, err := FeaturesFor(target)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, errors.NewModelError("Pipeline.Run", "no observations", errors.ErrEmptyData)
	}

	loaded := Load(obs)
	if orderErr := CheckOrder(loaded); orderErr != nil {
		logger.Warn("Observation timestamps are not strictly increasing", log.ErrAttrKey, orderErr.Error())
	}
	logger.Debug("Pipeline stage reached", log.StageKey, log.StageLoaded, log.RowsInKey, loaded.Len())

	built, err := p.builder.Build(loaded, cfg)
	if err != nil {
		return nil, err
	}
	required := append(append([]string(nil), featureCols...), string(target))
	if missing := built.Missing(required); len(missing) > 0 {
		return nil, errors.NewMissingFeatureError("Pipeline.Run", missing)
	}
	logger.Debug("Pipeline stage reached", log.StageKey, log.StageBuilt, log.FeaturesKey, len(featureCols))

	res = &Result{
		Features: featureCols,
		Target:   target,
		Horizons: cfg.Horizons(),
		Mode:     cfg.Mode(),
	}
	if cfg.Mode() == airquality.ModeTraining {
		err = p.finishTraining(built, cfg, res, logger)
	} else {
		err = p.finishInference(built, res, logger)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Pipeline stage reached",
		log.StageKey, log.StageCompleted,
		log.RowsOutKey, res.Len(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Pipeline) finishTraining(built *frame.Frame, cfg airquality.Config, res *Result, logger log.Logger) error {
	target := cfg.Target()
	targeted, err := GenerateTargets(built, target, cfg.Horizons())
	if err != nil {
		return err
	}
	res.Targets = TargetColumns(cfg.Horizons())
	logger.Debug("Pipeline stage reached", log.StageKey, log.StageTargeted, log.HorizonsKey, cfg.Horizons())

	required := append(append([]string(nil), res.Features...), res.Targets...)
	table, err := targeted.Select(append(required, string(target))...)
	if err != nil {
		return err
	}
	table = table.DropIncomplete(required...)
	res.Observed, _ = table.Column(string(target))
	table.Drop(string(target))
	res.Frame = table

	if table.Len() == 0 {
		errors.Warn(errors.NewInsufficientHistoryWarning(
			string(target), cfg.Mode().String(), built.Len(),
			airquality.MaxLookback+cfg.MaxHorizon()+1,
			"no complete training rows remain",
		))
	}
	return nil
}

func (p *Pipeline) finishInference(built *frame.Frame, res *Result, logger log.Logger) error {
	target := string(res.Target)
	table, err := built.Select(append(append([]string(nil), res.Features...), target)...)
	if err != nil {
		return err
	}
	for _, col := range res.Features {
		values, _ := table.Column(col)
		if err := table.Set(col, frame.ForwardFill(frame.BackwardFill(values))); err != nil {
			return err
		}
	}
	res.Observed, _ = table.Column(target)
	table.Drop(target)
	res.Frame = table

	if built.Len() < airquality.MaxLookback {
		w := errors.NewInsufficientHistoryWarning(
			target, airquality.ModeInference.String(), built.Len(), airquality.MaxLookback,
			"lag and rolling features are filled from partial history",
		)
		logger.Warn("Short inference history", log.RowsInKey, built.Len())
		errors.Warn(w)
	}
	return nil
}

// RunTargets runs the pipeline once per target concurrently, sharing every other
// setting of the receiver's Config. obs is read-only for all runs. The first
// failure cancels the runs not yet started.
func (p *Pipeline) RunTargets(ctx context.Context, obs []airquality.Observation, targets ...airquality.Pollutant) (map[airquality.Pollutant]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	results := make(map[airquality.Pollutant]*Result, len(targets))

	for _, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg, err := p.cfg.ForTarget(target)
			if err != nil {
				return err
			}
			sub := &Pipeline{cfg: cfg, builder: p.builder, logger: p.logger}
			res, err := sub.Run(obs)
			if err != nil {
				return errors.Wrapf(err, "target %s", target)
			}
			mu.Lock()
			results[target] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
