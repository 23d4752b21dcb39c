// Package log defines standard attribute keys for pipeline and model operations.
//
// Keys follow a hierarchical naming convention (e.g. "pipeline.target",
// "data.samples") so log records can be filtered consistently.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of regressor.
	// Examples: "LinearRegression", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	// Examples: "features", "forecast", "cli"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"

	// RunIDKey carries a unique identifier per pipeline invocation.
	RunIDKey = "run.id"
)

// Pipeline Context
const (
	// TargetKey is the pollutant being forecast.
	TargetKey = "pipeline.target"

	// ModeKey is the pipeline variant: "training" or "inference".
	ModeKey = "pipeline.mode"

	// StageKey is the state reached by the pipeline state machine.
	// Values: "loaded", "built", "targeted", "completed"
	StageKey = "pipeline.stage"

	// HorizonsKey lists the configured forecast horizons in hours.
	HorizonsKey = "pipeline.horizons"

	// HorizonKey is a single forecast horizon in hours.
	HorizonKey = "pipeline.horizon"

	// RowsInKey is the number of observations handed to the pipeline.
	RowsInKey = "pipeline.rows_in"

	// RowsOutKey is the number of rows in the returned table.
	RowsOutKey = "pipeline.rows_out"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// MAEKey records mean absolute error on the evaluation split.
	MAEKey = "metrics.mae"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// SkillKey records the skill score against the persistence baseline, in percent.
	SkillKey = "metrics.skill"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	StageLoaded    = "loaded"
	StageBuilt     = "built"
	StageTargeted  = "targeted"
	StageCompleted = "completed"
)
