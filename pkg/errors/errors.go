// Package errors provides the error and warning types shared by every aqforecast package.
//
// Errors are created with a stack trace attached (cockroachdb/errors) so that the
// slog handler in pkg/log can emit it next to the message. Warnings are plain error
// values routed through Warn; they never stop a pipeline run.
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("aqforecast-Warning: %v\n", w)
	}
	// set by pkg/log to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the handler used for warnings when no zerolog
// sink is installed.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a structured warning sink. Passing nil restores the
// plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. The zerolog sink wins when installed.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// InsufficientHistoryWarning is raised when the supplied history is shorter than
// the lag/rolling windows or horizons need. The pipeline still returns a table.
type InsufficientHistoryWarning struct {
	Target   string
	Mode     string
	Rows     int
	Required int
	Message  string
}

func (w *InsufficientHistoryWarning) Error() string {
	msg := fmt.Sprintf("%s pipeline for %s received %d rows, %d recommended", w.Mode, w.Target, w.Rows, w.Required)
	if w.Message != "" {
		msg += ": " + w.Message
	}
	return msg
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *InsufficientHistoryWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("target", w.Target).
		Str("mode", w.Mode).
		Int("rows", w.Rows).
		Int("required", w.Required).
		Str("message", w.Message).
		Str("type", "InsufficientHistoryWarning")
}

// NewInsufficientHistoryWarning creates an InsufficientHistoryWarning.
func NewInsufficientHistoryWarning(target, mode string, rows, required int, message string) *InsufficientHistoryWarning {
	return &InsufficientHistoryWarning{Target: target, Mode: mode, Rows: rows, Required: required, Message: message}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// ErrInvalidArgument is the sentinel every ConfigError unwraps to.
var ErrInvalidArgument = errors.New("invalid argument")

// ConfigError reports an invalid pipeline configuration such as an unsupported
// target pollutant. It is always returned before any computation starts.
type ConfigError struct {
	Param  string
	Reason string
	Value  interface{}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("aqforecast: invalid configuration for '%s': %s (got: %v)", e.Param, e.Reason, e.Value)
}

// Unwrap makes errors.Is(err, ErrInvalidArgument) true.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidArgument
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigError")
}

// NewConfigError creates a ConfigError with a stack trace.
func NewConfigError(param, reason string, value interface{}) error {
	return errors.WithStack(&ConfigError{Param: param, Reason: reason, Value: value})
}

// MissingFeatureError is returned when a built table lacks columns a model needs.
type MissingFeatureError struct {
	Op      string
	Missing []string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("aqforecast: %s: missing feature columns [%s]", e.Op, strings.Join(e.Missing, ", "))
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *MissingFeatureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Strs("missing", e.Missing).
		Str("type", "MissingFeatureError")
}

// NewMissingFeatureError creates a MissingFeatureError with a stack trace.
func NewMissingFeatureError(op string, missing []string) error {
	cp := append([]string(nil), missing...)
	return errors.WithStack(&MissingFeatureError{Op: op, Missing: cp})
}

// NotFittedError is returned by Predict/Transform on a model that was never fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("aqforecast: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError reports a row or column count that does not match.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("aqforecast: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError reports input data that failed a quality check.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("aqforecast: validation failed for '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError reports an argument with an unusable value.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("aqforecast: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError wraps a failure inside a regressor or the training harness.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("aqforecast: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("aqforecast: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError reports NaN or Inf where finite numbers were expected.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	var sb strings.Builder
	for i, v := range e.Values {
		if i >= 5 {
			sb.WriteString(", ...")
			break
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%.6g", v)
	}
	return fmt.Sprintf("aqforecast: numerical instability detected in %s at index %d. Values: [%s]",
		e.Operation, e.Iteration, sb.String())
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a stack trace.
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values, Iteration: iteration})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to err.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no rows.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when normal equations cannot be solved.
	ErrSingularMatrix = New("singular matrix")
)
