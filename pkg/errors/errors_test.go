package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Trainer.Train",
			kind:    "fit failed",
			err:     fmt.Errorf("test error"),
			wantMsg: "aqforecast: Trainer.Train: fit failed: test error",
		},
		{
			name:    "without original error",
			op:      "Forecaster.Predict",
			kind:    "no models",
			wantMsg: "aqforecast: Forecaster.Predict: no models",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())

			formatted := fmt.Sprintf("%+v", err)
			assert.True(t, strings.Contains(formatted, "errors_test.go"), "stack trace should point at the caller")

			var modelErr *ModelError
			assert.True(t, As(err, &modelErr))
		})
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("target", "unsupported pollutant", "carbon_monoxide")

	assert.Equal(t, "aqforecast: invalid configuration for 'target': unsupported pollutant (got: carbon_monoxide)", err.Error())
	assert.True(t, Is(err, ErrInvalidArgument))

	var cfgErr *ConfigError
	require.True(t, As(err, &cfgErr))
	assert.Equal(t, "target", cfgErr.Param)
}

func TestNewMissingFeatureError(t *testing.T) {
	missing := []string{"ozone_lag_1", "wind_u"}
	err := NewMissingFeatureError("Pipeline.Run", missing)
	missing[0] = "mutated"

	assert.Equal(t, "aqforecast: Pipeline.Run: missing feature columns [ozone_lag_1, wind_u]", err.Error())

	var mfErr *MissingFeatureError
	require.True(t, As(err, &mfErr))
	assert.Equal(t, []string{"ozone_lag_1", "wind_u"}, mfErr.Missing)
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Frame.Set", 10, 9, 0)
	assert.Equal(t, "aqforecast: Frame.Set: dimension mismatch on axis 0 (rows). Expected 10, got 9", err.Error())

	var dimErr *DimensionError
	assert.True(t, As(err, &dimErr))
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearRegression", "Predict")
	assert.Contains(t, err.Error(), "Call Fit() before using Predict()")
}

func TestNumericalStability(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("predict", []float64{1, 2, 3}, 0))

	err := CheckNumericalStability("predict", []float64{1, math.NaN()}, 4)
	require.Error(t, err)
	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Equal(t, 4, numErr.Iteration)
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "loading %s", "raw.csv")
	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.Contains(t, wrapped.Error(), "loading raw.csv")
}

func TestWarnRoutesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	SetZerologWarnFunc(func(w error) {
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			zl.Warn().EmbedObject(m).Msg(w.Error())
			return
		}
		zl.Warn().Msg(w.Error())
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewInsufficientHistoryWarning("pm2_5", "training", 10, 193, "no complete rows"))

	out := buf.String()
	assert.Contains(t, out, `"type":"InsufficientHistoryWarning"`)
	assert.Contains(t, out, `"target":"pm2_5"`)
	assert.Contains(t, out, `"required":193`)
}

func TestWarnFallsBackToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewInsufficientHistoryWarning("ozone", "inference", 3, 24, ""))
	require.Len(t, got, 1)
	assert.Equal(t, "inference pipeline for ozone received 3 rows, 24 recommended", got[0].Error())
}
