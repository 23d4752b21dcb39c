// Package aqforecast turns hourly air-quality and weather observations into
// model-ready feature tables and multi-horizon pollutant forecasts.
//
// aqforecast builds the same feature layout for training and for serving, so a
// model fitted on historical data can score the latest observation without any
// column drift. Forecasts cover several horizons at once (by default 1, 12, 24,
// 72 and 168 hours ahead) with one regressor per horizon.
//
// # Installation
//
//	go get github.com/YuminosukeSato/aqforecast
//
// # Quick Start
//
// Build a training table for PM2.5:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/aqforecast/airquality"
//	    "github.com/YuminosukeSato/aqforecast/features"
//	)
//
//	func main() {
//	    f, err := os.Open("hourly.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer f.Close()
//	    obs, err := airquality.ReadObservationsCSV(f)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    cfg, err := airquality.NewConfig("pm2_5")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    pipeline, err := features.NewPipeline(cfg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    table, err := pipeline.Run(obs)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(table.Features, table.Targets, table.Len())
//	}
//
// Train and forecast in one step with the forecast package:
//
//	trainer, _ := forecast.NewTrainer()
//	report, forecaster, err := trainer.Train(ctx, obs, cfg)
//	...
//	report.WriteTable(os.Stdout)
//	predictions, err := forecaster.Predict(obs[len(obs)-48:])
//
// # Packages
//
//   - airquality: observation record, column names, Config and CSV I/O
//   - features: loader, feature builder, target generator, selector and Pipeline
//   - forecast: per-horizon Trainer, evaluation Report and Forecaster
//   - linear: ridge LinearRegression
//   - preprocessing: StandardScaler
//   - metrics: MAE, RMSE, R², MAPE, correlation and skill score
//   - core/frame: time-indexed column store and series operations
//   - core/model: estimator interfaces and the ScaledRegressor chain
//   - core/parallel: chunked parallel loops
//   - cmd/aqforecast: command line interface
//
// # Leakage
//
// Rolling statistics are computed on the target shifted by one hour, so the
// value at row t never includes the target at t. Horizon targets look forward;
// training rows without a complete future are dropped.
package aqforecast
