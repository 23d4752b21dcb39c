package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/core/model"
	"github.com/YuminosukeSato/aqforecast/forecast"
	"github.com/YuminosukeSato/aqforecast/linear"
	"github.com/YuminosukeSato/aqforecast/preprocessing"
)

var (
	trainData string
	trainPlot string
	trainAll  bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train one model per horizon and report held-out skill over persistence",
	Example: `  aqforecast train --data hourly.csv --target ozone
  aqforecast train --data hourly.csv --all --plot mae.png
  AQ_RIDGE_ALPHA=10 aqforecast train --data hourly.csv --horizons 1,24`,
	RunE: func(cmd *cobra.Command, args []string) error {
		obs, err := readObservations(trainData)
		if err != nil {
			return err
		}
		pcfg, err := cfg.Pipeline(airquality.ModeTraining)
		if err != nil {
			return err
		}
		trainer, err := newTrainer()
		if err != nil {
			return err
		}

		targets := []airquality.Pollutant{pcfg.Target()}
		if trainAll {
			targets = airquality.SupportedPollutants()
		}
		trained, err := trainer.TrainTargets(cmd.Context(), obs, pcfg, targets...)
		if err != nil {
			return err
		}

		reports := make([]*forecast.Report, 0, len(targets))
		for _, target := range targets {
			reports = append(reports, trained[target].Report)
		}
		for _, report := range reports {
			if err := report.WriteTable(cmd.OutOrStdout()); err != nil {
				return err
			}
			if trainPlot == "" {
				continue
			}
			path := plotPath(trainPlot, report.Target, len(reports) > 1)
			if err := report.Plot(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainData, "data", "-", "observations CSV, - for stdin")
	trainCmd.Flags().Float64("test-size", forecast.DefaultTestSize, "trailing share of rows held out for evaluation")
	trainCmd.Flags().Float64("alpha", linear.DefaultAlpha, "ridge penalty")
	trainCmd.Flags().StringVar(&trainPlot, "plot", "", "write an MAE-by-horizon chart to this file")
	trainCmd.Flags().BoolVar(&trainAll, "all", false, "train every supported pollutant")
}

func newTrainer() (*forecast.Trainer, error) {
	alpha := cfg.RidgeAlpha
	return forecast.NewTrainer(
		forecast.WithTestSize(cfg.TestSize),
		forecast.WithLogger(logger),
		forecast.WithRegressor(func() model.Regressor {
			return model.NewScaledRegressor(
				preprocessing.NewStandardScalerDefault(),
				linear.NewLinearRegression(linear.WithAlpha(alpha)),
			)
		}),
	)
}

// plotPath suffixes the file name with the target when several charts are written.
func plotPath(base string, target airquality.Pollutant, many bool) string {
	if !many {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%s%s", strings.TrimSuffix(base, ext), target, ext)
}
