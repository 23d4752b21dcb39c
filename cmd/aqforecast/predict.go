package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/forecast"
	"github.com/YuminosukeSato/aqforecast/linear"
)

var (
	predictData    string
	predictHistory string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Train on a history and forecast every horizon from the latest observation",
	Example: `  aqforecast predict --data hourly.csv
  aqforecast predict --data archive.csv --history last_week.csv --target nitrogen_dioxide`,
	RunE: func(cmd *cobra.Command, args []string) error {
		obs, err := readObservations(predictData)
		if err != nil {
			return err
		}
		history := obs
		if predictHistory != "" {
			if history, err = readObservations(predictHistory); err != nil {
				return err
			}
		}
		pcfg, err := cfg.Pipeline(airquality.ModeTraining)
		if err != nil {
			return err
		}
		trainer, err := newTrainer()
		if err != nil {
			return err
		}
		_, forecaster, err := trainer.Train(cmd.Context(), obs, pcfg)
		if err != nil {
			return err
		}
		preds, err := forecaster.Predict(history)
		if err != nil {
			return err
		}
		return writePredictions(cmd, forecaster.Target(), preds)
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictData, "data", "-", "training observations CSV, - for stdin")
	predictCmd.Flags().StringVar(&predictHistory, "history", "", "recent observations to forecast from; defaults to --data")
	predictCmd.Flags().Float64("test-size", forecast.DefaultTestSize, "trailing share of rows held out for evaluation")
	predictCmd.Flags().Float64("alpha", linear.DefaultAlpha, "ridge penalty")
}

func writePredictions(cmd *cobra.Command, target airquality.Pollutant, preds []forecast.Prediction) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tHORIZON\tTIME\tVALUE")
	for _, p := range preds {
		fmt.Fprintf(tw, "%s\t%dh\t%s\t%.3f\n", target, p.Horizon, p.Time.Format(time.RFC3339), p.Value)
	}
	return tw.Flush()
}
