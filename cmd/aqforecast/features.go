package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/aqforecast/airquality"
	"github.com/YuminosukeSato/aqforecast/features"
	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

var (
	featuresData string
	featuresMode string
	featuresOut  string
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Build the feature table for one target and write it as CSV",
	Example: `  aqforecast features --data hourly.csv --target pm10 > train.csv
  aqforecast features --data recent.csv --mode inference --out latest.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := airquality.ParseMode(featuresMode)
		if err != nil {
			return err
		}
		pcfg, err := cfg.Pipeline(mode)
		if err != nil {
			return err
		}
		obs, err := readObservations(featuresData)
		if err != nil {
			return err
		}
		pipeline, err := features.NewPipeline(pcfg, features.WithLogger(logger))
		if err != nil {
			return err
		}
		result, err := pipeline.Run(obs)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if featuresOut != "" && featuresOut != "-" {
			f, err := os.Create(featuresOut)
			if err != nil {
				return errors.Wrapf(err, "creating %s", featuresOut)
			}
			defer f.Close()
			w = f
		}
		return result.Frame.WriteCSV(w)
	},
}

func init() {
	featuresCmd.Flags().StringVar(&featuresData, "data", "-", "observations CSV, - for stdin")
	featuresCmd.Flags().StringVar(&featuresMode, "mode", airquality.ModeTraining.String(), "training or inference")
	featuresCmd.Flags().StringVar(&featuresOut, "out", "", "output CSV, stdout when empty")
}
