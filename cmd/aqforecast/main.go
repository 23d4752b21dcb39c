// Command aqforecast builds air-quality feature tables, trains per-horizon
// forecasting models and prints multi-horizon forecasts from CSV observations.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
