package linear

// Option configures a LinearRegression.
type Option func(*LinearRegression)

// WithFitIntercept sets whether to fit an intercept (default true).
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithAlpha sets the ridge penalty. Zero gives ordinary least squares.
func WithAlpha(alpha float64) Option {
	return func(lr *LinearRegression) {
		lr.alpha = alpha
	}
}
