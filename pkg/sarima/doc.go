// Package sarima implements the seasonal ARIMA model used to forecast daily
// product sales.
//
// A model of order (p, d, q) x (P, D, Q, m) differences the series d times at
// lag 1 and D times at lag m, then fits a multiplicative ARMA model to the
// differenced values:
//
//	φ(B) Φ(B^m) w_t = θ(B) Θ(B^m) e_t
//
// Parameters are estimated by conditional maximum likelihood with the
// innovation variance concentrated out, which amounts to minimising the
// conditional sum of squared one-step errors. Pre-sample values and errors are
// taken as zero. The minimisation uses the Nelder-Mead simplex method and does
// not constrain the AR or MA polynomials to be stationary or invertible.
//
// Forecasts are produced recursively with future errors set to zero and then
// integrated back onto the original scale.
//
//	values := []float64{10, 12, 9, 14, ...}
//	forecast, err := sarima.Forecast(values, 7)
package sarima
