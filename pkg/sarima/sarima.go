package sarima

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/mathutil"
	"gonum.org/v1/gonum/optimize"
)

var (
	// ErrInsufficientData is returned when differencing leaves nothing to fit.
	ErrInsufficientData = errors.New("insufficient data points for the specified order")
	// ErrNonFinite is returned when the input contains NaN or infinite values.
	ErrNonFinite = errors.New("series contains non-finite values")
	// ErrInvalidSteps is returned when fewer than one step is requested.
	ErrInvalidSteps = errors.New("steps must be at least 1")
	// ErrNotFitted is returned when forecasting before a successful fit.
	ErrNotFitted = errors.New("model must be fitted before forecasting")
	// ErrDiverged is returned when estimation or forecasting yields non-finite values.
	ErrDiverged = errors.New("model diverged")
)

const (
	maxIterations  = 2000
	maxEvaluations = 8000
	// varianceFloor keeps the log-likelihood finite for exactly fitted series.
	varianceFloor = 1e-12
)

// Order represents SARIMA model order (p, d, q) x (P, D, Q, m).
type Order struct {
	P int // Non-seasonal AR order
	D int // Non-seasonal differencing order
	Q int // Non-seasonal MA order
	// Seasonal components
	SP int // Seasonal AR order
	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period (7 for daily data with weekly seasonality)
}

// WeeklyOrder is the fixed (1,1,1)x(1,1,1,7) order used for daily sales.
var WeeklyOrder = Order{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 1, M: constants.SeasonalPeriod}

// String renders the order in the usual (p,d,q)x(P,D,Q,m) notation.
func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)x(%d,%d,%d,%d)", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// numParams is the number of estimated ARMA coefficients.
func (o Order) numParams() int {
	return o.P + o.Q + o.SP + o.SQ
}

// lostObservations is the number of leading values consumed by differencing.
func (o Order) lostObservations() int {
	return o.D + o.SD*o.M
}

func (o Order) validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 || o.SP < 0 || o.SD < 0 || o.SQ < 0 {
		return fmt.Errorf("negative order %s", o)
	}
	if (o.SP > 0 || o.SD > 0 || o.SQ > 0) && o.M < 1 {
		return fmt.Errorf("seasonal order %s requires a period of at least 1", o)
	}
	return nil
}

// Model represents a SARIMA model.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // Non-seasonal AR coefficients
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SARCoeffs []float64 // Seasonal AR coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Variance  float64   // Innovation variance estimate
	LogLik    float64   // Conditional log-likelihood at the estimate
	AIC       float64
	// Iterations and Status describe the optimizer run.
	Iterations int
	Status     string

	fitted    bool
	data      []float64
	diffPoly  []float64
	diffData  []float64
	residuals []float64
	arPoly    []float64
	maPoly    []float64
}

// New creates a new SARIMA model with the specified order.
func New(order Order) *Model {
	return &Model{
		Order:     order,
		ARCoeffs:  make([]float64, order.P),
		MACoeffs:  make([]float64, order.Q),
		SARCoeffs: make([]float64, order.SP),
		SMACoeffs: make([]float64, order.SQ),
	}
}

// Forecast fits a WeeklyOrder model to values and returns steps point
// forecasts following the last value.
func Forecast(values []float64, steps int) ([]float64, error) {
	if steps < 1 {
		return nil, ErrInvalidSteps
	}
	model := New(WeeklyOrder)
	if err := model.Fit(values); err != nil {
		return nil, err
	}
	return model.Predict(steps)
}

// Fit estimates the model coefficients from values.
func (m *Model) Fit(values []float64) error {
	if err := m.Order.validate(); err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: empty series", ErrInsufficientData)
	}
	for i, v := range values {
		if !mathutil.IsFinite(v) {
			return fmt.Errorf("%w: value %d is %v", ErrNonFinite, i, v)
		}
	}
	if len(values) <= m.Order.lostObservations() {
		return fmt.Errorf("%w: %d observations, order %s needs more than %d",
			ErrInsufficientData, len(values), m.Order, m.Order.lostObservations())
	}

	m.fitted = false
	m.data = append([]float64(nil), values...)
	m.diffPoly = differencingPolynomial(m.Order)
	m.diffData = applyPolynomial(m.diffPoly, m.data)

	x0 := m.initialParams()
	x := x0
	if len(x0) > 0 {
		problem := optimize.Problem{
			Func: func(params []float64) float64 {
				return m.objective(params)
			},
		}
		settings := &optimize.Settings{
			MajorIterations: maxIterations,
			FuncEvaluations: maxEvaluations,
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-10,
				Relative:   1e-10,
				Iterations: 100,
			},
		}
		result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
		if err != nil {
			return fmt.Errorf("failed to estimate %s coefficients: %w", m.Order, err)
		}
		x = result.X
		m.Iterations = result.Stats.MajorIterations
		m.Status = result.Status.String()
	} else {
		m.Status = "NoParameters"
	}

	if !mathutil.AllFinite(x) {
		return fmt.Errorf("%w: non-finite coefficient estimate", ErrDiverged)
	}
	m.setParams(x)

	css := m.conditionalSumOfSquares(m.residuals[:0:0])
	if !mathutil.IsFinite(css) {
		return fmt.Errorf("%w: non-finite sum of squares", ErrDiverged)
	}
	n := float64(len(m.diffData))
	m.Variance = math.Max(css/n, varianceFloor)
	m.LogLik = -n / 2 * (math.Log(2*math.Pi*m.Variance) + 1)
	m.AIC = -2*m.LogLik + 2*float64(m.Order.numParams()+1)
	m.fitted = true
	return nil
}

// Predict generates point forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, ErrInvalidSteps
	}

	n := len(m.diffData)
	extW := make([]float64, n+steps)
	copy(extW, m.diffData)
	extE := make([]float64, n+steps)
	copy(extE, m.residuals)

	for t := n; t < n+steps; t++ {
		pred := 0.0
		for k := 1; k < len(m.arPoly); k++ {
			if t-k >= 0 {
				pred -= m.arPoly[k] * extW[t-k]
			}
		}
		for k := 1; k < len(m.maPoly); k++ {
			if t-k >= 0 {
				pred += m.maPoly[k] * extE[t-k]
			}
		}
		extW[t] = pred
	}

	forecasts := m.integrate(extW[n:])
	for h, v := range forecasts {
		if !mathutil.IsFinite(v) {
			return nil, fmt.Errorf("%w: forecast step %d is %v", ErrDiverged, h+1, v)
		}
	}
	return forecasts, nil
}

// Residuals returns the one-step errors of the differenced series.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

// integrate undoes differencing: with δ(B) y_t = w_t and δ_0 = 1,
// y_t = w_t - Σ δ_k y_{t-k}.
func (m *Model) integrate(diffForecasts []float64) []float64 {
	n := len(m.data)
	ext := make([]float64, n+len(diffForecasts))
	copy(ext, m.data)
	for h, w := range diffForecasts {
		t := n + h
		v := w
		for k := 1; k < len(m.diffPoly); k++ {
			v -= m.diffPoly[k] * ext[t-k]
		}
		ext[t] = v
	}
	return append([]float64(nil), ext[n:]...)
}

// objective is the concentrated negative log-likelihood up to constants.
func (m *Model) objective(params []float64) float64 {
	m.setParams(params)
	css := m.conditionalSumOfSquares(m.residuals)
	if !mathutil.IsFinite(css) {
		return math.Inf(1)
	}
	return css / float64(len(m.diffData))
}

// conditionalSumOfSquares fills m.residuals and returns their sum of squares.
func (m *Model) conditionalSumOfSquares(buf []float64) float64 {
	w := m.diffData
	n := len(w)
	if cap(buf) < n {
		buf = make([]float64, n)
	}
	e := buf[:n]
	css := 0.0
	for t := 0; t < n; t++ {
		v := w[t]
		for k := 1; k < len(m.arPoly); k++ {
			if t-k >= 0 {
				v += m.arPoly[k] * w[t-k]
			}
		}
		for k := 1; k < len(m.maPoly); k++ {
			if t-k >= 0 {
				v -= m.maPoly[k] * e[t-k]
			}
		}
		e[t] = v
		css += v * v
	}
	m.residuals = e
	return css
}

// setParams unpacks [AR..., MA..., SAR..., SMA...] and rebuilds the lag polynomials.
func (m *Model) setParams(params []float64) {
	o := m.Order
	idx := 0
	copy(m.ARCoeffs, params[idx:idx+o.P])
	idx += o.P
	copy(m.MACoeffs, params[idx:idx+o.Q])
	idx += o.Q
	copy(m.SARCoeffs, params[idx:idx+o.SP])
	idx += o.SP
	copy(m.SMACoeffs, params[idx:idx+o.SQ])

	m.arPoly = multiply(lagPolynomial(m.ARCoeffs, 1, -1), lagPolynomial(m.SARCoeffs, o.M, -1))
	m.maPoly = multiply(lagPolynomial(m.MACoeffs, 1, 1), lagPolynomial(m.SMACoeffs, o.M, 1))
}

// initialParams starts AR terms at half the sample autocorrelation and MA
// terms at 0.1.
func (m *Model) initialParams() []float64 {
	o := m.Order
	params := make([]float64, 0, o.numParams())
	for i := 1; i <= o.P; i++ {
		params = append(params, 0.5*autocorrelation(m.diffData, i))
	}
	for i := 0; i < o.Q; i++ {
		params = append(params, 0.1)
	}
	for i := 1; i <= o.SP; i++ {
		params = append(params, 0.5*autocorrelation(m.diffData, i*o.M))
	}
	for i := 0; i < o.SQ; i++ {
		params = append(params, 0.1)
	}
	return params
}

// differencingPolynomial returns the coefficients of (1-B)^d (1-B^m)^D.
func differencingPolynomial(o Order) []float64 {
	poly := []float64{1}
	for i := 0; i < o.D; i++ {
		poly = multiply(poly, []float64{1, -1})
	}
	for i := 0; i < o.SD; i++ {
		seasonal := make([]float64, o.M+1)
		seasonal[0] = 1
		seasonal[o.M] = -1
		poly = multiply(poly, seasonal)
	}
	return poly
}

// applyPolynomial returns poly(B) applied to values, dropping the leading
// observations without a full set of lags.
func applyPolynomial(poly, values []float64) []float64 {
	lost := len(poly) - 1
	out := make([]float64, len(values)-lost)
	for i := range out {
		t := i + lost
		v := 0.0
		for k, c := range poly {
			v += c * values[t-k]
		}
		out[i] = v
	}
	return out
}

// lagPolynomial builds 1 + sign*Σ c_i B^(i*step).
func lagPolynomial(coeffs []float64, step int, sign float64) []float64 {
	poly := make([]float64, len(coeffs)*step+1)
	poly[0] = 1
	for i, c := range coeffs {
		poly[(i+1)*step] = sign * c
	}
	return poly
}

func multiply(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

func autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || lag >= n {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	if variance == 0 {
		return 0
	}

	cov := 0.0
	for t := lag; t < n; t++ {
		cov += (values[t] - mean) * (values[t-lag] - mean)
	}
	return cov / variance
}
