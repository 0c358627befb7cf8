package models

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/aouyang1/go-forecastbench/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinARIMAObservations is the number of differenced observations required beyond the count
// of AR and MA coefficients
const MinARIMAObservations = 10

// ARIMA is an ARIMA(P, D, Q) model estimated by conditional sum of squares. A mean is only
// estimated when the series is not differenced.
type ARIMA struct {
	P int `json:"p" mapstructure:"p"`
	D int `json:"d" mapstructure:"d"`
	Q int `json:"q" mapstructure:"q"`
}

func NewDefaultARIMA() ARIMA {
	return ARIMA{P: 1, D: 1, Q: 1}
}

func (ARIMA) Name() string { return NameARIMA }

func (a ARIMA) Validate() error {
	if a.P < 0 || a.D < 0 || a.Q < 0 {
		return fmt.Errorf("got (%d, %d, %d), %w", a.P, a.D, a.Q, ErrInvalidOrder)
	}
	return nil
}

func (a ARIMA) Fit(train []float64) (Fitted, error) {
	return a.FitContext(context.Background(), train)
}

// FitContext estimates the model, stopping early with ctx's error once ctx is done
func (a ARIMA) FitContext(ctx context.Context, train []float64) (Fitted, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := requireLen(train, a.P+a.D+a.Q+MinARIMAObservations); err != nil {
		return nil, err
	}
	if err := requireFinite(train); err != nil {
		return nil, err
	}

	w, tails := difference(train, a.D)
	var mean float64
	if a.D == 0 {
		mean = stat.Mean(w, nil)
	}
	z := slices.Clone(w)
	floats.AddConst(-mean, z)

	fit := &arimaFit{
		mean:  mean,
		tails: tails,
		z:     z,
	}
	if a.P+a.Q == 0 {
		fit.resid = slices.Clone(z)
		return fit, nil
	}

	x0 := make([]float64, a.P+a.Q)
	copy(x0, yuleWalker(z, a.P))

	x, err := minimize(ctx, func(x []float64) float64 {
		phi, theta := x[:a.P], x[a.P:]
		if !stable(phi) || !invertible(theta) {
			return math.Inf(1)
		}
		resid := cssResiduals(z, phi, theta)
		return floats.Dot(resid, resid)
	}, x0)
	if err != nil {
		return nil, err
	}

	fit.phi = slices.Clone(x[:a.P])
	fit.theta = slices.Clone(x[a.P:])
	if !stable(fit.phi) || !invertible(fit.theta) {
		return nil, fmt.Errorf("ar %v ma %v, %w", fit.phi, fit.theta, ErrNonStationary)
	}
	fit.resid = cssResiduals(z, fit.phi, fit.theta)
	return fit, nil
}

type arimaFit struct {
	phi   []float64
	theta []float64
	mean  float64
	tails []float64
	z     []float64
	resid []float64
}

func (f *arimaFit) Params() map[string]float64 {
	p := map[string]float64{"mean": f.mean}
	for i, v := range f.phi {
		p[fmt.Sprintf("ar%d", i+1)] = v
	}
	for i, v := range f.theta {
		p[fmt.Sprintf("ma%d", i+1)] = v
	}
	return p
}

func (f *arimaFit) Forecast(horizon int) ([]float64, error) {
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}

	n := len(f.z)
	z := make([]float64, n+horizon)
	copy(z, f.z)
	e := make([]float64, n+horizon)
	copy(e, f.resid)

	for t := n; t < n+horizon; t++ {
		var pred float64
		for i := 1; i <= len(f.phi) && t-i >= 0; i++ {
			pred += f.phi[i-1] * z[t-i]
		}
		for j := 1; j <= len(f.theta) && t-j >= 0; j++ {
			pred += f.theta[j-1] * e[t-j]
		}
		z[t] = pred
	}

	res := z[n:]
	floats.AddConst(f.mean, res)
	return integrate(res, f.tails), nil
}

// cssResiduals returns the conditional residuals of the demeaned series z, taking the
// residuals before the first full AR window as zero
func cssResiduals(z, phi, theta []float64) []float64 {
	p := len(phi)
	e := make([]float64, len(z))
	for t := p; t < len(z); t++ {
		v := z[t]
		for i := 1; i <= p; i++ {
			v -= phi[i-1] * z[t-i]
		}
		for j := 1; j <= len(theta) && t-j >= 0; j++ {
			v -= theta[j-1] * e[t-j]
		}
		e[t] = v
	}
	return e
}

// difference applies d first differences and returns the last value of every intermediate
// series so the forecasts can be integrated back
func difference(y []float64, d int) ([]float64, []float64) {
	tails := make([]float64, d)
	w := slices.Clone(y)
	for k := 0; k < d; k++ {
		tails[k] = w[len(w)-1]
		w = stats.Diff(w)
	}
	return w, tails
}

func integrate(forecast, tails []float64) []float64 {
	res := slices.Clone(forecast)
	for k := len(tails) - 1; k >= 0; k-- {
		prev := tails[k]
		for i := range res {
			res[i] += prev
			prev = res[i]
		}
	}
	return res
}

// yuleWalker solves the Yule-Walker equations for p AR coefficients of z. It returns zeros
// when the system is singular or the solution is not stationary.
func yuleWalker(z []float64, p int) []float64 {
	phi := make([]float64, p)
	if p == 0 {
		return phi
	}
	acf, err := stats.ACF(z, p)
	if err != nil || len(acf) <= p {
		return phi
	}

	r := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			r.SetSym(i, j, acf[j-i])
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(r); !ok {
		return phi
	}
	var sol mat.VecDense
	if err := chol.SolveVecTo(&sol, mat.NewVecDense(p, slices.Clone(acf[1:p+1]))); err != nil {
		return phi
	}
	est := mat.Col(nil, 0, &sol)
	if !stable(est) {
		return phi
	}
	return est
}

// stable reports whether the AR polynomial 1 - phi_1 B - ... - phi_p B^p has all roots
// outside the unit circle
func stable(phi []float64) bool {
	return companionInsideUnit(phi)
}

// invertible reports whether the MA polynomial 1 + theta_1 B + ... + theta_q B^q has all
// roots outside the unit circle
func invertible(theta []float64) bool {
	neg := slices.Clone(theta)
	floats.Scale(-1, neg)
	return companionInsideUnit(neg)
}

// companionInsideUnit checks that every eigenvalue of the companion matrix of coef lies
// strictly inside the unit circle
func companionInsideUnit(coef []float64) bool {
	k := len(coef)
	if k == 0 {
		return true
	}
	c := mat.NewDense(k, k, nil)
	for j, v := range coef {
		c.Set(0, j, v)
	}
	for i := 1; i < k; i++ {
		c.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(c, mat.EigenNone); !ok {
		return false
	}
	for _, v := range eig.Values(nil) {
		if cmplx.Abs(v) >= 1 {
			return false
		}
	}
	return true
}
