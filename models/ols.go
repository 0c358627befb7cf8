package models

import (
	"fmt"

	"github.com/aouyang1/go-forecastbench/score"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type OLSOptions struct {
	FitIntercept bool
}

func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// OLSRegression computes ordinary least squares using QR factorization
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64
}

func NewOLSRegression(opt *OLSOptions) *OLSRegression {
	if opt == nil {
		opt = NewDefaultOLSOptions()
	}
	return &OLSRegression{
		opt: opt,
	}
}

// design prepends a column of ones to x when the intercept is fit
func (o *OLSRegression) design(x mat.Matrix) mat.Matrix {
	if !o.opt.FitIntercept {
		return x
	}
	m, n := x.Dims()
	ones := make([]float64, m)
	floats.AddConst(1.0, ones)

	d := mat.NewDense(m, n+1, nil)
	d.SetCol(0, ones)
	d.Slice(0, m, 1, n+1).(*mat.Dense).Copy(x)
	return d
}

// Fit solves min ||x*coef - y|| through the QR decomposition of the design matrix
func (o *OLSRegression) Fit(x mat.Matrix, y []float64) error {
	if x == nil {
		return ErrNoDesignMatrix
	}
	m, _ := x.Dims()
	if len(y) != m {
		return fmt.Errorf("design matrix has %d rows and target has %d, %w", m, len(y), ErrTargetLenMismatch)
	}

	d := o.design(x)
	_, n := d.Dims()
	if m < n {
		return fmt.Errorf("need at least %d observations for %d coefficients, got %d, %w", n, n, m, ErrInsufficientData)
	}

	qr := new(mat.QR)
	qr.Factorize(d)

	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, mat.NewVecDense(m, y)); err != nil {
		return fmt.Errorf("unable to solve least squares, %w", err)
	}

	coef := mat.Col(nil, 0, &c)
	if o.opt.FitIntercept {
		o.intercept = coef[0]
		o.coef = coef[1:]
	} else {
		o.intercept = 0
		o.coef = coef
	}
	return nil
}

func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	_, n := x.Dims()
	if n != len(o.coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, len(o.coef), ErrFeatureLenMismatch)
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(n, o.coef))
	pred := mat.Col(nil, 0, &res)
	floats.AddConst(o.intercept, pred)
	return pred, nil
}

// Score returns the coefficient of determination of the predictions on x against y
func (o *OLSRegression) Score(x mat.Matrix, y []float64) (float64, error) {
	pred, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}
	if len(pred) != len(y) {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d, %w", len(pred), len(y), ErrTargetLenMismatch)
	}
	return score.RSquared(pred, y)
}

func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}
