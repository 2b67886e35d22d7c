package autodiff

import (
	"fmt"
	"math"
	"slices"

	"github.com/zx0502/minpy/internal/tensor"
)

// NumericalGrad estimates the gradient of sum(f(args...)) with respect to
// args[argnum] by central finite differences with step eps.
func NumericalGrad(f Func, args []Value, argnum int, eps float64) (*tensor.Array, error) {
	if argnum < 0 || argnum >= len(args) {
		return nil, &ArgumentIndexError{Index: argnum, NumArgs: len(args)}
	}

	x := Concrete(args[argnum])
	grad := tensor.Zeros(x.Shape())
	shifted := slices.Clone(args)

	eval := func(delta float64, i int) (float64, error) {
		xs := x.Clone()
		xs.Data()[i] += delta
		shifted[argnum] = xs
		out, err := f(shifted...)
		if err != nil {
			return 0, err
		}
		s, err := tensor.Sum(Concrete(out), nil, false)
		if err != nil {
			return 0, err
		}
		return s.Item(), nil
	}

	for i := range x.Data() {
		plus, err := eval(eps, i)
		if err != nil {
			return nil, err
		}
		minus, err := eval(-eps, i)
		if err != nil {
			return nil, err
		}
		grad.Data()[i] = (plus - minus) / (2 * eps)
	}
	return grad, nil
}

// CheckGrads compares Grad(f) against NumericalGrad for every argument.
// An element fails when |analytic - numeric| > tol * max(1, |numeric|).
// The first failure is returned as a *GradCheckError.
func CheckGrads(f Func, args []Value, eps, tol float64) error {
	for argnum := range args {
		analytic, err := Grad(f, WithArgnum(argnum))(args...)
		if err != nil {
			return fmt.Errorf("argument %d: %w", argnum, err)
		}
		numeric, err := NumericalGrad(f, args, argnum, eps)
		if err != nil {
			return fmt.Errorf("argument %d: %w", argnum, err)
		}

		a := Concrete(analytic).Data()
		for i, n := range numeric.Data() {
			if math.Abs(a[i]-n) > tol*math.Max(1, math.Abs(n)) {
				return &GradCheckError{Argnum: argnum, Index: i, Analytic: a[i], Numeric: n}
			}
		}
	}
	return nil
}
