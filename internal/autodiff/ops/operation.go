// Package ops defines the standard differentiable primitives and the
// functions that invoke them.
//
// Each primitive is registered in autodiff.DefaultRegistry from init with:
//   - a forward kernel from package tensor
//   - one VJP per input, written with the functions of this package so that
//     gradients can be differentiated again
//
// Supported primitives:
//   - add, subtract, multiply, divide, negative, power (broadcasting)
//   - exp, log, tanh, sqrt
//   - dot, transpose, reshape, broadcast_to, sum_to
//   - sum, mean, max (reductions), maximum (elementwise, relu clipping)
//
// The functions panic on invalid input, like the methods of an array type;
// autodiff.Apply is the error-returning path.
package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Value is re-exported for brevity.
type Value = autodiff.Value

// apply invokes a registered primitive and panics on error.
func apply(name string, attrs autodiff.Attrs, args ...Value) Value {
	out, err := autodiff.Apply(name, attrs, args...)
	if err != nil {
		panic(err)
	}
	return out
}

// unbroadcast sums g down to shape, reversing NumPy broadcasting.
func unbroadcast(g Value, shape tensor.Shape) Value {
	if g.Shape().Equal(shape) {
		return g
	}
	return SumTo(g, shape)
}

// concrete strips boxing; used for masks, which are constant under
// differentiation.
func concrete(v Value) *tensor.Array {
	return autodiff.Concrete(v)
}

// must panics on a kernel error.
func must(a *tensor.Array, err error) *tensor.Array {
	if err != nil {
		panic(err)
	}
	return a
}

func scalar(v float64) Value {
	return tensor.Scalar(v)
}
