package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Maximum computes the elementwise maximum of a and b with broadcasting.
// Maximum(x, 0) is the ReLU clipping.
//
// Backward pass:
//   - grad_a = unbroadcast(g * [a > b] + 0.5 * g * [a == b])
//   - grad_b symmetric
func Maximum(a, b Value) Value {
	return apply("maximum", autodiff.Attrs{}, a, b)
}

func maximumForward(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Maximum(args[0], args[1])
}

func maximumVJPLeft(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	w := must(tensor.BalancedEq(concrete(args[0]), concrete(args[1])))
	return unbroadcast(Multiply(g, w), args[0].Shape())
}

func maximumVJPRight(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	w := must(tensor.BalancedEq(concrete(args[1]), concrete(args[0])))
	return unbroadcast(Multiply(g, w), args[1].Shape())
}
