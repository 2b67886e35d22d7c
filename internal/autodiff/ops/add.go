package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Add computes a + b elementwise with broadcasting.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = unbroadcast(g)
//   - d(a+b)/db = 1, so grad_b = unbroadcast(g)
func Add(a, b Value) Value {
	return apply("add", autodiff.Attrs{}, a, b)
}

// Subtract computes a - b elementwise with broadcasting.
//
// Backward pass:
//   - grad_a = unbroadcast(g)
//   - grad_b = unbroadcast(-g)
func Subtract(a, b Value) Value {
	return apply("subtract", autodiff.Attrs{}, a, b)
}

// Negative computes -x.
func Negative(x Value) Value {
	return apply("negative", autodiff.Attrs{}, x)
}

func addForward(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Add(args[0], args[1])
}

func subtractForward(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Sub(args[0], args[1])
}

func negativeForward(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Neg(args[0]), nil
}

func addVJPLeft(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return unbroadcast(g, args[0].Shape())
}

func addVJPRight(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return unbroadcast(g, args[1].Shape())
}

func subtractVJPRight(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return unbroadcast(Negative(g), args[1].Shape())
}

func negativeVJP(g, _ Value, _ autodiff.Attrs, _ []Value) Value {
	return Negative(g)
}
