package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Multiply computes a * b elementwise with broadcasting.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = unbroadcast(g * b)
//   - d(a*b)/db = a, so grad_b = unbroadcast(g * a)
func Multiply(a, b Value) Value {
	return apply("multiply", autodiff.Attrs{}, a, b)
}

// Divide computes a / b elementwise with broadcasting.
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a = unbroadcast(g / b)
//   - d(a/b)/db = -a/b², so grad_b = unbroadcast(-g * ans / b)
func Divide(a, b Value) Value {
	return apply("divide", autodiff.Attrs{}, a, b)
}

func multiplyForward(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Mul(args[0], args[1])
}

func divideForward(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Div(args[0], args[1])
}

func multiplyVJPLeft(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return unbroadcast(Multiply(g, args[1]), args[0].Shape())
}

func multiplyVJPRight(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return unbroadcast(Multiply(g, args[0]), args[1].Shape())
}

func divideVJPLeft(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return unbroadcast(Divide(g, args[1]), args[0].Shape())
}

func divideVJPRight(g, ans Value, _ autodiff.Attrs, args []Value) Value {
	return unbroadcast(Negative(Multiply(g, Divide(ans, args[1]))), args[1].Shape())
}
