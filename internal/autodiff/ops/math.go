package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Exp computes e**x elementwise.
//
// Since d(exp(x))/dx = exp(x) = ans: grad_x = g * ans.
func Exp(x Value) Value {
	return apply("exp", autodiff.Attrs{}, x)
}

// Log computes the natural logarithm elementwise. Input values must be
// positive.
//
// Backward: grad_x = g / x.
func Log(x Value) Value {
	return apply("log", autodiff.Attrs{}, x)
}

// Tanh computes the hyperbolic tangent elementwise.
//
// Backward: grad_x = g * (1 - ans²).
func Tanh(x Value) Value {
	return apply("tanh", autodiff.Attrs{}, x)
}

// Sqrt computes the square root elementwise.
//
// Backward: grad_x = g * 0.5 / ans.
func Sqrt(x Value) Value {
	return apply("sqrt", autodiff.Attrs{}, x)
}

func unaryForward(f func(*tensor.Array) *tensor.Array) autodiff.ForwardFunc {
	return func(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
		return f(args[0]), nil
	}
}

func expVJP(g, ans Value, _ autodiff.Attrs, _ []Value) Value {
	return Multiply(g, ans)
}

func logVJP(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return Divide(g, args[0])
}

func tanhVJP(g, ans Value, _ autodiff.Attrs, _ []Value) Value {
	return Multiply(g, Subtract(scalar(1), Multiply(ans, ans)))
}

func sqrtVJP(g, ans Value, _ autodiff.Attrs, _ []Value) Value {
	return Divide(Multiply(g, scalar(0.5)), ans)
}
