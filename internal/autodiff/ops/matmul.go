package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Dot computes the dot product of 1-d and 2-d operands (see tensor.Dot).
//
// Backward pass for the matrix case C = A @ B:
//   - grad_A = g @ B^T
//   - grad_B = A^T @ g
//
// Vector operands are handled by treating them as a row or column and
// building outer products with Reshape.
func Dot(a, b Value) Value {
	return apply("dot", autodiff.Attrs{}, a, b)
}

func dotForward(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Dot(args[0], args[1])
}

func dotVJPLeft(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	a, b := args[0], args[1]
	switch {
	case a.NDim() == 1 && b.NDim() == 1:
		// (k)·(k) -> (): grad_a = g * b
		return Multiply(g, b)
	case b.NDim() == 1:
		// (m,k)@(k) -> (m): grad_A = outer(g, b)
		return Dot(Reshape(g, tensor.Shape{a.Shape()[0], 1}), Reshape(b, tensor.Shape{1, b.Shape()[0]}))
	case a.NDim() == 1:
		// (k)@(k,n) -> (n): grad_a = B @ g
		return Dot(b, g)
	default:
		return Dot(g, Transpose(b))
	}
}

func dotVJPRight(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	a, b := args[0], args[1]
	switch {
	case a.NDim() == 1 && b.NDim() == 1:
		return Multiply(g, a)
	case b.NDim() == 1:
		// (m,k)@(k) -> (m): grad_b = A^T @ g
		return Dot(Transpose(a), g)
	case a.NDim() == 1:
		// (k)@(k,n) -> (n): grad_B = outer(a, g)
		return Dot(Reshape(a, tensor.Shape{a.Shape()[0], 1}), Reshape(g, tensor.Shape{1, b.Shape()[1]}))
	default:
		return Dot(Transpose(a), g)
	}
}
