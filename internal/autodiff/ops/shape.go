package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Transpose permutes the axes of x; with no axes the order is reversed.
//
// Backward: transpose g by the inverse permutation.
func Transpose(x Value, axes ...int) Value {
	return apply("transpose", autodiff.Attrs{Axes: axes}, x)
}

// Reshape gives x a new shape with the same number of elements.
// One dimension may be -1.
//
// Backward: reshape g back to the input's shape.
func Reshape(x Value, shape tensor.Shape) Value {
	return apply("reshape", autodiff.Attrs{Shape: shape}, x)
}

// BroadcastTo expands x to shape following NumPy broadcasting.
//
// Backward: SumTo(g, x.shape).
func BroadcastTo(x Value, shape tensor.Shape) Value {
	return apply("broadcast_to", autodiff.Attrs{Shape: shape}, x)
}

// SumTo sums x down to shape, the reverse of BroadcastTo.
//
// Backward: BroadcastTo(g, x.shape).
func SumTo(x Value, shape tensor.Shape) Value {
	return apply("sum_to", autodiff.Attrs{Shape: shape}, x)
}

func transposeForward(attrs autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Transpose(args[0], attrs.Axes...)
}

func reshapeForward(attrs autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Reshape(args[0], attrs.Shape)
}

func broadcastToForward(attrs autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.BroadcastTo(args[0], attrs.Shape)
}

func sumToForward(attrs autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.SumTo(args[0], attrs.Shape)
}

func transposeVJP(g, _ Value, attrs autodiff.Attrs, args []Value) Value {
	if attrs.Axes == nil {
		return Transpose(g)
	}
	perm, err := tensor.NormalizeAxes(attrs.Axes, args[0].NDim())
	if err != nil {
		panic(err)
	}
	return Transpose(g, tensor.InversePermutation(perm)...)
}

func reshapeVJP(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return Reshape(g, args[0].Shape())
}

func broadcastToVJP(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return SumTo(g, args[0].Shape())
}

func sumToVJP(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	return BroadcastTo(g, args[0].Shape())
}
