package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Sum adds the elements of x over axes (all axes when none are given).
//
// Backward: grad_x = broadcast(g, x.shape), after restoring reduced axes.
func Sum(x Value, axes ...int) Value {
	return apply("sum", autodiff.Attrs{Axes: axes}, x)
}

// SumKeepDims is Sum keeping reduced axes as size 1.
func SumKeepDims(x Value, axes ...int) Value {
	return apply("sum", autodiff.Attrs{Axes: axes, KeepDims: true}, x)
}

// Mean averages the elements of x over axes (all axes when none are given).
//
// Backward: grad_x = broadcast(g, x.shape) / count.
func Mean(x Value, axes ...int) Value {
	return apply("mean", autodiff.Attrs{Axes: axes}, x)
}

// Max takes the maximum of x over axes (all axes when none are given).
//
// Backward: the gradient flows to the positions holding the maximum and is
// split evenly between ties.
func Max(x Value, axes ...int) Value {
	return apply("max", autodiff.Attrs{Axes: axes}, x)
}

// MaxKeepDims is Max keeping reduced axes as size 1.
func MaxKeepDims(x Value, axes ...int) Value {
	return apply("max", autodiff.Attrs{Axes: axes, KeepDims: true}, x)
}

func sumForward(attrs autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Sum(args[0], attrs.Axes, attrs.KeepDims)
}

func meanForward(attrs autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Mean(args[0], attrs.Axes, attrs.KeepDims)
}

func maxForward(attrs autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Max(args[0], attrs.Axes, attrs.KeepDims)
}

// keptShape returns the shape of a reduction of shape over attrs.Axes with
// the reduced axes kept as size 1.
func keptShape(shape tensor.Shape, attrs autodiff.Attrs) tensor.Shape {
	axes, err := tensor.NormalizeAxes(attrs.Axes, len(shape))
	if err != nil {
		panic(err)
	}
	return tensor.ReducedShape(shape, axes, true)
}

// restoreReduced reshapes a reduction result (or its adjoint) so that it
// broadcasts against the reduction's input.
func restoreReduced(g Value, shape tensor.Shape, attrs autodiff.Attrs) Value {
	if attrs.KeepDims {
		return g
	}
	return Reshape(g, keptShape(shape, attrs))
}

func sumVJP(g, _ Value, attrs autodiff.Attrs, args []Value) Value {
	shape := args[0].Shape()
	return BroadcastTo(restoreReduced(g, shape, attrs), shape)
}

func meanVJP(g, ans Value, attrs autodiff.Attrs, args []Value) Value {
	shape := args[0].Shape()
	count := float64(args[0].Size()) / float64(ans.Size())
	return Divide(BroadcastTo(restoreReduced(g, shape, attrs), shape), scalar(count))
}

func maxVJP(g, ans Value, attrs autodiff.Attrs, args []Value) Value {
	x := args[0]
	shape := x.Shape()
	kept := keptShape(shape, attrs)

	// Constant weights: 1/ties at every maximal position, 0 elsewhere.
	best := must(tensor.BroadcastTo(must(tensor.Reshape(concrete(ans), kept)), shape))
	mask := must(tensor.EqualMask(concrete(x), best))
	ties := must(tensor.BroadcastTo(must(tensor.Sum(mask, attrs.Axes, true)), shape))
	weights := must(tensor.Div(mask, ties))

	return Multiply(BroadcastTo(restoreReduced(g, shape, attrs), shape), weights)
}
