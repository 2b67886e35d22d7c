package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// reduce folds a over axes with f starting from init. Reducing over every
// axis without keepDims yields a 0-d array.
func reduce(a *Array, axes []int, keepDims bool, init float64, f func(acc, x float64) float64) (*Array, error) {
	norm, err := NormalizeAxes(axes, len(a.shape))
	if err != nil {
		return nil, err
	}

	kept := ReducedShape(a.shape, norm, true)
	data := make([]float64, kept.NumElements())
	for i := range data {
		data[i] = init
	}
	for i, dst := range sourceIndices(kept, a.shape) {
		data[dst] = f(data[dst], a.data[i])
	}
	return New(data, ReducedShape(a.shape, norm, keepDims))
}

// Sum adds the elements of a over axes. A nil axes slice sums everything.
func Sum(a *Array, axes []int, keepDims bool) (*Array, error) {
	if axes == nil && !keepDims {
		return Scalar(floats.Sum(a.data)), nil
	}
	return reduce(a, axes, keepDims, 0, func(acc, x float64) float64 { return acc + x })
}

// Mean averages the elements of a over axes.
func Mean(a *Array, axes []int, keepDims bool) (*Array, error) {
	s, err := Sum(a, axes, keepDims)
	if err != nil {
		return nil, err
	}
	return Scale(float64(s.Size())/float64(a.Size()), s), nil
}

// Max takes the maximum of a over axes.
func Max(a *Array, axes []int, keepDims bool) (*Array, error) {
	if axes == nil && !keepDims {
		return Scalar(floats.Max(a.data)), nil
	}
	return reduce(a, axes, keepDims, math.Inf(-1), math.Max)
}
