package numpy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx0502/minpy/autograd"
	"github.com/zx0502/minpy/numpy"
)

func TestConstruction(t *testing.T) {
	a, err := numpy.FromSlice([]int32{1, 2, 3, 4, 5, 6}, numpy.Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, numpy.Shape{2, 3}, a.Shape())

	assert.Equal(t, []float64{0, 1, 2}, numpy.Arange(3).Data())
	assert.Equal(t, []float64{7, 7}, numpy.Full(numpy.Shape{2}, 7).Data())
	assert.Equal(t, []float64{1, 1}, numpy.Ones(numpy.Shape{2}).Data())
	assert.Equal(t, 0, numpy.Scalar(1).NDim())

	assert.Panics(t, func() { numpy.NewArray([]float64{1}, numpy.Shape{2}) })
}

func TestOps_ConcreteResults(t *testing.T) {
	x := numpy.NewArray([]float64{1, 2, 3, 4, 5, 6}, numpy.Shape{2, 3})

	assert.True(t, numpy.AllClose(numpy.Sum(x, 0), numpy.Vector(5, 7, 9), 1e-12))
	assert.True(t, numpy.AllClose(numpy.Mean(x, 1), numpy.Vector(2, 5), 1e-12))
	assert.True(t, numpy.AllClose(numpy.Max(x), numpy.Scalar(6), 1e-12))
	assert.Equal(t, numpy.Shape{3, 2}, numpy.Transpose(x).Shape())
	assert.Equal(t, numpy.Shape{6}, numpy.Reshape(x, numpy.Shape{-1}).Shape())
	assert.Equal(t, numpy.Shape{2, 1}, numpy.SumKeepDims(x, 1).Shape())
	assert.True(t, numpy.AllClose(
		numpy.Subtract(numpy.Add(x, numpy.Scalar(1)), x),
		numpy.Ones(numpy.Shape{2, 3}), 1e-12))

	_, traced := numpy.Add(x, x).(*autograd.Box)
	assert.False(t, traced, "concrete inputs give concrete outputs")
}

// TestLogisticRegression exercises a small model end to end through the
// public packages.
func TestLogisticRegression(t *testing.T) {
	x := numpy.NewArray([]float64{0.5, -1, 1.5, 0.2, -0.3, 0.8}, numpy.Shape{3, 2})
	y := numpy.Vector(1, 0, 1)

	loss := func(args ...autograd.Value) (autograd.Value, error) {
		w := args[0]
		p := numpy.Divide(numpy.Scalar(1), numpy.Add(numpy.Scalar(1), numpy.Exp(numpy.Negative(numpy.Dot(x, w)))))
		ll := numpy.Add(
			numpy.Multiply(y, numpy.Log(p)),
			numpy.Multiply(numpy.Subtract(numpy.Scalar(1), y), numpy.Log(numpy.Subtract(numpy.Scalar(1), p))),
		)
		return numpy.Negative(numpy.Sum(ll)), nil
	}

	w := numpy.Vector(0.1, -0.2)
	assert.NoError(t, autograd.CheckGrads(loss, []autograd.Value{w}, 1e-6, 1e-6))

	// A few steps of gradient descent reduce the loss.
	dloss := autograd.Grad(loss)
	before, err := loss(w)
	require.NoError(t, err)
	for range 20 {
		g, err := dloss(w)
		require.NoError(t, err)
		w = autograd.Concrete(numpy.Subtract(w, numpy.Multiply(numpy.Scalar(0.1), g)))
	}
	after, err := loss(w)
	require.NoError(t, err)
	assert.Less(t, autograd.Concrete(after).Item(), autograd.Concrete(before).Item())
}
