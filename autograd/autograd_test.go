package autograd_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx0502/minpy/autograd"
	"github.com/zx0502/minpy/numpy"
)

func item(v autograd.Value) float64 {
	return autograd.Concrete(v).Item()
}

// The tutorial: the derivative of x² at 4 is 8, and elementwise on a vector.
func TestGrad_Tutorial(t *testing.T) {
	square := func(args ...autograd.Value) (autograd.Value, error) {
		return numpy.Power(args[0], numpy.Scalar(2)), nil
	}
	dsquare := autograd.Grad(square)

	g, err := dsquare(numpy.Scalar(4))
	require.NoError(t, err)
	assert.InDelta(t, 8.0, item(g), 1e-12)

	g, err = dsquare(numpy.Vector(1, 2, 3, 4))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4, 6, 8}, autograd.Concrete(g).Data(), 1e-12)
}

func TestGrad_SecondDerivative(t *testing.T) {
	cube := func(args ...autograd.Value) (autograd.Value, error) {
		return numpy.Power(args[0], numpy.Scalar(3)), nil
	}
	g, err := autograd.Grad(autograd.Grad(cube))(numpy.Scalar(2))
	require.NoError(t, err)
	assert.InDelta(t, 12.0, item(g), 1e-9)
}

func TestGrad_Argnum(t *testing.T) {
	f := func(args ...autograd.Value) (autograd.Value, error) {
		return numpy.Multiply(numpy.Exp(args[0]), args[1]), nil
	}
	g, err := autograd.Grad(f, autograd.WithArgnum(1))(numpy.Scalar(0), numpy.Scalar(5))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, item(g), 1e-12)

	_, err = autograd.Grad(f, autograd.WithArgnum(3))(numpy.Scalar(0), numpy.Scalar(5))
	var aie *autograd.ArgumentIndexError
	assert.ErrorAs(t, err, &aie)
	assert.ErrorIs(t, err, autograd.ErrArgumentIndex)
}

func TestGrad_ErrorPassthrough(t *testing.T) {
	sentinel := errors.New("data not ready")
	f := func(args ...autograd.Value) (autograd.Value, error) { return nil, sentinel }
	_, err := autograd.Grad(f)(numpy.Scalar(1))
	assert.ErrorIs(t, err, sentinel)
}

func TestRegisterPrimitive(t *testing.T) {
	err := autograd.RegisterPrimitive("cube_test", 1,
		func(_ autograd.Attrs, args ...*numpy.Array) (*numpy.Array, error) {
			x := args[0]
			return autograd.Concrete(numpy.Multiply(x, numpy.Multiply(x, x))), nil
		},
		func(g, _ autograd.Value, _ autograd.Attrs, args []autograd.Value) autograd.Value {
			x := args[0]
			return numpy.Multiply(g, numpy.Multiply(numpy.Scalar(3), numpy.Multiply(x, x)))
		},
	)
	if !errors.Is(err, autograd.ErrDuplicatePrimitive) {
		require.NoError(t, err)
	}
	assert.Contains(t, autograd.Primitives(), "cube_test")

	err = autograd.RegisterPrimitive("cube_test", 1, nil)
	assert.Error(t, err)

	f := func(args ...autograd.Value) (autograd.Value, error) {
		return autograd.Apply("cube_test", autograd.Attrs{}, args[0])
	}
	g, err := autograd.Grad(f)(numpy.Scalar(2))
	require.NoError(t, err)
	assert.InDelta(t, 12.0, item(g), 1e-12)

	// The registered rule is itself differentiable.
	g, err = autograd.Grad(autograd.Grad(f))(numpy.Scalar(2))
	require.NoError(t, err)
	assert.InDelta(t, 12.0, item(g), 1e-12)

	assert.NoError(t, autograd.CheckGrads(f, []autograd.Value{numpy.Vector(0.5, -1)}, 1e-6, 1e-6))

	_, err = autograd.Apply("no_such_op", autograd.Attrs{}, numpy.Scalar(1))
	assert.ErrorIs(t, err, autograd.ErrUnknownPrimitive)
}

func TestNumericalGrad(t *testing.T) {
	f := func(args ...autograd.Value) (autograd.Value, error) {
		return numpy.Sum(numpy.Multiply(args[0], args[0])), nil
	}
	g, err := autograd.NumericalGrad(f, []autograd.Value{numpy.Vector(1, -2)}, 0, 1e-6)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, -4}, g.Data(), 1e-6)
}
