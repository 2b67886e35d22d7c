package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/autodiff/ops"
	"github.com/zx0502/minpy/internal/nn"
	"github.com/zx0502/minpy/internal/optim"
	"github.com/zx0502/minpy/internal/tensor"
)

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	param := nn.NewParameter("x", tensor.Vector(2.0))
	optimizer := optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{LR: 0.1})

	require.NoError(t, optimizer.Step([]autodiff.Value{tensor.Vector(1.0)}))

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	assert.InDelta(t, 1.9, param.Value().Data()[0], 1e-12)
	assert.Equal(t, []float64{1.0}, param.Grad().Data())
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	param := nn.NewParameter("x", tensor.Vector(1.0))
	optimizer := optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// Step 1: v = 1, x = 1 - 0.1 = 0.9
	require.NoError(t, optimizer.Step([]autodiff.Value{tensor.Vector(1.0)}))
	assert.InDelta(t, 0.9, param.Value().Data()[0], 1e-12)

	// Step 2: v = 0.9 + 1 = 1.9, x = 0.9 - 0.19 = 0.71
	require.NoError(t, optimizer.Step([]autodiff.Value{tensor.Vector(1.0)}))
	assert.InDelta(t, 0.71, param.Value().Data()[0], 1e-12)
}

func TestSGD_Defaults(t *testing.T) {
	optimizer := optim.NewSGD(nil, optim.SGDConfig{})
	assert.Equal(t, 0.01, optimizer.GetLR())
	optimizer.SetLR(0.5)
	assert.Equal(t, 0.5, optimizer.GetLR())
}

func TestSGD_NilGradientSkipped(t *testing.T) {
	a := nn.NewParameter("a", tensor.Vector(1))
	b := nn.NewParameter("b", tensor.Vector(1))
	optimizer := optim.NewSGD([]*nn.Parameter{a, b}, optim.SGDConfig{LR: 1})

	require.NoError(t, optimizer.Step([]autodiff.Value{nil, tensor.Vector(0.5)}))
	assert.Equal(t, 1.0, a.Value().Item())
	assert.Nil(t, a.Grad())
	assert.Equal(t, 0.5, b.Value().Item())

	optimizer.ZeroGrad()
	assert.Nil(t, b.Grad())
}

func TestStep_Validation(t *testing.T) {
	param := nn.NewParameter("x", tensor.Vector(1, 2))
	optimizers := map[string]optim.Optimizer{
		"sgd":  optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{}),
		"adam": optim.NewAdam([]*nn.Parameter{param}, optim.AdamConfig{}),
	}

	for name, o := range optimizers {
		t.Run(name, func(t *testing.T) {
			err := o.Step(nil)
			assert.ErrorIs(t, err, optim.ErrGradCount)

			err = o.Step([]autodiff.Value{tensor.Vector(1, 2, 3)})
			assert.ErrorIs(t, err, optim.ErrGradShape)
			assert.Equal(t, []float64{1, 2}, param.Value().Data(), "failed step must not update")
		})
	}
}

func TestStep_FailedStepKeepsGrads(t *testing.T) {
	a := nn.NewParameter("a", tensor.Vector(1))
	b := nn.NewParameter("b", tensor.Vector(1, 2))
	a.SetGrad(tensor.Vector(0.25))
	optimizer := optim.NewSGD([]*nn.Parameter{a, b}, optim.SGDConfig{LR: 1})

	err := optimizer.Step([]autodiff.Value{nil, tensor.Vector(1, 2, 3)})
	require.ErrorIs(t, err, optim.ErrGradShape)
	require.NotNil(t, a.Grad())
	assert.Equal(t, 0.25, a.Grad().Item())
	assert.Equal(t, 1.0, a.Value().Item())
}

// TestAdam_FirstStep tests that the first bias-corrected step has size lr.
func TestAdam_FirstStep(t *testing.T) {
	param := nn.NewParameter("x", tensor.Vector(1, -1))
	optimizer := optim.NewAdam([]*nn.Parameter{param}, optim.AdamConfig{LR: 0.1})
	assert.Equal(t, 0.1, optimizer.GetLR())

	require.NoError(t, optimizer.Step([]autodiff.Value{tensor.Vector(3, -0.2)}))
	assert.InDeltaSlice(t, []float64{0.9, -0.9}, param.Value().Data(), 1e-6)
}

// TestOptimizers_Minimize tests convergence on f(x) = sum((x - 3)²).
func TestOptimizers_Minimize(t *testing.T) {
	target := tensor.Vector(3, 3)
	f := func(args ...autodiff.Value) (autodiff.Value, error) {
		d := ops.Subtract(args[0], target)
		return ops.Sum(ops.Multiply(d, d)), nil
	}
	df := autodiff.Grad(f)

	tests := []struct {
		name  string
		build func(*nn.Parameter) optim.Optimizer
		steps int
		tol   float64
	}{
		{"sgd", func(p *nn.Parameter) optim.Optimizer {
			return optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.1})
		}, 100, 1e-6},
		{"sgd/momentum", func(p *nn.Parameter) optim.Optimizer {
			return optim.NewSGD([]*nn.Parameter{p}, optim.SGDConfig{LR: 0.05, Momentum: 0.5})
		}, 200, 1e-4},
		{"adam", func(p *nn.Parameter) optim.Optimizer {
			return optim.NewAdam([]*nn.Parameter{p}, optim.AdamConfig{LR: 0.1})
		}, 1000, 5e-2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			param := nn.NewParameter("x", tensor.Vector(0, 6))
			o := tt.build(param)
			for range tt.steps {
				g, err := df(param.Value())
				require.NoError(t, err)
				require.NoError(t, o.Step([]autodiff.Value{g}))
			}
			for _, v := range param.Value().Data() {
				assert.Less(t, math.Abs(v-3), tt.tol)
			}
		})
	}
}
