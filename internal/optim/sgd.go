package optim

import (
	"gonum.org/v1/gonum/floats"

	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/nn"
	"github.com/zx0502/minpy/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(net.Params(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities map[*nn.Parameter]*tensor.Array
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter]*tensor.Array),
	}
}

// Step performs a single optimization step.
//
// Parameters with a nil gradient (not connected to the loss) are skipped.
func (s *SGD) Step(grads []autodiff.Value) error {
	if err := attachGrads(s.params, grads); err != nil {
		return err
	}

	for _, param := range s.params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		update := grad.Data()
		if s.momentum != 0 {
			// velocity = momentum * velocity + grad
			v := stateFor(s.velocities, param).Data()
			floats.Scale(s.momentum, v)
			floats.Add(v, update)
			update = v
		}

		// param -= lr * update
		floats.AddScaled(param.Value().Data(), -s.lr, update)
	}
	return nil
}

// ZeroGrad clears all parameter gradients.
func (s *SGD) ZeroGrad() {
	zeroGrads(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate, e.g. for decay schedules.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
