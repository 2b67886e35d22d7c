// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Example usage:
//
//	optimizer := optim.NewSGD(net.Params(), optim.SGDConfig{LR: 0.1})
//	step := autodiff.GradAndLoss(net.Loss, autodiff.WithArgnums(nn.ParamArgnums...))
//
//	for epoch := range epochs {
//	    grads, loss, err := step(net.Args(x, labels)...)
//	    if err != nil {
//	        return err
//	    }
//	    if err := optimizer.Step(grads); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"errors"
	"fmt"

	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/nn"
	"github.com/zx0502/minpy/internal/tensor"
)

// Common errors.
var (
	ErrGradCount = errors.New("number of gradients does not match number of parameters")
	ErrGradShape = errors.New("gradient shape does not match parameter shape")
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers update model parameters in place based on computed gradients
// to minimize the loss function during training.
type Optimizer interface {
	// Step applies one update. grads[i] is the gradient of parameter i, in
	// the order the parameters were given to the constructor. A nil
	// gradient leaves its parameter unchanged.
	Step(grads []autodiff.Value) error

	// ZeroGrad clears the gradients stored on all parameters.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// attachGrads stores grads on params after checking count and shapes.
func attachGrads(params []*nn.Parameter, grads []autodiff.Value) error {
	if len(grads) != len(params) {
		return fmt.Errorf("%w: %d gradients for %d parameters", ErrGradCount, len(grads), len(params))
	}
	for i, g := range grads {
		if g != nil && !g.Shape().Equal(params[i].Value().Shape()) {
			return fmt.Errorf("%w: %s is %v, gradient is %v",
				ErrGradShape, params[i].Name(), params[i].Value().Shape(), g.Shape())
		}
	}
	for i, g := range grads {
		if g == nil {
			params[i].ZeroGrad()
			continue
		}
		params[i].SetGrad(autodiff.Concrete(g))
	}
	return nil
}

func zeroGrads(params []*nn.Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// stateFor returns the per-parameter state array, allocating zeros on first use.
func stateFor(m map[*nn.Parameter]*tensor.Array, p *nn.Parameter) *tensor.Array {
	s, ok := m[p]
	if !ok {
		s = tensor.Zeros(p.Value().Shape())
		m[p] = s
	}
	return s
}

var (
	_ Optimizer = (*SGD)(nil)
	_ Optimizer = (*Adam)(nil)
)
