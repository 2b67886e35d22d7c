package nn

import (
	"github.com/zx0502/minpy/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are arrays updated in place by an optimizer. They typically
// represent weights and biases of layers.
//
// Example:
//
//	// Create a weight parameter
//	weight := nn.NewParameter("W1", tensor.RandN(tensor.Shape{4, 8}, 1e-3, 0))
//
//	// Access the array
//	w := weight.Value()
//
//	// Get gradient after a Grad call
//	grad := weight.Grad()
type Parameter struct {
	name  string        // Parameter name (e.g., "W1", "b2")
	value *tensor.Array // The parameter array
	grad  *tensor.Array // Gradient from the last backward pass
}

// NewParameter creates a new trainable parameter.
//
// The array should be initialized before creating the Parameter.
// Gradient is nil until SetGrad is called.
func NewParameter(name string, value *tensor.Array) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter array.
func (p *Parameter) Value() *tensor.Array {
	return p.value
}

// Grad returns the gradient array.
//
// Returns nil if no gradient has been stored yet.
func (p *Parameter) Grad() *tensor.Array {
	return p.grad
}

// SetGrad sets the gradient array.
func (p *Parameter) SetGrad(grad *tensor.Array) {
	p.grad = grad
}

// ZeroGrad clears the gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
