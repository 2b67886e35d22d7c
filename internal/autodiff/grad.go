package autodiff

import (
	"slices"

	"github.com/zx0502/minpy/internal/tensor"
)

// Func is a differentiable function of positional values.
type Func func(args ...Value) (Value, error)

// GradAndLossFunc returns the gradients with respect to the configured
// arguments together with the function's own output.
type GradAndLossFunc func(args ...Value) (grads []Value, loss Value, err error)

// Option configures Grad and GradAndLoss.
type Option func(*config)

type config struct {
	argnums  []int
	registry *Registry
}

// WithArgnum differentiates with respect to argument i (default 0).
func WithArgnum(i int) Option {
	return func(c *config) {
		c.argnums = []int{i}
	}
}

// WithArgnums differentiates with respect to several arguments at once.
// Grad returns the gradient of the first; GradAndLoss returns all of them.
func WithArgnums(is ...int) Option {
	return func(c *config) {
		c.argnums = slices.Clone(is)
	}
}

// WithRegistry uses r instead of DefaultRegistry for adjoint accumulation.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		argnums:  []int{0},
		registry: DefaultRegistry,
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.argnums) == 0 {
		c.argnums = []int{0}
	}
	return c
}

// Grad returns a function computing the gradient of f with respect to one
// argument.
//
// Calling the result traces f on the given arguments and runs a backward
// pass seeded with ones of the output's shape: for a scalar output that is
// the ordinary gradient, for an elementwise function it is the elementwise
// derivative. If f's output does not depend on the argument, the gradient is
// zeros shaped like it. Errors returned by f are passed through unchanged.
//
// The returned function is itself a Func, so Grad(Grad(f)) computes second
// derivatives.
//
// Example:
//
//	cube := func(args ...Value) (Value, error) { ... } // x**3
//	d2 := Grad(Grad(cube))
//	g, err := d2(tensor.Scalar(2)) // 12
func Grad(f Func, opts ...Option) Func {
	c := newConfig(opts)
	return func(args ...Value) (Value, error) {
		grads, _, err := c.gradAndLoss(f, args)
		if err != nil {
			return nil, err
		}
		return grads[0], nil
	}
}

// GradAndLoss is like Grad but also returns f's output, and returns one
// gradient per configured argument.
//
// Example:
//
//	step := GradAndLoss(net.Loss, WithArgnums(1, 2, 3, 4))
//	grads, loss, err := step(x, w1, b1, w2, b2, y)
func GradAndLoss(f Func, opts ...Option) GradAndLossFunc {
	c := newConfig(opts)
	return func(args ...Value) ([]Value, Value, error) {
		return c.gradAndLoss(f, args)
	}
}

func (c *config) gradAndLoss(f Func, args []Value) ([]Value, Value, error) {
	for _, i := range c.argnums {
		if i < 0 || i >= len(args) {
			return nil, nil, &ArgumentIndexError{Index: i, NumArgs: len(args)}
		}
	}

	trace := NewTrace()
	defer trace.Close()

	boxed := slices.Clone(args)
	leaves := make([]*Node, len(c.argnums))
	for k, i := range c.argnums {
		if b, ok := boxed[i].(*Box); ok && b.trace == trace {
			leaves[k] = b.node // Same argument requested twice
			continue
		}
		b := trace.NewLeaf(args[i])
		boxed[i] = b
		leaves[k] = b.node
	}

	out, err := f(boxed...)
	if err != nil {
		return nil, nil, err
	}
	if out == nil {
		return nil, nil, ErrNilOutput
	}

	grads := make([]Value, len(c.argnums))
	ob, ok := live(out).(*Box)
	if !ok || ob.trace != trace {
		// Output does not depend on any targeted argument.
		for k, i := range c.argnums {
			grads[k] = tensor.Zeros(args[i].Shape())
		}
		return grads, out, nil
	}

	nodes := trace.Finish(ob.node)
	adjoints, err := Backward(c.registry, nodes, ob.node, tensor.Ones(ob.Shape()))
	if err != nil {
		return nil, nil, err
	}

	for k, i := range c.argnums {
		if g, ok := adjoints[leaves[k].ID]; ok {
			grads[k] = g
		} else {
			grads[k] = tensor.Zeros(args[i].Shape())
		}
	}
	return grads, ob.value, nil
}
