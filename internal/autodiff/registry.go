package autodiff

import (
	"fmt"
	"slices"
	"sync"

	"github.com/zx0502/minpy/internal/tensor"
)

// Attrs holds the static, non-differentiable parameters of a primitive call.
type Attrs struct {
	Axes     []int        // Reduction or permutation axes; nil means all
	KeepDims bool         // Keep reduced axes as size 1
	Shape    tensor.Shape // Target shape for reshape, broadcast_to, sum_to
}

// ForwardFunc computes a primitive on concrete arrays.
type ForwardFunc func(attrs Attrs, args ...*tensor.Array) (*tensor.Array, error)

// VJPFunc computes the contribution of one input to the adjoint of a
// primitive: given the incoming adjoint g, the forward output ans and the
// forward inputs args, it returns g·∂ans/∂args[i] with the shape of args[i].
//
// VJPs must be written with primitives (never by unboxing), so that under
// nested differentiation the enclosing trace records them too. A nil result
// means a zero contribution.
type VJPFunc func(g, ans Value, attrs Attrs, args []Value) Value

// ZeroVJP is the derivative rule for inputs the output is constant in.
func ZeroVJP(Value, Value, Attrs, []Value) Value {
	return nil
}

// Primitive is a registered operation: a forward kernel plus one VJP per
// positional input.
type Primitive struct {
	name    string
	arity   int
	forward ForwardFunc
	vjps    []VJPFunc
}

// Name returns the registered name.
func (p *Primitive) Name() string {
	return p.name
}

// Arity returns the number of positional inputs.
func (p *Primitive) Arity() int {
	return p.arity
}

// Registry maps primitive names to their definitions.
//
// The default registry is filled from init functions and only read after
// that; the lock keeps later registrations safe as well.
type Registry struct {
	mu    sync.RWMutex
	prims map[string]*Primitive
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{prims: make(map[string]*Primitive)}
}

// DefaultRegistry is the process-wide registry used by Apply and Grad.
var DefaultRegistry = NewRegistry()

// Register adds a primitive with the given arity. Exactly one VJP must be
// supplied per input; use ZeroVJP for inputs without a derivative.
func (r *Registry) Register(name string, arity int, forward ForwardFunc, vjps ...VJPFunc) error {
	if name == "" || arity < 0 || forward == nil {
		return fmt.Errorf("%w: name %q, arity %d", ErrInvalidPrimitive, name, arity)
	}
	if len(vjps) != arity {
		return fmt.Errorf("%w: %q takes %d inputs but %d rules were given", ErrIncompleteDerivative, name, arity, len(vjps))
	}
	for i, vjp := range vjps {
		if vjp == nil {
			return fmt.Errorf("%w: %q has no rule for input %d", ErrIncompleteDerivative, name, i)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.prims[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePrimitive, name)
	}
	r.prims[name] = &Primitive{
		name:    name,
		arity:   arity,
		forward: forward,
		vjps:    slices.Clone(vjps),
	}
	return nil
}

// MustRegister is Register that panics on error. Intended for init functions.
func (r *Registry) MustRegister(name string, arity int, forward ForwardFunc, vjps ...VJPFunc) {
	if err := r.Register(name, arity, forward, vjps...); err != nil {
		panic(err)
	}
}

// Lookup returns the primitive registered under name.
func (r *Registry) Lookup(name string) (*Primitive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prims[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrimitive, name)
	}
	return p, nil
}

// Names returns the registered primitive names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.prims))
	for name := range r.prims {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Register adds a primitive to DefaultRegistry.
func Register(name string, arity int, forward ForwardFunc, vjps ...VJPFunc) error {
	return DefaultRegistry.Register(name, arity, forward, vjps...)
}
