// Package autodiff implements reverse-mode automatic differentiation over
// tensor arrays.
//
// Architecture:
//   - Registry: primitives (forward kernel + one VJP per input) by name
//   - Box: a value carried through a Trace, pointing at its graph Node
//   - Trace: the graph of one forward evaluation, explicit and per call
//   - Backward: walks a finished trace in reverse, accumulating adjoints
//   - Grad: wraps a function so calling it returns a gradient
//
// There is no global "current trace". Apply finds the innermost trace among
// its arguments and records there, recursing into enclosing traces first, so
// nested Grad calls and concurrent callers need no shared state.
//
// Usage:
//
//	square := func(args ...autodiff.Value) (autodiff.Value, error) {
//	    return autodiff.Apply("multiply", autodiff.Attrs{}, args[0], args[0])
//	}
//	dsquare := autodiff.Grad(square)
//	g, _ := dsquare(tensor.Scalar(4)) // 8
package autodiff

import (
	"fmt"

	"github.com/zx0502/minpy/internal/tensor"
)

// Apply invokes the primitive registered under name in DefaultRegistry.
func Apply(name string, attrs Attrs, args ...Value) (Value, error) {
	return DefaultRegistry.Apply(name, attrs, args...)
}

// Apply invokes the primitive registered under name.
//
// With no traced argument the forward kernel runs on the concrete values and
// nothing is recorded. Otherwise the call is recorded in the innermost trace
// among the arguments; arguments not boxed by that trace become leaf nodes.
func (r *Registry) Apply(name string, attrs Attrs, args ...Value) (Value, error) {
	p, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(args) != p.arity {
		return nil, fmt.Errorf("%w: %q takes %d, got %d", ErrArity, name, p.arity, len(args))
	}
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("%w: nil argument %d to %q", ErrUnsupportedValue, i, name)
		}
	}
	return p.apply(attrs, args)
}

func (p *Primitive) apply(attrs Attrs, in []Value) (Value, error) {
	args := make([]Value, len(in))
	for i, a := range in {
		args[i] = live(a)
	}

	top := innermostTrace(args)
	if top == nil {
		concrete := make([]*tensor.Array, len(args))
		for i, a := range args {
			arr, ok := a.(*tensor.Array)
			if !ok {
				return nil, fmt.Errorf("%w: %T passed to %q", ErrUnsupportedValue, a, p.name)
			}
			concrete[i] = arr
		}
		out, err := p.forward(attrs, concrete...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		return out, nil
	}

	unboxed := make([]Value, len(args))
	parents := make([]*Node, len(args))
	for i, a := range args {
		if b, ok := a.(*Box); ok && b.trace == top {
			unboxed[i] = b.value
			parents[i] = b.node
			continue
		}
		unboxed[i] = a
		parents[i] = top.leaf(a)
	}

	// Enclosing traces record the same call on the unboxed values.
	ans, err := p.apply(attrs, unboxed)
	if err != nil {
		return nil, err
	}
	node := top.record(p, attrs, parents, ans)
	return &Box{value: ans, node: node, trace: top}, nil
}

// innermostTrace returns the trace with the largest level among boxed
// arguments, or nil when nothing is traced.
func innermostTrace(args []Value) *Trace {
	var top *Trace
	for _, a := range args {
		b, ok := a.(*Box)
		if !ok {
			continue
		}
		if top == nil || b.trace.level > top.level {
			top = b.trace
		}
	}
	return top
}
