// Copyright 2025 The minpy Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autograd

import (
	"github.com/zx0502/minpy/internal/autodiff"
)

// Attrs are the static, non-differentiable parameters of a primitive call.
type Attrs = autodiff.Attrs

// ForwardFunc computes a primitive on concrete arrays.
type ForwardFunc = autodiff.ForwardFunc

// VJPFunc is the derivative rule of a primitive for one input.
type VJPFunc = autodiff.VJPFunc

// ZeroVJP is the rule for inputs the output does not depend on smoothly.
var ZeroVJP VJPFunc = autodiff.ZeroVJP

// RegisterPrimitive adds an operation to the default registry. Exactly one
// VJP must be given per input.
//
// Example:
//
//	autograd.RegisterPrimitive("square", 1,
//	    func(_ autograd.Attrs, args ...*numpy.Array) (*numpy.Array, error) {
//	        return autograd.Concrete(numpy.Multiply(args[0], args[0])), nil
//	    },
//	    func(g, _ autograd.Value, _ autograd.Attrs, args []autograd.Value) autograd.Value {
//	        return numpy.Multiply(g, numpy.Multiply(numpy.Scalar(2), args[0]))
//	    },
//	)
func RegisterPrimitive(name string, arity int, forward ForwardFunc, vjps ...VJPFunc) error {
	return autodiff.Register(name, arity, forward, vjps...)
}

// Apply invokes a registered primitive by name, recording it when any
// argument is traced.
func Apply(name string, attrs Attrs, args ...Value) (Value, error) {
	return autodiff.Apply(name, attrs, args...)
}

// Primitives returns the names of all registered primitives.
func Primitives() []string {
	return autodiff.DefaultRegistry.Names()
}

// Errors

// Sentinel errors re-exported for errors.Is checks.
var (
	ErrUnknownPrimitive           = autodiff.ErrUnknownPrimitive
	ErrIncompleteDerivative       = autodiff.ErrIncompleteDerivative
	ErrDuplicatePrimitive         = autodiff.ErrDuplicatePrimitive
	ErrInvalidPrimitive           = autodiff.ErrInvalidPrimitive
	ErrArity                      = autodiff.ErrArity
	ErrUnsupportedValue           = autodiff.ErrUnsupportedValue
	ErrNonScalarOutputWithoutSeed = autodiff.ErrNonScalarOutputWithoutSeed
	ErrSeedShape                  = autodiff.ErrSeedShape
	ErrVJPShape                   = autodiff.ErrVJPShape
	ErrArgumentIndex              = autodiff.ErrArgumentIndex
	ErrNilOutput                  = autodiff.ErrNilOutput
)

// ArgumentIndexError reports a differentiation target outside the argument list.
type ArgumentIndexError = autodiff.ArgumentIndexError

// GradCheckError reports a mismatch found by CheckGrads.
type GradCheckError = autodiff.GradCheckError
