// Copyright 2025 The minpy Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autograd provides reverse-mode automatic differentiation of
// functions written with the numpy package.
//
// Grad turns a function into a function computing its gradient. Operations
// on traced values are recorded as they run; a backward pass then applies the
// derivative rule of every recorded primitive in reverse order.
//
// Example:
//
//	import (
//	    "github.com/zx0502/minpy/autograd"
//	    "github.com/zx0502/minpy/numpy"
//	)
//
//	func main() {
//	    square := func(args ...autograd.Value) (autograd.Value, error) {
//	        return numpy.Power(args[0], numpy.Scalar(2)), nil
//	    }
//	    g, _ := autograd.Grad(square)(numpy.Scalar(4)) // 8
//
//	    // Gradients are differentiable too
//	    cube := func(args ...autograd.Value) (autograd.Value, error) {
//	        return numpy.Power(args[0], numpy.Scalar(3)), nil
//	    }
//	    h, _ := autograd.Grad(autograd.Grad(cube))(numpy.Scalar(2)) // 12
//	}
package autograd

import (
	"github.com/zx0502/minpy/internal/autodiff"
	_ "github.com/zx0502/minpy/internal/autodiff/ops" // registers the standard primitives
	"github.com/zx0502/minpy/internal/tensor"
)

// Value is anything Grad can differentiate through: a concrete array or a
// traced box.
type Value = autodiff.Value

// Box is a value being traced.
type Box = autodiff.Box

// Func is a differentiable function of positional values.
type Func = autodiff.Func

// GradAndLossFunc returns gradients together with the function's output.
type GradAndLossFunc = autodiff.GradAndLossFunc

// Option configures Grad and GradAndLoss.
type Option = autodiff.Option

// Grad returns a function computing the gradient of f with respect to one
// argument (the first unless WithArgnum says otherwise).
//
// Example:
//
//	df := autograd.Grad(f, autograd.WithArgnum(1))
//	g, err := df(x, y) // d f(x, y) / dy
func Grad(f Func, opts ...Option) Func {
	return autodiff.Grad(f, opts...)
}

// GradAndLoss is like Grad but also returns f's output and one gradient per
// argument selected with WithArgnums.
func GradAndLoss(f Func, opts ...Option) GradAndLossFunc {
	return autodiff.GradAndLoss(f, opts...)
}

// WithArgnum differentiates with respect to argument i.
func WithArgnum(i int) Option {
	return autodiff.WithArgnum(i)
}

// WithArgnums differentiates with respect to several arguments.
func WithArgnums(is ...int) Option {
	return autodiff.WithArgnums(is...)
}

// CheckGrads compares Grad(f) with central finite differences for every
// argument and returns a *GradCheckError on the first mismatch.
func CheckGrads(f Func, args []Value, eps, tol float64) error {
	return autodiff.CheckGrads(f, args, eps, tol)
}

// NumericalGrad estimates the gradient of sum(f) by central differences.
func NumericalGrad(f Func, args []Value, argnum int, eps float64) (*tensor.Array, error) {
	return autodiff.NumericalGrad(f, args, argnum, eps)
}

// Concrete strips all tracing and returns the underlying array.
func Concrete(v Value) *tensor.Array {
	return autodiff.Concrete(v)
}
