// Copyright 2025 The minpy Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package numpy provides the array API that autograd differentiates through.
//
// Arrays are dense, row-major float64 n-d arrays with NumPy broadcasting.
// Every operation accepts both concrete arrays and values traced by
// autograd.Grad, and returns a traced value when any input is traced.
//
// Example:
//
//	x := numpy.NewArray([]float64{1, 2, 3, 4, 5, 6}, numpy.Shape{2, 3})
//	w := numpy.RandN(numpy.Shape{3, 2}, 0.1, 42)
//	y := numpy.Tanh(numpy.Dot(x, w)) // [2, 2]
//
// Operations panic on invalid input (incompatible shapes, bad axes), like
// methods of an array type. autograd.Apply is the error-returning path.
package numpy

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Value is a concrete array or a traced box.
type Value = autodiff.Value

// Array is a concrete n-dimensional array.
type Array = tensor.Array

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} represents a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// Number is the constraint accepted by FromSlice.
type Number = tensor.Number

// Construction

// NewArray creates an array over data with the given shape.
// It panics when len(data) does not match the shape.
func NewArray(data []float64, shape Shape) *Array {
	return tensor.MustNew(data, shape)
}

// FromSlice converts a slice of any integer or float type into an array.
func FromSlice[T Number](data []T, shape Shape) (*Array, error) {
	return tensor.FromSlice(data, shape)
}

// Vector creates a 1-D array.
func Vector(values ...float64) *Array {
	return tensor.Vector(values...)
}

// Scalar creates a 0-D array.
func Scalar(v float64) *Array {
	return tensor.Scalar(v)
}

// Zeros creates an array filled with zeros.
func Zeros(shape Shape) *Array {
	return tensor.Zeros(shape)
}

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array {
	return tensor.Ones(shape)
}

// Full creates an array filled with value.
func Full(shape Shape, value float64) *Array {
	return tensor.Full(shape, value)
}

// Arange returns the vector [0, 1, ..., n-1].
func Arange(n int) *Array {
	return tensor.Arange(n)
}

// RandN draws an array from N(0, scale²). The same seed gives the same array.
func RandN(shape Shape, scale float64, seed uint64) *Array {
	return tensor.RandN(shape, scale, seed)
}

// AllClose reports whether a and b have the same shape and all elements
// within tol of each other.
func AllClose(a, b Value, tol float64) bool {
	return tensor.AllClose(autodiff.Concrete(a), autodiff.Concrete(b), tol)
}
