// Copyright 2025 The minpy Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package numpy

import (
	"github.com/zx0502/minpy/internal/autodiff/ops"
)

// Arithmetic (broadcasting)

// Add computes a + b.
func Add(a, b Value) Value { return ops.Add(a, b) }

// Subtract computes a - b.
func Subtract(a, b Value) Value { return ops.Subtract(a, b) }

// Multiply computes a * b.
func Multiply(a, b Value) Value { return ops.Multiply(a, b) }

// Divide computes a / b.
func Divide(a, b Value) Value { return ops.Divide(a, b) }

// Negative computes -x.
func Negative(x Value) Value { return ops.Negative(x) }

// Power computes x ** y.
func Power(x, y Value) Value { return ops.Power(x, y) }

// Maximum computes the elementwise maximum; Maximum(x, Scalar(0)) is ReLU.
func Maximum(a, b Value) Value { return ops.Maximum(a, b) }

// Elementwise math

// Exp computes e ** x.
func Exp(x Value) Value { return ops.Exp(x) }

// Log computes the natural logarithm.
func Log(x Value) Value { return ops.Log(x) }

// Tanh computes the hyperbolic tangent.
func Tanh(x Value) Value { return ops.Tanh(x) }

// Sqrt computes the square root.
func Sqrt(x Value) Value { return ops.Sqrt(x) }

// Linear algebra and shapes

// Dot computes the dot product of 1-D and 2-D operands.
//
// Example:
//
//	numpy.Dot(a, b) // [m, k] @ [k, n] -> [m, n]
func Dot(a, b Value) Value { return ops.Dot(a, b) }

// Transpose permutes the axes of x, reversing them when none are given.
func Transpose(x Value, axes ...int) Value { return ops.Transpose(x, axes...) }

// Reshape gives x a new shape; one dimension may be -1.
func Reshape(x Value, shape Shape) Value { return ops.Reshape(x, shape) }

// BroadcastTo expands x to shape.
func BroadcastTo(x Value, shape Shape) Value { return ops.BroadcastTo(x, shape) }

// SumTo sums x down to shape, the reverse of BroadcastTo.
func SumTo(x Value, shape Shape) Value { return ops.SumTo(x, shape) }

// Reductions (all axes when none are given)

// Sum adds the elements of x over axes.
func Sum(x Value, axes ...int) Value { return ops.Sum(x, axes...) }

// SumKeepDims is Sum keeping reduced axes as size 1.
func SumKeepDims(x Value, axes ...int) Value { return ops.SumKeepDims(x, axes...) }

// Mean averages the elements of x over axes.
func Mean(x Value, axes ...int) Value { return ops.Mean(x, axes...) }

// Max takes the maximum of x over axes.
func Max(x Value, axes ...int) Value { return ops.Max(x, axes...) }

// MaxKeepDims is Max keeping reduced axes as size 1.
func MaxKeepDims(x Value, axes ...int) Value { return ops.MaxKeepDims(x, axes...) }
