// Package nn implements neural network building blocks on top of the
// differentiable array operations.
//
// This package provides:
//   - Parameter: trainable array with its last gradient
//   - Affine, ReLU, Sigmoid: layer functions
//   - SoftmaxLoss, MSELoss: loss functions
//   - TwoLayerNet: affine - relu - affine - softmax classifier
//
// Layers are plain functions of autodiff.Value, so any of their inputs can be
// differentiated with autodiff.Grad.
package nn

import (
	"fmt"

	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/autodiff/ops"
	"github.com/zx0502/minpy/internal/tensor"
)

// Affine computes x @ w + b.
//
// x may have any shape [N, d1, ..., dk]; it is flattened to [N, D] where
// D = d1*...*dk must equal w.Shape()[0]. b has shape [M] and is broadcast
// over the batch.
//
// Example:
//
//	out := nn.Affine(x, w, b) // [N, D] @ [D, M] + [M] -> [N, M]
func Affine(x, w, b autodiff.Value) autodiff.Value {
	if x.NDim() < 1 || w.NDim() != 2 {
		panic(fmt.Sprintf("Affine: expected batched input and 2D weight, got %v and %v", x.Shape(), w.Shape()))
	}
	flat := x
	if x.NDim() != 2 {
		flat = ops.Reshape(x, tensor.Shape{x.Shape()[0], -1})
	}
	if flat.Shape()[1] != w.Shape()[0] {
		panic(fmt.Sprintf("Affine: input has %d features, weight expects %d", flat.Shape()[1], w.Shape()[0]))
	}
	return ops.Add(ops.Dot(flat, w), b)
}

// ReLU applies the element-wise function f(x) = max(0, x).
func ReLU(x autodiff.Value) autodiff.Value {
	return ops.Maximum(x, tensor.Scalar(0))
}

// Sigmoid applies the element-wise function f(x) = 1 / (1 + exp(-x)),
// written as 0.5 * (tanh(x/2) + 1) to stay finite for large |x|.
func Sigmoid(x autodiff.Value) autodiff.Value {
	half := tensor.Scalar(0.5)
	return ops.Multiply(half, ops.Add(ops.Tanh(ops.Multiply(x, half)), tensor.Scalar(1)))
}
