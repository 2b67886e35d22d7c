// Copyright 2025 The minpy Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and losses written with the
// numpy operations, so every one of them can be differentiated by autograd.
//
// Example:
//
//	net, err := nn.NewTwoLayerNet(nn.TwoLayerNetConfig{
//	    InputDim:   2,
//	    HiddenDim:  64,
//	    NumClasses: 3,
//	})
//	step := autograd.GradAndLoss(net.Loss, autograd.WithArgnums(nn.ParamArgnums...))
//	grads, loss, err := step(net.Args(x, labels)...)
package nn

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/nn"
	"github.com/zx0502/minpy/internal/serialization"
	"github.com/zx0502/minpy/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and array.
func NewParameter(name string, value *tensor.Array) *Parameter {
	return nn.NewParameter(name, value)
}

// Layers

// Affine computes x @ w + b, flattening x to [N, D].
func Affine(x, w, b autodiff.Value) autodiff.Value {
	return nn.Affine(x, w, b)
}

// ReLU applies max(0, x).
func ReLU(x autodiff.Value) autodiff.Value {
	return nn.ReLU(x)
}

// Sigmoid applies 1 / (1 + exp(-x)).
func Sigmoid(x autodiff.Value) autodiff.Value {
	return nn.Sigmoid(x)
}

// Losses

// SoftmaxLoss computes the mean cross-entropy of softmax(scores) against labels.
//
// Example:
//
//	loss := nn.SoftmaxLoss(scores, []int{0, 2, 1}) // scores: [3, num_classes]
func SoftmaxLoss(scores autodiff.Value, labels []int) autodiff.Value {
	return nn.SoftmaxLoss(scores, labels)
}

// MSELoss computes mean((predictions - targets)²).
func MSELoss(predictions, targets autodiff.Value) autodiff.Value {
	return nn.MSELoss(predictions, targets)
}

// OneHot encodes labels as an [N, numClasses] array.
func OneHot(labels []int, numClasses int) (*tensor.Array, error) {
	return nn.OneHot(labels, numClasses)
}

// Labels encodes class indices as an array argument.
func Labels(ys []int) *tensor.Array {
	return nn.Labels(ys)
}

// Initialization

// Xavier draws a Glorot-uniform array.
func Xavier(fanIn, fanOut int, shape tensor.Shape, seed uint64) *tensor.Array {
	return nn.Xavier(fanIn, fanOut, shape, seed)
}

// Models

// TwoLayerNet is an affine - relu - affine - softmax classifier.
type TwoLayerNet = nn.TwoLayerNet

// TwoLayerNetConfig holds the architecture of a TwoLayerNet.
type TwoLayerNetConfig = nn.TwoLayerNetConfig

// NewTwoLayerNet creates a network with initialized weights.
func NewTwoLayerNet(cfg TwoLayerNetConfig) (*TwoLayerNet, error) {
	return nn.NewTwoLayerNet(cfg)
}

// Scores computes the unnormalized class scores of a two-layer net.
func Scores(x, w1, b1, w2, b2 autodiff.Value) autodiff.Value {
	return nn.Scores(x, w1, b1, w2, b2)
}

// CheckpointMeta records the training state a saved network was taken at.
type CheckpointMeta = serialization.CheckpointMeta

// LoadTwoLayerNet reads a network written by TwoLayerNet.Save.
func LoadTwoLayerNet(path string) (*TwoLayerNet, *CheckpointMeta, error) {
	return nn.LoadTwoLayerNet(path)
}

// Argument positions of TwoLayerNet.Loss.
const (
	ArgX      = nn.ArgX
	ArgW1     = nn.ArgW1
	ArgB1     = nn.ArgB1
	ArgW2     = nn.ArgW2
	ArgB2     = nn.ArgB2
	ArgLabels = nn.ArgLabels
)

// ParamArgnums are the Loss argument positions of the trainable parameters.
var ParamArgnums = nn.ParamArgnums

// Errors

// Errors re-exported for errors.Is checks.
var (
	ErrLabel     = nn.ErrLabel
	ErrArguments = nn.ErrArguments
	ErrConfig    = nn.ErrConfig
	ErrStateDict = nn.ErrStateDict
)

// LabelError reports a class label out of range.
type LabelError = nn.LabelError
