package nn

import (
	"fmt"

	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/autodiff/ops"
	"github.com/zx0502/minpy/internal/tensor"
)

// SoftmaxLoss computes the mean cross-entropy of softmax(scores) against
// integer class labels.
//
// Mathematical Formulation:
//
//	log_probs = scores - max(scores) - log(sum(exp(scores - max(scores))))
//	Loss = -mean(log_probs[i, labels[i]])
//
// The row maximum is taken from the concrete scores and treated as a
// constant; it cancels analytically, so the gradient is
// (softmax(scores) - one_hot(labels)) / N.
//
// scores has shape [N, C]; labels has N entries in [0, C). It panics on
// labels out of range, like the other layer functions.
func SoftmaxLoss(scores autodiff.Value, labels []int) autodiff.Value {
	shape := scores.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("SoftmaxLoss: scores must be 2D [batch_size, num_classes], got %v", shape))
	}
	n, c := shape[0], shape[1]

	hot, err := OneHot(labels, c)
	if err != nil {
		panic(fmt.Sprintf("SoftmaxLoss: %v", err))
	}
	if len(labels) != n {
		panic(fmt.Sprintf("SoftmaxLoss: %d labels for %d rows", len(labels), n))
	}

	rowMax, err := tensor.Max(autodiff.Concrete(scores), []int{1}, true)
	if err != nil {
		panic(err)
	}

	shifted := ops.Subtract(scores, rowMax)
	logZ := ops.Log(ops.SumKeepDims(ops.Exp(shifted), 1))
	logProbs := ops.Subtract(shifted, logZ)

	picked := ops.Sum(ops.Multiply(logProbs, hot))
	return ops.Negative(ops.Divide(picked, tensor.Scalar(float64(n))))
}

// MSELoss computes mean((predictions - targets)²).
func MSELoss(predictions, targets autodiff.Value) autodiff.Value {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}
	diff := ops.Subtract(predictions, targets)
	return ops.Mean(ops.Multiply(diff, diff))
}

// OneHot returns an [N, numClasses] array with a single 1 per row.
func OneHot(labels []int, numClasses int) (*tensor.Array, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrLabel)
	}
	out := tensor.Zeros(tensor.Shape{len(labels), numClasses})
	for i, y := range labels {
		if y < 0 || y >= numClasses {
			return nil, &LabelError{Row: i, Label: y, NumClasses: numClasses}
		}
		out.Set(1, i, y)
	}
	return out, nil
}

// Labels encodes class indices as a float array, so they can be passed
// among the positional arguments of a differentiable function.
func Labels(ys []int) *tensor.Array {
	out := tensor.Zeros(tensor.Shape{len(ys)})
	data := out.Data()
	for i, y := range ys {
		data[i] = float64(y)
	}
	return out
}

// labelsOf decodes an array built by Labels.
func labelsOf(v autodiff.Value) ([]int, error) {
	if v.NDim() != 1 {
		return nil, fmt.Errorf("%w: labels must be 1D, got %v", ErrLabel, v.Shape())
	}
	data := autodiff.Concrete(v).Data()
	ys := make([]int, len(data))
	for i, f := range data {
		ys[i] = int(f)
		if float64(ys[i]) != f {
			return nil, fmt.Errorf("%w: non-integer label %g at row %d", ErrLabel, f, i)
		}
	}
	return ys, nil
}
