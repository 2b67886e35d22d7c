package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// TwoLayerNetConfig holds the architecture and initialization of a TwoLayerNet.
type TwoLayerNetConfig struct {
	InputDim    int     // Features per sample (required)
	HiddenDim   int     // Hidden units (default: 100)
	NumClasses  int     // Output classes (default: 10)
	WeightScale float64 // Stddev of the normal weight init; 0 selects Xavier
	Seed        uint64  // Seed for weight initialization
}

// Argument positions of TwoLayerNet.Loss.
const (
	ArgX = iota
	ArgW1
	ArgB1
	ArgW2
	ArgB2
	ArgLabels
	numLossArgs
)

// ParamArgnums are the Loss argument positions holding trainable parameters,
// in the order returned by Params.
var ParamArgnums = []int{ArgW1, ArgB1, ArgW2, ArgB2}

// TwoLayerNet is a fully connected classifier:
//
//	affine - relu - affine - softmax
//
// The parameters live outside the loss function, so that the loss can be
// differentiated with respect to them:
//
//	net, _ := nn.NewTwoLayerNet(nn.TwoLayerNetConfig{InputDim: 2, NumClasses: 3})
//	step := autodiff.GradAndLoss(net.Loss, autodiff.WithArgnums(nn.ParamArgnums...))
//	grads, loss, err := step(net.Args(x, labels)...)
type TwoLayerNet struct {
	cfg TwoLayerNetConfig
	w1  *Parameter // [InputDim, HiddenDim]
	b1  *Parameter // [HiddenDim]
	w2  *Parameter // [HiddenDim, NumClasses]
	b2  *Parameter // [NumClasses]
}

// NewTwoLayerNet creates a network with freshly initialized weights and zero
// biases.
func NewTwoLayerNet(cfg TwoLayerNetConfig) (*TwoLayerNet, error) {
	// Set defaults
	if cfg.HiddenDim == 0 {
		cfg.HiddenDim = 100
	}
	if cfg.NumClasses == 0 {
		cfg.NumClasses = 10
	}
	if cfg.InputDim <= 0 || cfg.HiddenDim < 0 || cfg.NumClasses < 0 || cfg.WeightScale < 0 {
		return nil, fmt.Errorf("%w: %+v", ErrConfig, cfg)
	}

	weights := func(fanIn, fanOut int, seed uint64) *tensor.Array {
		shape := tensor.Shape{fanIn, fanOut}
		if cfg.WeightScale > 0 {
			return Randn(shape, cfg.WeightScale, seed)
		}
		return Xavier(fanIn, fanOut, shape, seed)
	}

	return &TwoLayerNet{
		cfg: cfg,
		w1:  NewParameter("W1", weights(cfg.InputDim, cfg.HiddenDim, cfg.Seed)),
		b1:  NewParameter("b1", Zeros(tensor.Shape{cfg.HiddenDim})),
		w2:  NewParameter("W2", weights(cfg.HiddenDim, cfg.NumClasses, cfg.Seed+1)),
		b2:  NewParameter("b2", Zeros(tensor.Shape{cfg.NumClasses})),
	}, nil
}

// Config returns the configuration with defaults applied.
func (n *TwoLayerNet) Config() TwoLayerNetConfig {
	return n.cfg
}

// Params returns [W1, b1, W2, b2].
func (n *TwoLayerNet) Params() []*Parameter {
	return []*Parameter{n.w1, n.b1, n.w2, n.b2}
}

// Args lays out the positional arguments of Loss for a batch.
func (n *TwoLayerNet) Args(x *tensor.Array, labels []int) []autodiff.Value {
	args := make([]autodiff.Value, numLossArgs)
	args[ArgX] = x
	args[ArgW1] = n.w1.Value()
	args[ArgB1] = n.b1.Value()
	args[ArgW2] = n.w2.Value()
	args[ArgB2] = n.b2.Value()
	args[ArgLabels] = Labels(labels)
	return args
}

// Scores computes the unnormalized class scores [N, NumClasses].
func Scores(x, w1, b1, w2, b2 autodiff.Value) autodiff.Value {
	hidden := ReLU(Affine(x, w1, b1))
	return Affine(hidden, w2, b2)
}

// Loss computes the softmax loss of the network. The arguments are laid out
// as returned by Args: x, W1, b1, W2, b2, labels.
//
// Loss does not read the network's parameters; it uses the ones passed in,
// which makes it a differentiable function of them.
func (n *TwoLayerNet) Loss(args ...autodiff.Value) (autodiff.Value, error) {
	if len(args) != numLossArgs {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArguments, numLossArgs, len(args))
	}
	labels, err := labelsOf(args[ArgLabels])
	if err != nil {
		return nil, err
	}
	if len(labels) != args[ArgX].Shape()[0] {
		return nil, fmt.Errorf("%w: %d labels for batch of %d", ErrLabel, len(labels), args[ArgX].Shape()[0])
	}
	for i, y := range labels {
		if y < 0 || y >= n.cfg.NumClasses {
			return nil, &LabelError{Row: i, Label: y, NumClasses: n.cfg.NumClasses}
		}
	}

	scores := Scores(args[ArgX], args[ArgW1], args[ArgB1], args[ArgW2], args[ArgB2])
	return SoftmaxLoss(scores, labels), nil
}

// Predict returns the arg-max class of every row of x.
func (n *TwoLayerNet) Predict(x *tensor.Array) []int {
	scores := autodiff.Concrete(Scores(x, n.w1.Value(), n.b1.Value(), n.w2.Value(), n.b2.Value()))
	rows, cols := scores.Shape()[0], scores.Shape()[1]
	data := scores.Data()

	preds := make([]int, rows)
	for i := range rows {
		preds[i] = floats.MaxIdx(data[i*cols : (i+1)*cols])
	}
	return preds
}

// Accuracy returns the fraction of rows of x classified as labels. It is 0
// when there are no labels or their count differs from the rows of x.
func (n *TwoLayerNet) Accuracy(x *tensor.Array, labels []int) float64 {
	if len(labels) == 0 || x.NDim() == 0 || len(labels) != x.Shape()[0] {
		return 0
	}
	correct := 0
	for i, p := range n.Predict(x) {
		if p == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}
