package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/nn"
	"github.com/zx0502/minpy/internal/tensor"
)

func TestAffine(t *testing.T) {
	x := tensor.MustNew([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	w := tensor.MustNew([]float64{1, 0, -1, 0, 1, 2}, tensor.Shape{2, 3})
	b := tensor.Vector(0.5, 0.5, 0.5)

	out := autodiff.Concrete(nn.Affine(x, w, b))
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float64{1.5, 2.5, 3.5, 3.5, 4.5, 5.5}, out.Data())

	// Higher-rank input is flattened per sample.
	x3 := tensor.MustNew([]float64{1, 2, 3, 4}, tensor.Shape{2, 1, 2})
	assert.Equal(t, out.Data(), autodiff.Concrete(nn.Affine(x3, w, b)).Data())

	assert.Panics(t, func() { nn.Affine(tensor.Zeros(tensor.Shape{2, 3}), w, b) })
}

func TestReLUAndSigmoid(t *testing.T) {
	x := tensor.Vector(-2, 0.5, 3)
	assert.Equal(t, []float64{0, 0.5, 3}, autodiff.Concrete(nn.ReLU(x)).Data())

	s := autodiff.Concrete(nn.Sigmoid(x)).Data()
	for i, v := range x.Data() {
		assert.InDelta(t, 1/(1+math.Exp(-v)), s[i], 1e-12)
	}
}

func TestSoftmaxLoss_Value(t *testing.T) {
	// Uniform scores: loss is log(C).
	scores := tensor.Zeros(tensor.Shape{4, 5})
	loss := autodiff.Concrete(nn.SoftmaxLoss(scores, []int{0, 1, 2, 4}))
	assert.InDelta(t, math.Log(5), loss.Item(), 1e-12)

	// Large scores stay finite.
	big := tensor.MustNew([]float64{1000, 0, 1000, 1000}, tensor.Shape{2, 2})
	loss = autodiff.Concrete(nn.SoftmaxLoss(big, []int{0, 1}))
	assert.InDelta(t, math.Log(2)/2, loss.Item(), 1e-9)

	assert.Panics(t, func() { nn.SoftmaxLoss(scores, []int{0, 1, 2, 5}) })
}

func TestSoftmaxLoss_Gradient(t *testing.T) {
	scores := tensor.MustNew([]float64{1, 2, 0.5, -1, 0, 3}, tensor.Shape{2, 3})
	labels := []int{1, 2}

	f := func(args ...autodiff.Value) (autodiff.Value, error) {
		return nn.SoftmaxLoss(args[0], labels), nil
	}
	g, err := autodiff.Grad(f)(scores)
	require.NoError(t, err)

	// (softmax - one_hot) / N
	data := scores.Data()
	got := autodiff.Concrete(g).Data()
	for i := range 2 {
		row := data[i*3 : (i+1)*3]
		var z float64
		for _, v := range row {
			z += math.Exp(v)
		}
		for j, v := range row {
			want := math.Exp(v) / z
			if j == labels[i] {
				want--
			}
			assert.InDelta(t, want/2, got[i*3+j], 1e-12)
		}
	}

	assert.NoError(t, autodiff.CheckGrads(f, []autodiff.Value{scores}, 1e-6, 1e-6))
}

func TestMSELoss(t *testing.T) {
	loss := nn.MSELoss(tensor.Vector(1, 2, 3), tensor.Vector(1, 0, 0))
	assert.InDelta(t, 13.0/3, autodiff.Concrete(loss).Item(), 1e-12)
	assert.Panics(t, func() { nn.MSELoss(tensor.Vector(1), tensor.Vector(1, 2)) })
}

func TestOneHot(t *testing.T) {
	hot, err := nn.OneHot([]int{2, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0}, hot.Data())

	_, err = nn.OneHot([]int{3}, 3)
	var le *nn.LabelError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 3, le.Label)
	assert.ErrorIs(t, err, nn.ErrLabel)
}

func TestXavier_Deterministic(t *testing.T) {
	a := nn.Xavier(4, 6, tensor.Shape{4, 6}, 3)
	b := nn.Xavier(4, 6, tensor.Shape{4, 6}, 3)
	assert.Equal(t, a.Data(), b.Data())

	bound := math.Sqrt(6.0 / 10)
	for _, v := range a.Data() {
		assert.LessOrEqual(t, math.Abs(v), bound)
	}
}

func TestTwoLayerNet_Config(t *testing.T) {
	net, err := nn.NewTwoLayerNet(nn.TwoLayerNetConfig{InputDim: 3})
	require.NoError(t, err)
	assert.Equal(t, 100, net.Config().HiddenDim)
	assert.Equal(t, 10, net.Config().NumClasses)

	params := net.Params()
	require.Len(t, params, 4)
	assert.Equal(t, "W1", params[0].Name())
	assert.Equal(t, tensor.Shape{3, 100}, params[0].Value().Shape())
	assert.Equal(t, tensor.Shape{10}, params[3].Value().Shape())

	_, err = nn.NewTwoLayerNet(nn.TwoLayerNetConfig{})
	assert.ErrorIs(t, err, nn.ErrConfig)
}

func TestTwoLayerNet_LossAndGradients(t *testing.T) {
	net, err := nn.NewTwoLayerNet(nn.TwoLayerNetConfig{
		InputDim:    4,
		HiddenDim:   5,
		NumClasses:  3,
		WeightScale: 0.5,
		Seed:        11,
	})
	require.NoError(t, err)

	x := tensor.RandN(tensor.Shape{6, 4}, 1, 12)
	labels := []int{0, 1, 2, 2, 1, 0}
	args := net.Args(x, labels)

	grads, loss, err := autodiff.GradAndLoss(net.Loss, autodiff.WithArgnums(nn.ParamArgnums...))(args...)
	require.NoError(t, err)
	require.Len(t, grads, 4)
	assert.Greater(t, autodiff.Concrete(loss).Item(), 0.0)
	for i, p := range net.Params() {
		assert.Equal(t, p.Value().Shape(), grads[i].Shape(), p.Name())
	}

	// Finite differences over the parameters only.
	lossOfParams := func(params ...autodiff.Value) (autodiff.Value, error) {
		full := append([]autodiff.Value{x}, params...)
		full = append(full, nn.Labels(labels))
		return net.Loss(full...)
	}
	params := []autodiff.Value{args[nn.ArgW1], args[nn.ArgB1], args[nn.ArgW2], args[nn.ArgB2]}
	assert.NoError(t, autodiff.CheckGrads(lossOfParams, params, 1e-6, 1e-5))
}

func TestTwoLayerNet_LossErrors(t *testing.T) {
	net, err := nn.NewTwoLayerNet(nn.TwoLayerNetConfig{InputDim: 2, HiddenDim: 3, NumClasses: 2})
	require.NoError(t, err)
	x := tensor.Zeros(tensor.Shape{2, 2})

	_, err = net.Loss(x)
	assert.ErrorIs(t, err, nn.ErrArguments)

	_, err = net.Loss(net.Args(x, []int{0, 2})...)
	assert.ErrorIs(t, err, nn.ErrLabel)

	_, err = net.Loss(net.Args(x, []int{0})...)
	assert.ErrorIs(t, err, nn.ErrLabel)

	args := net.Args(x, []int{0, 1})
	args[nn.ArgLabels] = tensor.Vector(0, 0.5)
	_, err = net.Loss(args...)
	assert.ErrorIs(t, err, nn.ErrLabel)
}

func TestTwoLayerNet_Predict(t *testing.T) {
	net, err := nn.NewTwoLayerNet(nn.TwoLayerNetConfig{InputDim: 2, HiddenDim: 4, NumClasses: 3, Seed: 1})
	require.NoError(t, err)

	// Steer all scores to class 2 through the output bias.
	b2 := net.Params()[3].Value()
	b2.Set(100, 2)

	x := tensor.RandN(tensor.Shape{5, 2}, 0.1, 2)
	assert.Equal(t, []int{2, 2, 2, 2, 2}, net.Predict(x))
	assert.Equal(t, 1.0, net.Accuracy(x, []int{2, 2, 2, 2, 2}))
	assert.Equal(t, 0.0, net.Accuracy(x, []int{0, 0, 0, 0, 0}))

	// Mismatched label counts score zero instead of indexing past the end.
	assert.Equal(t, 0.0, net.Accuracy(x, []int{2, 2}))
	assert.Equal(t, 0.0, net.Accuracy(x, []int{2, 2, 2, 2, 2, 2}))
}

func TestParameter(t *testing.T) {
	p := nn.NewParameter("w", tensor.Vector(1, 2))
	assert.Nil(t, p.Grad())
	p.SetGrad(tensor.Vector(0.1, 0.2))
	assert.Equal(t, []float64{0.1, 0.2}, p.Grad().Data())
	p.ZeroGrad()
	assert.Nil(t, p.Grad())
}
