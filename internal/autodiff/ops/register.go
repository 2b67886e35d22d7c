package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

func init() {
	RegisterAll(autodiff.DefaultRegistry)
}

// RegisterAll registers the standard primitives in r.
// It panics if any of them is already present.
func RegisterAll(r *autodiff.Registry) {
	// Arithmetic
	r.MustRegister("add", 2, addForward, addVJPLeft, addVJPRight)
	r.MustRegister("subtract", 2, subtractForward, addVJPLeft, subtractVJPRight)
	r.MustRegister("multiply", 2, multiplyForward, multiplyVJPLeft, multiplyVJPRight)
	r.MustRegister("divide", 2, divideForward, divideVJPLeft, divideVJPRight)
	r.MustRegister("negative", 1, negativeForward, negativeVJP)
	r.MustRegister("power", 2, powerForward, powerVJPBase, powerVJPExponent)
	r.MustRegister("maximum", 2, maximumForward, maximumVJPLeft, maximumVJPRight)

	// Elementwise math
	r.MustRegister("exp", 1, unaryForward(tensor.Exp), expVJP)
	r.MustRegister("log", 1, unaryForward(tensor.Log), logVJP)
	r.MustRegister("tanh", 1, unaryForward(tensor.Tanh), tanhVJP)
	r.MustRegister("sqrt", 1, unaryForward(tensor.Sqrt), sqrtVJP)

	// Linear algebra and shapes
	r.MustRegister("dot", 2, dotForward, dotVJPLeft, dotVJPRight)
	r.MustRegister("transpose", 1, transposeForward, transposeVJP)
	r.MustRegister("reshape", 1, reshapeForward, reshapeVJP)
	r.MustRegister("broadcast_to", 1, broadcastToForward, broadcastToVJP)
	r.MustRegister("sum_to", 1, sumToForward, sumToVJP)

	// Reductions
	r.MustRegister("sum", 1, sumForward, sumVJP)
	r.MustRegister("mean", 1, meanForward, meanVJP)
	r.MustRegister("max", 1, maxForward, maxVJP)
}
