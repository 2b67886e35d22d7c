package ops

import (
	"github.com/zx0502/minpy/internal/autodiff"
	"github.com/zx0502/minpy/internal/tensor"
)

// Power computes x ** y elementwise with broadcasting.
//
// Backward pass:
//   - grad_x = unbroadcast(g * y * x**(y-1))
//   - grad_y = unbroadcast(g * ans * log(x)), taken as 0 where x <= 0
func Power(x, y Value) Value {
	return apply("power", autodiff.Attrs{}, x, y)
}

func powerForward(_ autodiff.Attrs, args ...*tensor.Array) (*tensor.Array, error) {
	return tensor.Pow(args[0], args[1])
}

func powerVJPBase(g, _ Value, _ autodiff.Attrs, args []Value) Value {
	x, y := args[0], args[1]
	dx := Multiply(y, Power(x, Subtract(y, scalar(1))))
	return unbroadcast(Multiply(g, dx), x.Shape())
}

func powerVJPExponent(g, ans Value, _ autodiff.Attrs, args []Value) Value {
	x, y := args[0], args[1]

	// log(x) only where x > 0; elsewhere feed 1 into log and mask the result.
	mask := tensor.PositiveMask(concrete(x))
	fill := tensor.AddConst(1, tensor.Neg(mask))
	safe := Add(Multiply(x, mask), fill)
	logx := Multiply(Log(safe), mask)

	return unbroadcast(Multiply(g, Multiply(ans, logx)), y.Shape())
}
