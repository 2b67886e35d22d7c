package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/zx0502/minpy/internal/parallel"
)

// kernelConfig splits large elementwise kernels over goroutines.
var kernelConfig = parallel.DefaultConfig()

// binary applies f elementwise under broadcasting. When both operands have
// the same shape and fast is non-nil, the gonum slice kernel is used.
func binary(op string, a, b *Array, fast func(dst, s, t []float64) []float64, f func(x, y float64) float64) (*Array, error) {
	if a.shape.Equal(b.shape) {
		dst := make([]float64, len(a.data))
		if fast != nil {
			fast(dst, a.data, b.data)
		} else {
			parallel.Range(len(dst), func(start, end int) {
				for i := start; i < end; i++ {
					dst[i] = f(a.data[i], b.data[i])
				}
			}, kernelConfig)
		}
		return New(dst, a.shape)
	}

	out, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		if se, ok := err.(*ShapeError); ok {
			se.Op = op
		}
		return nil, err
	}

	ai := sourceIndices(a.shape, out)
	bi := sourceIndices(b.shape, out)
	dst := make([]float64, out.NumElements())
	parallel.Range(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(a.data[ai[i]], b.data[bi[i]])
		}
	}, kernelConfig)
	return New(dst, out)
}

// unary applies f to every element.
func unary(a *Array, f func(x float64) float64) *Array {
	dst := make([]float64, len(a.data))
	parallel.Range(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(a.data[i])
		}
	}, kernelConfig)
	return &Array{shape: a.shape.Clone(), strides: a.shape.ComputeStrides(), data: dst}
}

// Add computes a + b elementwise with broadcasting.
func Add(a, b *Array) (*Array, error) {
	return binary("add", a, b, floats.AddTo, func(x, y float64) float64 { return x + y })
}

// Sub computes a - b elementwise with broadcasting.
func Sub(a, b *Array) (*Array, error) {
	return binary("subtract", a, b, floats.SubTo, func(x, y float64) float64 { return x - y })
}

// Mul computes a * b elementwise with broadcasting.
func Mul(a, b *Array) (*Array, error) {
	return binary("multiply", a, b, floats.MulTo, func(x, y float64) float64 { return x * y })
}

// Div computes a / b elementwise with broadcasting.
func Div(a, b *Array) (*Array, error) {
	return binary("divide", a, b, floats.DivTo, func(x, y float64) float64 { return x / y })
}

// Pow computes a ** b elementwise with broadcasting.
func Pow(a, b *Array) (*Array, error) {
	return binary("power", a, b, nil, math.Pow)
}

// Maximum computes the elementwise maximum of a and b with broadcasting.
func Maximum(a, b *Array) (*Array, error) {
	return binary("maximum", a, b, nil, math.Max)
}

// BalancedEq returns 1 where x > y, 0.5 where x == y and 0 elsewhere.
// It splits the derivative of maximum evenly between tied operands.
func BalancedEq(a, b *Array) (*Array, error) {
	return binary("balanced_eq", a, b, nil, func(x, y float64) float64 {
		switch {
		case x > y:
			return 1
		case x == y:
			return 0.5
		default:
			return 0
		}
	})
}

// EqualMask returns 1 where a == b and 0 elsewhere.
func EqualMask(a, b *Array) (*Array, error) {
	return binary("equal", a, b, nil, func(x, y float64) float64 {
		if x == y {
			return 1
		}
		return 0
	})
}

// PositiveMask returns 1 where a > 0 and 0 elsewhere.
func PositiveMask(a *Array) *Array {
	return unary(a, func(x float64) float64 {
		if x > 0 {
			return 1
		}
		return 0
	})
}

// Neg computes -a.
func Neg(a *Array) *Array {
	out := a.Clone()
	floats.Scale(-1, out.data)
	return out
}

// Scale computes c * a.
func Scale(c float64, a *Array) *Array {
	out := a.Clone()
	floats.Scale(c, out.data)
	return out
}

// AddConst computes a + c.
func AddConst(c float64, a *Array) *Array {
	out := a.Clone()
	floats.AddConst(c, out.data)
	return out
}

// Exp computes e**a elementwise.
func Exp(a *Array) *Array {
	return unary(a, math.Exp)
}

// Log computes the natural logarithm elementwise.
func Log(a *Array) *Array {
	return unary(a, math.Log)
}

// Tanh computes the hyperbolic tangent elementwise.
func Tanh(a *Array) *Array {
	return unary(a, math.Tanh)
}

// Sqrt computes the square root elementwise.
func Sqrt(a *Array) *Array {
	return unary(a, math.Sqrt)
}

// AllClose reports whether a and b have equal shapes and every pair of
// elements is within tol.
func AllClose(a, b *Array, tol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	return floats.EqualApprox(a.data, b.data, tol)
}
