package tensor

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dot computes the NumPy-style dot product for 1-d and 2-d operands:
//
//	(k)   · (k)   -> ()
//	(m,k) @ (k,n) -> (m,n)
//	(m,k) @ (k)   -> (m)
//	(k)   @ (k,n) -> (n)
func Dot(a, b *Array) (*Array, error) {
	switch {
	case a.NDim() == 1 && b.NDim() == 1:
		if a.shape[0] != b.shape[0] {
			return nil, &ShapeError{Op: "dot", Left: a.shape, Right: b.shape, Details: "vector lengths differ"}
		}
		return Scalar(floats.Dot(a.data, b.data)), nil

	case a.NDim() >= 1 && a.NDim() <= 2 && b.NDim() >= 1 && b.NDim() <= 2:
		rows, inner := 1, a.shape[0]
		if a.NDim() == 2 {
			rows, inner = a.shape[0], a.shape[1]
		}
		if b.shape[0] != inner {
			return nil, &ShapeError{Op: "dot", Left: a.shape, Right: b.shape, Details: "inner dimensions differ"}
		}
		cols := 1
		if b.NDim() == 2 {
			cols = b.shape[1]
		}

		am := mat.NewDense(rows, inner, a.data)
		bm := mat.NewDense(inner, cols, b.data)
		data := make([]float64, rows*cols)
		mat.NewDense(rows, cols, data).Mul(am, bm)

		var shape Shape
		switch {
		case a.NDim() == 2 && b.NDim() == 2:
			shape = Shape{rows, cols}
		case a.NDim() == 2:
			shape = Shape{rows}
		default:
			shape = Shape{cols}
		}
		return New(data, shape)

	default:
		return nil, &ShapeError{Op: "dot", Left: a.shape, Right: b.shape, Details: "operands must be 1-d or 2-d"}
	}
}
