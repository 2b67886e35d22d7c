// Package tensor provides the dense float64 array used as the concrete value
// type of the autograd engine.
//
// Arrays are immutable once handed to an operation: every kernel allocates
// its result, so an Array recorded in a trace keeps its forward value for
// the backward pass.
package tensor

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"
)

// Number is the set of Go element types an Array can be built from.
type Number interface {
	constraints.Integer | constraints.Float
}

// Array is a dense, row-major n-dimensional array of float64.
type Array struct {
	shape   Shape
	strides []int
	data    []float64
}

// New creates an Array that takes ownership of data.
func New(data []float64, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrDataLength, shape, shape.NumElements(), len(data))
	}
	return &Array{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    data,
	}, nil
}

// MustNew is New that panics on error.
func MustNew(data []float64, shape Shape) *Array {
	a, err := New(data, shape)
	if err != nil {
		panic(err)
	}
	return a
}

// FromSlice creates an Array from a Go slice of any numeric type.
// The slice is copied and converted to float64.
func FromSlice[T Number](data []T, shape Shape) (*Array, error) {
	converted := make([]float64, len(data))
	for i, v := range data {
		converted[i] = float64(v)
	}
	return New(converted, shape)
}

// Vector creates a 1-d Array holding a copy of values.
func Vector(values ...float64) *Array {
	data := make([]float64, len(values))
	copy(data, values)
	return MustNew(data, Shape{len(values)})
}

// Scalar creates a 0-d Array.
func Scalar(v float64) *Array {
	return &Array{shape: Shape{}, strides: []int{}, data: []float64{v}}
}

// Zeros creates an Array filled with zeros.
func Zeros(shape Shape) *Array {
	return MustNew(make([]float64, shape.NumElements()), shape)
}

// Ones creates an Array filled with ones.
func Ones(shape Shape) *Array {
	return Full(shape, 1)
}

// Full creates an Array filled with value.
func Full(shape Shape, value float64) *Array {
	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = value
	}
	return MustNew(data, shape)
}

// Arange creates a 1-d Array holding 0, 1, ..., n-1.
func Arange(n int) *Array {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	return MustNew(data, Shape{n})
}

// FromMatrix copies a gonum matrix into a 2-d Array.
func FromMatrix(m mat.Matrix) *Array {
	r, c := m.Dims()
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = m.At(i, j)
		}
	}
	return MustNew(data, Shape{r, c})
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// Strides returns the array's row-major strides.
func (a *Array) Strides() []int {
	return a.strides
}

// Size returns the number of elements.
func (a *Array) Size() int {
	return len(a.data)
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.shape)
}

// Data returns the underlying storage.
//
// WARNING: the slice aliases the array. Arrays that took part in a traced
// computation must not be modified.
func (a *Array) Data() []float64 {
	return a.data
}

// Item returns the single element of a size-1 array.
// Panics if the array holds more than one element.
func (a *Array) Item() float64 {
	if len(a.data) != 1 {
		panic(fmt.Sprintf("Item() only works for size-1 arrays, got shape %v", a.shape))
	}
	return a.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array) At(indices ...int) float64 {
	return a.data[a.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array) Set(value float64, indices ...int) {
	a.data[a.offset(indices)] = value
}

func (a *Array) offset(indices []int) int {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(a.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		offset += idx * a.strides[i]
	}
	return offset
}

// Clone creates a deep copy of the array.
func (a *Array) Clone() *Array {
	data := make([]float64, len(a.data))
	copy(data, a.data)
	return &Array{shape: a.shape.Clone(), strides: a.shape.ComputeStrides(), data: data}
}

// Matrix returns a gonum view of a 1-d or 2-d array. A 1-d array is a row.
// The view shares storage with a.
func (a *Array) Matrix() (*mat.Dense, error) {
	switch len(a.shape) {
	case 1:
		return mat.NewDense(1, a.shape[0], a.data), nil
	case 2:
		return mat.NewDense(a.shape[0], a.shape[1], a.data), nil
	default:
		return nil, fmt.Errorf("%w: matrix view needs 1 or 2 dimensions, got shape %v", ErrShapeMismatch, a.shape)
	}
}

// String returns a human-readable representation of the array.
func (a *Array) String() string {
	if len(a.shape) == 0 {
		return fmt.Sprintf("%g", a.data[0])
	}
	var sb strings.Builder
	a.format(&sb, 0, 0)
	return sb.String()
}

func (a *Array) format(sb *strings.Builder, dim, offset int) {
	sb.WriteByte('[')
	for i := 0; i < a.shape[dim]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if dim == len(a.shape)-1 {
			fmt.Fprintf(sb, "%g", a.data[offset+i])
		} else {
			a.format(sb, dim+1, offset+i*a.strides[dim])
		}
	}
	sb.WriteByte(']')
}
