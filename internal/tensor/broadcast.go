package tensor

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// indexCache memoizes sourceIndices. Training loops broadcast the same
// shapes every step, e.g. a bias [H] against a batch [N, H].
var indexCache = mustIndexCache(256)

func mustIndexCache(size int) *lru.Cache[string, []int] {
	c, err := lru.New[string, []int](size)
	if err != nil {
		panic(err)
	}
	return c
}

// broadcastStrides computes strides for reading an array of inShape as if it
// had outShape. Dimensions that are padded or of size 1 get stride 0.
func broadcastStrides(inShape, outShape Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	// Pad input shape with 1s on the left
	inDim := len(inShape)
	offset := outDim - inDim

	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// sourceIndices returns, for every element of outShape in row-major order,
// the flat index of the input element it reads under broadcasting. The
// result is shared and must not be modified.
func sourceIndices(inShape, outShape Shape) []int {
	key := fmt.Sprint(inShape, outShape)
	if idx, ok := indexCache.Get(key); ok {
		return idx
	}
	idx := computeSourceIndices(inShape, outShape)
	indexCache.Add(key, idx)
	return idx
}

func computeSourceIndices(inShape, outShape Shape) []int {
	n := outShape.NumElements()
	idx := make([]int, n)
	if len(outShape) == 0 {
		return idx
	}

	strides := broadcastStrides(inShape, outShape)
	coords := make([]int, len(outShape))
	flat := 0
	for i := 0; i < n; i++ {
		idx[i] = flat
		// Increment coordinates from the last dimension, carrying left.
		for d := len(outShape) - 1; d >= 0; d-- {
			coords[d]++
			flat += strides[d]
			if coords[d] < outShape[d] {
				break
			}
			flat -= coords[d] * strides[d]
			coords[d] = 0
		}
	}
	return idx
}

// BroadcastTo expands a to shape following NumPy rules.
func BroadcastTo(a *Array, shape Shape) (*Array, error) {
	if a.shape.Equal(shape) {
		return a.Clone(), nil
	}
	out, _, err := BroadcastShapes(a.shape, shape)
	if err != nil || !out.Equal(shape) {
		return nil, &ShapeError{Op: "broadcast_to", Left: a.shape, Right: shape, Details: "cannot broadcast"}
	}

	data := make([]float64, shape.NumElements())
	for i, src := range sourceIndices(a.shape, shape) {
		data[i] = a.data[src]
	}
	return New(data, shape)
}

// SumTo reduces a by summation so that it has shape. It is the reverse of
// broadcasting: leading dimensions are summed away and dimensions where shape
// has size 1 are summed with keepdims.
func SumTo(a *Array, shape Shape) (*Array, error) {
	if a.shape.Equal(shape) {
		return a.Clone(), nil
	}
	out, _, err := BroadcastShapes(shape, a.shape)
	if err != nil || !out.Equal(a.shape) {
		return nil, &ShapeError{Op: "sum_to", Left: a.shape, Right: shape, Details: "target is not broadcastable to source"}
	}

	data := make([]float64, shape.NumElements())
	for i, dst := range sourceIndices(shape, a.shape) {
		data[dst] += a.data[i]
	}
	return New(data, shape)
}

// Reshape returns a copy of a with a new shape of the same size.
// One dimension may be -1 and is then inferred.
func Reshape(a *Array, shape Shape) (*Array, error) {
	resolved := shape.Clone()
	infer := -1
	known := 1
	for i, dim := range resolved {
		if dim == -1 {
			if infer >= 0 {
				return nil, fmt.Errorf("%w: only one dimension can be -1 in %v", ErrInvalidShape, shape)
			}
			infer = i
			continue
		}
		known *= dim
	}
	if infer >= 0 && known > 0 {
		resolved[infer] = len(a.data) / known
	}
	if resolved.NumElements() != len(a.data) {
		return nil, &ShapeError{Op: "reshape", Left: a.shape, Right: shape, Details: "element count differs"}
	}

	data := make([]float64, len(a.data))
	copy(data, a.data)
	return New(data, resolved)
}

// Transpose permutes the axes of a. With no axes the order is reversed.
func Transpose(a *Array, axes ...int) (*Array, error) {
	ndim := len(a.shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		return nil, fmt.Errorf("%w: transpose needs %d axes, got %d", ErrAxis, ndim, len(axes))
	}
	perm, err := NormalizeAxes(axes, ndim)
	if err != nil {
		return nil, err
	}

	outShape := make(Shape, ndim)
	srcStrides := make([]int, ndim)
	for i, ax := range perm {
		outShape[i] = a.shape[ax]
		srcStrides[i] = a.strides[ax]
	}

	data := make([]float64, len(a.data))
	if ndim == 0 {
		copy(data, a.data)
		return New(data, outShape)
	}
	coords := make([]int, ndim)
	src := 0
	for i := range data {
		data[i] = a.data[src]
		for d := ndim - 1; d >= 0; d-- {
			coords[d]++
			src += srcStrides[d]
			if coords[d] < outShape[d] {
				break
			}
			src -= coords[d] * srcStrides[d]
			coords[d] = 0
		}
	}
	return New(data, outShape)
}

// InversePermutation returns the permutation that undoes perm.
func InversePermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}
