package nn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zx0502/minpy/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// The same seed always produces the same array.
func Xavier(fanIn, fanOut int, shape tensor.Shape, seed uint64) *tensor.Array {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	dist := distuv.Uniform{
		Min: -bound,
		Max: bound,
		Src: rand.New(rand.NewPCG(seed, seed+1)),
	}

	out := tensor.Zeros(shape)
	data := out.Data()
	for i := range data {
		data[i] = dist.Rand()
	}
	return out
}

// Randn creates an array with values drawn from N(0, scale²).
func Randn(shape tensor.Shape, scale float64, seed uint64) *tensor.Array {
	return tensor.RandN(shape, scale, seed)
}

// Zeros creates an array filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros(shape tensor.Shape) *tensor.Array {
	return tensor.Zeros(shape)
}
