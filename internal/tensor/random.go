package tensor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// RandN fills an array of shape with draws from N(0, scale²).
// The same seed always yields the same array.
func RandN(shape Shape, scale float64, seed uint64) *Array {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: scale,
		Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
	data := make([]float64, shape.NumElements())
	for i := range data {
		data[i] = dist.Rand()
	}
	return MustNew(data, shape)
}
