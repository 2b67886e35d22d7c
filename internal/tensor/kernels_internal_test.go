package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx0502/minpy/internal/parallel"
)

// withKernelConfig runs f with the elementwise kernels split into small
// chunks, so the concurrent path is exercised on small inputs.
func withKernelConfig(t *testing.T, cfg parallel.Config, f func()) {
	t.Helper()
	saved := kernelConfig
	kernelConfig = cfg
	defer func() { kernelConfig = saved }()
	f()
}

func TestKernels_ParallelMatchesSequential(t *testing.T) {
	a := RandN(Shape{40, 30}, 1, 1)
	b := RandN(Shape{30}, 1, 2)

	run := func() (sum, pow, exp *Array) {
		var err error
		sum, err = Add(a, b)
		require.NoError(t, err)
		pow, err = Pow(Exp(a), b)
		require.NoError(t, err)
		return sum, pow, Tanh(a)
	}

	var seqSum, seqPow, seqTanh *Array
	withKernelConfig(t, parallel.Config{Enabled: false}, func() {
		seqSum, seqPow, seqTanh = run()
	})
	withKernelConfig(t, parallel.Config{Enabled: true, NumWorkers: 7, MinChunkSize: 16}, func() {
		parSum, parPow, parTanh := run()
		assert.Equal(t, seqSum.Data(), parSum.Data())
		assert.Equal(t, seqPow.Data(), parPow.Data())
		assert.Equal(t, seqTanh.Data(), parTanh.Data())
	})
}

func TestSourceIndices_Cached(t *testing.T) {
	first := sourceIndices(Shape{3}, Shape{2, 3})
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, first)

	second := sourceIndices(Shape{3}, Shape{2, 3})
	assert.Same(t, &first[0], &second[0])

	col := sourceIndices(Shape{2, 1}, Shape{2, 3})
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, col)
}
