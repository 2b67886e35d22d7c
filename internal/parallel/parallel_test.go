package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var counter int64
	seen := make([]int32, 1000)
	For(len(seen), func(i int) {
		atomic.AddInt64(&counter, 1)
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	assert.Equal(t, int64(1000), counter)
	for i, v := range seen {
		assert.Equal(t, int32(1), v, "index %d", i)
	}
}

func TestRange_ChunksCoverInput(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 10}

	var chunks, covered int64
	Range(100, func(start, end int) {
		assert.Less(t, start, end)
		atomic.AddInt64(&chunks, 1)
		atomic.AddInt64(&covered, int64(end-start))
	}, cfg)

	assert.Equal(t, int64(100), covered)
	assert.Equal(t, int64(3), chunks)
}

func TestRange_Sequential(t *testing.T) {
	tests := []struct {
		name string
		n    int
		cfg  Config
	}{
		{"disabled", 100, Config{Enabled: false, NumWorkers: 4, MinChunkSize: 1}},
		{"single worker", 100, Config{Enabled: true, NumWorkers: 1, MinChunkSize: 1}},
		{"small input", 15, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			Range(tt.n, func(start, end int) {
				calls++
				assert.Equal(t, 0, start)
				assert.Equal(t, tt.n, end)
			}, tt.cfg)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestRange_Empty(t *testing.T) {
	Range(0, func(_, _ int) { t.Fatal("called on empty range") }, DefaultConfig())
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 1024
	n := 1 << 16

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfgSeq)
		}
	})
}
