package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{1, 7, 1000, 10007} {
		hits := make([]int32, n)
		Parallelize(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestParallelizeWithThreshold(t *testing.T) {
	var calls int32
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, int32(1), calls)

	calls = 0
	ParallelizeWithThreshold(0, 100, func(start, end int) { atomic.AddInt32(&calls, 1) })
	assert.Equal(t, int32(0), calls)
}
