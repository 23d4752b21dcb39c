// Package parallel splits index ranges across CPU cores for row-wise derivations.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count under which work stays on the calling goroutine.
const DefaultThreshold = 4096

// Parallelize splits [0, items) into one contiguous chunk per CPU core and calls fn
// for each chunk concurrently. It returns when every chunk is done. fn must only
// write to indices inside its own range.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) inline when items <= threshold and
// falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
