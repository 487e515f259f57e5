package structure

import (
	"runtime"
	"sync"
)

// rowWorkers picks the worker count for n rows, giving each at least
// minRows of them.
func rowWorkers(n, minRows int) int {
	workers := runtime.NumCPU()
	if minRows > 0 && n/minRows < workers {
		workers = n / minRows
	}
	return max(workers, 1)
}

// parallelStride runs fn on workers goroutines. Worker w is handed rows
// w, w+workers, w+2*workers and so on, which keeps triangular loops
// (row i pairs with every j > i) evenly shared.
func parallelStride(n, workers int, fn func(first, stride int)) {
	if workers <= 1 || n <= 1 {
		fn(0, 1)
		return
	}
	workers = min(workers, n)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(first int) {
			defer wg.Done()
			fn(first, workers)
		}(w)
	}
	wg.Wait()
}
