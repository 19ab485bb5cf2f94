// Package parallel runs independent per-block work across goroutines.
//
// Work is split into contiguous index ranges, one per worker. Callers write
// results into per-index slots, so output order never depends on scheduling.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Config configures parallel processing behavior.
type Config struct {
	// NumWorkers is the number of worker goroutines. 0 means runtime.GOMAXPROCS(0).
	NumWorkers int

	// GrainSize is the minimum work items per worker before parallelization.
	// If total work items <= GrainSize * NumWorkers, runs sequentially.
	GrainSize int
}

// DefaultConfig returns the default parallel configuration.
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		GrainSize:  4,
	}
}

var (
	config   = DefaultConfig()
	configMu sync.RWMutex
)

// SetConfig sets the process-wide configuration.
func SetConfig(c Config) {
	configMu.Lock()
	defer configMu.Unlock()
	config = c
}

// GetConfig returns the process-wide configuration.
func GetConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

// plan resolves the worker count for n items. A positive workers argument
// overrides the configured NumWorkers.
func plan(n, workers int) int {
	c := GetConfig()
	if workers <= 0 {
		workers = c.NumWorkers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	grain := max(c.GrainSize, 1)
	if n <= grain*workers {
		// Not worth a goroutine per worker; shrink to what the grain allows.
		workers = max(1, n/grain)
	}
	return workers
}

// For runs fn(i) for i in [0, n).
func For(n, workers int, fn func(i int)) {
	ForWithError(context.Background(), n, workers, func(i int) error {
		fn(i)
		return nil
	})
}

// ForWithError runs fn(i) for i in [0, n) and returns the error of the
// lowest failing index, or ctx.Err() if the context ends first. The context
// is checked between items; an item that has started always finishes.
func ForWithError(ctx context.Context, n, workers int, fn func(i int) error) error {
	numWorkers := plan(n, workers)

	if numWorkers == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, numWorkers)
	chunkSize := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				if err := ctx.Err(); err != nil {
					errs[w] = err
					return
				}
				if err := fn(i); err != nil {
					errs[w] = err
					return
				}
			}
		}(w, start, end)
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Chunks calls processor for every index in [0, n) and returns the results
// in index order.
func Chunks(ctx context.Context, n, workers int, processor func(i int) ([]byte, error)) ([][]byte, error) {
	results := make([][]byte, n)

	err := ForWithError(ctx, n, workers, func(i int) error {
		data, err := processor(i)
		if err != nil {
			return err
		}
		results[i] = data
		return nil
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}
