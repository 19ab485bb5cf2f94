package rippeg

import "github.com/mrjoshuak/go-rippeg/internal/parallel"

// ParallelConfig configures block-level parallelism.
type ParallelConfig struct {
	// NumWorkers is the number of worker goroutines. 0 means runtime.GOMAXPROCS(0).
	NumWorkers int

	// GrainSize is the minimum number of blocks per worker before work is
	// spread across goroutines.
	GrainSize int
}

// DefaultParallelConfig returns the default parallel configuration.
func DefaultParallelConfig() ParallelConfig {
	c := parallel.DefaultConfig()
	return ParallelConfig{NumWorkers: c.NumWorkers, GrainSize: c.GrainSize}
}

// SetParallelConfig sets the process-wide parallel configuration used when
// Options.Workers is 0.
func SetParallelConfig(config ParallelConfig) {
	parallel.SetConfig(parallel.Config{NumWorkers: config.NumWorkers, GrainSize: config.GrainSize})
}

// GetParallelConfig returns the current parallel configuration.
func GetParallelConfig() ParallelConfig {
	c := parallel.GetConfig()
	return ParallelConfig{NumWorkers: c.NumWorkers, GrainSize: c.GrainSize}
}
