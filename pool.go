package guidebook

import (
	"context"
	"runtime"
	"sync"
)

// Worker sizing constants.
const (
	// MinWorkers ensures at least one page renders at a time.
	MinWorkers = 1

	// MaxWorkers caps concurrent page renders; past it the build is I/O bound.
	MaxWorkers = 16
)

// ResolveWorkers determines how many pages render at once.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers
	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// runJobs calls fn for every index in [0, n) with at most workers calls in
// flight. Once ctx is done the remaining jobs are not started and get the
// context error. The returned slice holds the error of each job.
func runJobs(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) []error {
	if n == 0 {
		return nil
	}

	concurrency := ResolveWorkers(workers)
	if concurrency > n {
		concurrency = n
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	jobs := make(chan int, n)

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					continue
				}
				errs[idx] = fn(ctx, idx)
			}
		}()
	}

	for i := range n {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return errs
}
