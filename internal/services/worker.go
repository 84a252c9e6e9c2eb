package services

import (
	"context"
	"sync"
)

// runOrdered calls fn for every index in [0, n) with at most concurrency
// calls in flight and returns the results indexed like the input. A call that
// panics produces onPanic(i, recovered) for its slot; siblings keep running.
func runOrdered[T any](
	ctx context.Context,
	n, concurrency int,
	fn func(ctx context.Context, i int) T,
	onPanic func(i int, recovered any) T,
) []T {
	results := make([]T, n)
	if n == 0 {
		return results
	}

	call := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				results[i] = onPanic(i, r)
			}
		}()
		results[i] = fn(ctx, i)
	}

	if concurrency <= 1 {
		for i := 0; i < n; i++ {
			call(i)
		}
		return results
	}

	if concurrency > n {
		concurrency = n
	}

	jobQueue := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobQueue {
				call(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobQueue <- i
	}
	close(jobQueue)
	wg.Wait()

	return results
}
