// Package workerpool runs bounded concurrent work over a slice.
package workerpool

import (
	"context"
	"fmt"
	"sync"
)

type job[T any] struct {
	index int
	item  T
}

// Map applies fn to every item using at most workerCount goroutines and
// returns the results in input order. The first error cancels the context
// handed to fn and is returned once all workers have stopped.
func Map[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	fn func(context.Context, T) (R, error),
) ([]R, error) {
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(items) {
		workerCount = len(items)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		results  = make([]R, len(items))
		jobs     = make(chan job[T])
		once     sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					continue
				}
				result, err := fn(ctx, j.item)
				if err != nil {
					fail(fmt.Errorf("item %d: %w", j.index, err))
					continue
				}
				results[j.index] = result
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, item := range items {
			select {
			case <-ctx.Done():
				return
			case jobs <- job[T]{index: i, item: item}:
			}
		}
	}()

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
