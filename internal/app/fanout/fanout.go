// Package fanout runs a function over a slice on a fixed pool of workers and
// returns the results in input order. Listing a workspace uses it to read
// project manifests.
package fanout

import (
	"context"
	"errors"
	"sync"
)

// Result is the outcome for one item: Value on success, Err otherwise.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item on at most maxWorkers goroutines; values below
// one mean one.
//
// Once ctx is done, items not yet started get ctx.Err() without fn being
// called. Calls already running must honor ctx themselves. An empty input
// yields an empty, non-nil slice.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	next := make(chan int)

	var wg sync.WaitGroup
	for range min(max(maxWorkers, 1), len(items)) {
		wg.Go(func() {
			for i := range next {
				if err := ctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				results[i].Value, results[i].Err = fn(ctx, items[i])
			}
		})
	}

	for i := range items {
		next <- i
	}
	close(next)
	wg.Wait()
	return results
}

// Join returns the errors of all failed results joined together, or nil.
func Join[R any](results []Result[R]) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
