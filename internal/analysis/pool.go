package analysis

import (
	"context"
	"sync"
	"time"
)

// runOrdered calls fn for every index in [0, n) on at most workers goroutines
// and returns the results indexed by input position, independent of
// completion order. The first error cancels the remaining calls.
func runOrdered[T any](
	ctx context.Context,
	n int,
	workers int,
	fn func(ctx context.Context, i int) (T, error),
) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	taskQueue := make(chan int)
	for range min(max(workers, 1), n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskQueue {
				if workCtx.Err() != nil {
					continue
				}
				res, err := fn(workCtx, i)
				if err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}
				results[i] = res
			}
		}()
	}

feed:
	for i := range n {
		select {
		case taskQueue <- i:
		case <-workCtx.Done():
			break feed
		}
	}
	close(taskQueue)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// withCallTimeout bounds a single remote call. A zero timeout leaves ctx as is.
func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
