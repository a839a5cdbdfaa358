// Package pool bounds the CPU parallelism used by expensive primitives
// (prime search, batched proof iterations). A nil *Pool degrades to serial
// execution, so callers can always thread one through.
package pool

import (
	"io"
	"runtime"
	"sync"
)

// Pool is a fixed-size worker pool. The zero value is not useful; use
// NewPool. A nil Pool runs everything on the calling goroutine.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers.
// If count is 0, the number of CPUs is used.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	return &Pool{workers: count}
}

// TearDown releases the pool. It exists so callers can defer cleanup
// symmetrically; the current implementation holds no resources.
func (p *Pool) TearDown() {}

func (p *Pool) workerCount() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Parallelize calls f for every index in [0, count) and returns the results
// in order.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	results := make([]interface{}, count)
	if p == nil || p.workers <= 1 || count <= 1 {
		for i := 0; i < count; i++ {
			results[i] = f(i)
		}
		return results
	}
	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = f(i)
			}
		}()
	}
	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// Search repeatedly calls f until count non-nil results have been found,
// and returns them. f must be safe for concurrent use.
func (p *Pool) Search(count int, f func() interface{}) []interface{} {
	results := make([]interface{}, 0, count)
	if p == nil || p.workers <= 1 {
		for len(results) < count {
			if r := f(); r != nil {
				results = append(results, r)
			}
		}
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	done := make(chan struct{})
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				r := f()
				if r == nil {
					continue
				}
				mu.Lock()
				if len(results) < count {
					results = append(results, r)
					if len(results) == count {
						close(done)
					}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return results
}

// LockedReader serializes access to an io.Reader so it can be shared by
// pool workers.
type LockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

// NewLockedReader wraps r for concurrent use.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{r: r}
}

func (l *LockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
