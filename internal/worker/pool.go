// Package worker runs independent word resolutions on a bounded pool.
// Every task is isolated: a failure (or panic) in one resolution yields a
// failed WordResult and never aborts the batch.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkrebs/navilex/internal/model"
)

// ResolveFunc resolves a single word to its lookup records.
type ResolveFunc func(ctx context.Context, word string) ([]model.LookupRecord, error)

// WordResult is the outcome of one resolution task.
type WordResult struct {
	Word    string
	Records []model.LookupRecord
	Err     error
}

// Pool executes word resolutions with a fixed number of workers.
type Pool struct {
	workers int
	jobs    chan job
	results chan WordResult
	wg      sync.WaitGroup

	collected []WordResult
	done      chan struct{}
}

type job struct {
	word string
	fn   ResolveFunc
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan job, workers*2),
		results: make(chan WordResult, workers*2),
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutines and a collector that drains results
// as they complete, so Submit never deadlocks on a full results buffer.
// Tasks observe ctx through the ResolveFunc; the pool itself always drains
// every submitted job.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				p.results <- p.run(ctx, j)
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(p.results)
	}()
	go func() {
		for result := range p.results {
			p.collected = append(p.collected, result)
		}
		close(p.done)
	}()
}

// run executes one task with panic containment.
func (p *Pool) run(ctx context.Context, j job) (result WordResult) {
	result.Word = j.word
	defer func() {
		if r := recover(); r != nil {
			result.Records = nil
			result.Err = fmt.Errorf("resolution panicked: %v", r)
		}
	}()
	result.Records, result.Err = j.fn(ctx, j.word)
	return result
}

// Submit queues a word for resolution. Must not be called after Wait.
func (p *Pool) Submit(word string, fn ResolveFunc) {
	p.jobs <- job{word: word, fn: fn}
}

// Wait closes the queue, waits for all tasks, and returns their results
// in completion order.
func (p *Pool) Wait() []WordResult {
	close(p.jobs)
	<-p.done
	return p.collected
}
