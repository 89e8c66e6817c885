package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkrebs/navilex/internal/model"
)

func TestNewPool_Defaults(t *testing.T) {
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("expected 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool(-3); p.workers != 1 {
		t.Errorf("expected 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_ResolvesAllWords(t *testing.T) {
	pool := NewPool(4)
	pool.Start(context.Background())

	var executed int32
	resolve := func(ctx context.Context, word string) ([]model.LookupRecord, error) {
		atomic.AddInt32(&executed, 1)
		return []model.LookupRecord{{WordForm: word, Found: true}}, nil
	}

	words := []string{"gallia", "est", "omnis", "divisa", "in", "partes", "tres"}
	for _, w := range words {
		pool.Submit(w, resolve)
	}

	results := pool.Wait()
	if len(results) != len(words) {
		t.Fatalf("expected %d results, got %d", len(words), len(results))
	}
	if int(atomic.LoadInt32(&executed)) != len(words) {
		t.Errorf("expected %d executions, got %d", len(words), executed)
	}

	seen := make(map[string]bool)
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("unexpected error for %q: %v", res.Word, res.Err)
		}
		if len(res.Records) != 1 || res.Records[0].WordForm != res.Word {
			t.Errorf("result for %q carries wrong records: %+v", res.Word, res.Records)
		}
		seen[res.Word] = true
	}
	if len(seen) != len(words) {
		t.Errorf("expected %d distinct words, got %d", len(words), len(seen))
	}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	workers := 5
	pool := NewPool(workers)
	pool.Start(context.Background())

	var current, peak int32
	var mu sync.Mutex
	resolve := func(ctx context.Context, word string) ([]model.LookupRecord, error) {
		curr := atomic.AddInt32(&current, 1)
		mu.Lock()
		if curr > peak {
			peak = curr
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return nil, nil
	}

	for i := 0; i < 40; i++ {
		pool.Submit("verbum", resolve)
	}
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if peak > int32(workers) {
		t.Errorf("peak concurrency %d exceeded %d workers", peak, workers)
	}
}

func TestPool_ManyMoreJobsThanWorkers(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())

	resolve := func(ctx context.Context, word string) ([]model.LookupRecord, error) {
		return []model.LookupRecord{{WordForm: word, Found: true}}, nil
	}
	const jobs = 200
	for i := 0; i < jobs; i++ {
		pool.Submit("verbum", resolve)
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Fatalf("expected %d results, got %d", jobs, len(results))
	}
}

func TestPool_ErrorIsolation(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())

	pool.Submit("bonum", func(ctx context.Context, word string) ([]model.LookupRecord, error) {
		return []model.LookupRecord{{WordForm: word, Found: true}}, nil
	})
	pool.Submit("malum", func(ctx context.Context, word string) ([]model.LookupRecord, error) {
		return nil, errors.New("lookup exploded")
	})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
			if res.Word != "malum" {
				t.Errorf("wrong word failed: %q", res.Word)
			}
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failure, got %d", failures)
	}
}

func TestPool_PanicContainment(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())

	pool.Submit("ruina", func(ctx context.Context, word string) ([]model.LookupRecord, error) {
		panic("parser bug")
	})
	pool.Submit("salvus", func(ctx context.Context, word string) ([]model.LookupRecord, error) {
		return []model.LookupRecord{{WordForm: word, Found: true}}, nil
	})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		switch res.Word {
		case "ruina":
			if res.Err == nil {
				t.Error("panicking task must yield an error result")
			}
		case "salvus":
			if res.Err != nil {
				t.Errorf("sibling task affected by panic: %v", res.Err)
			}
		}
	}
}
