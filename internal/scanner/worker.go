package scanner

import (
	"context"
	"sync"

	"github.com/maxvaer/livecheck/internal/checker"
	"github.com/maxvaer/livecheck/internal/entries"
)

// Checker checks a single URL.
type Checker interface {
	Check(ctx context.Context, rawURL string) checker.Verdict
}

// WorkerConfig holds options for the worker pool.
type WorkerConfig struct {
	Threads   int
	Whitelist checker.Whitelist
	Throttler *Throttler // nil = no rate limit
	Pauser    *Pauser    // nil = no pause support
}

// RunWorkerPool fans entries out across cfg.Threads workers and returns a
// channel of results in completion order. The channel is closed once
// every entry has been checked, or once ctx is cancelled and the in-flight
// checks have finished.
func RunWorkerPool(
	ctx context.Context,
	chk Checker,
	items []entries.Entry,
	cfg WorkerConfig,
) <-chan CheckResult {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	resultsCh := make(chan CheckResult, threads*2)
	if len(items) == 0 {
		close(resultsCh)
		return resultsCh
	}
	if threads > len(items) {
		threads = len(items)
	}
	itemsCh := make(chan entries.Entry, threads*2)

	var wg sync.WaitGroup

	// Producer: feed entries into channel.
	go func() {
		defer close(itemsCh)
		for _, item := range items {
			select {
			case itemsCh <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Workers: consume entries, produce results.
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemsCh {
				if ctx.Err() != nil {
					return
				}
				if cfg.Pauser != nil {
					if err := cfg.Pauser.Wait(ctx); err != nil {
						return
					}
				}
				if err := cfg.Throttler.Wait(ctx); err != nil {
					return
				}
				resultsCh <- checkEntry(ctx, chk, cfg.Whitelist, item)
			}
		}()
	}

	// Closer: when all workers finish, close the results channel.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	return resultsCh
}

// checkEntry runs the check for one entry and applies the whitelist.
func checkEntry(ctx context.Context, chk Checker, wl checker.Whitelist, e entries.Entry) CheckResult {
	v := chk.Check(ctx, e.URL)
	elapsed, ok := wl.Override(e.URL, v)

	r := newResult(e, elapsed, ok)
	r.Outcome = v.Outcome
	r.Whitelisted = wl.Contains(e.URL)
	r.Err = v.Err
	return r
}

// RunAll runs the pool to completion and returns every result in
// completion order. onResult, if set, sees each result as it arrives.
func RunAll(
	ctx context.Context,
	chk Checker,
	items []entries.Entry,
	cfg WorkerConfig,
	onResult func(CheckResult),
) []CheckResult {
	results := make([]CheckResult, 0, len(items))
	for r := range RunWorkerPool(ctx, chk, items, cfg) {
		if onResult != nil {
			onResult(r)
		}
		results = append(results, r)
	}
	return results
}
