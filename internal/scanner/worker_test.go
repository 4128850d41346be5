package scanner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maxvaer/livecheck/internal/checker"
	"github.com/maxvaer/livecheck/internal/entries"
	"github.com/maxvaer/livecheck/internal/probe"
)

// stubChecker answers from a fixed table keyed by URL. Unlisted URLs are
// invalid failures.
type stubChecker struct {
	verdicts map[string]checker.Verdict
	delay    time.Duration
	calls    atomic.Int32
}

func (s *stubChecker) Check(ctx context.Context, rawURL string) checker.Verdict {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if v, ok := s.verdicts[rawURL]; ok {
		return v
	}
	return checker.Verdict{Outcome: probe.Invalid}
}

func makeEntries(n int) []entries.Entry {
	items := make([]entries.Entry, n)
	for i := range items {
		items[i] = entries.Entry{Name: fmt.Sprintf("ch%d", i), URL: fmt.Sprintf("http://h%d.test/live", i)}
	}
	return items
}

func TestRunWorkerPoolEmpty(t *testing.T) {
	chk := &stubChecker{}
	results := RunAll(context.Background(), chk, nil, WorkerConfig{Threads: 8}, nil)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if chk.calls.Load() != 0 {
		t.Errorf("checker called %d times on empty input", chk.calls.Load())
	}
}

func TestRunWorkerPoolEveryEntryYieldsOneResult(t *testing.T) {
	items := makeEntries(57)
	chk := &stubChecker{verdicts: map[string]checker.Verdict{}}
	for i, e := range items {
		if i%3 == 0 {
			chk.verdicts[e.URL] = checker.Verdict{ElapsedMs: float64(i), Outcome: probe.Valid, Success: true}
		}
	}

	var seen atomic.Int32
	results := RunAll(context.Background(), chk, items, WorkerConfig{Threads: 7}, func(CheckResult) {
		seen.Add(1)
	})

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	if int(seen.Load()) != len(items) {
		t.Errorf("onResult saw %d results, want %d", seen.Load(), len(items))
	}

	urls := make(map[string]int)
	for _, r := range results {
		urls[r.Entry.URL]++
		if !r.Success && r.ElapsedMs != 0 {
			t.Errorf("%s: failure carries elapsed %v", r.Entry.URL, r.ElapsedMs)
		}
	}
	for _, e := range items {
		if urls[e.URL] != 1 {
			t.Errorf("%s produced %d results", e.URL, urls[e.URL])
		}
	}
}

func TestRunWorkerPoolConcurrencyDoesNotChangeOutcome(t *testing.T) {
	items := makeEntries(40)
	verdicts := map[string]checker.Verdict{}
	for i, e := range items {
		if i%2 == 0 {
			verdicts[e.URL] = checker.Verdict{ElapsedMs: float64(40 - i), Outcome: probe.Valid, Success: true}
		}
	}

	summarize := func(threads int) []string {
		chk := &stubChecker{verdicts: verdicts}
		var lines []string
		for _, r := range RunAll(context.Background(), chk, items, WorkerConfig{Threads: threads}, nil) {
			lines = append(lines, fmt.Sprintf("%v|%.2f|%s", r.Success, r.ElapsedMs, r.Entry.Line()))
		}
		sort.Strings(lines)
		return lines
	}

	single := summarize(1)
	many := summarize(16)
	if len(single) != len(many) {
		t.Fatalf("1 worker gave %d results, 16 gave %d", len(single), len(many))
	}
	for i := range single {
		if single[i] != many[i] {
			t.Errorf("result %d differs: %q vs %q", i, single[i], many[i])
		}
	}
}

func TestRunWorkerPoolAppliesWhitelist(t *testing.T) {
	items := []entries.Entry{
		{Name: "pinned", URL: "http://pinned.test/live"},
		{Name: "pinned-ok", URL: "http://pinned-ok.test/live"},
		{Name: "dead", URL: "http://dead.test/live"},
	}
	chk := &stubChecker{verdicts: map[string]checker.Verdict{
		"http://pinned-ok.test/live": {ElapsedMs: 42, Outcome: probe.Valid, Success: true},
	}}
	wl := checker.NewWhitelist("http://pinned.test/live", "http://pinned-ok.test/live")

	byName := map[string]CheckResult{}
	for _, r := range RunAll(context.Background(), chk, items, WorkerConfig{Threads: 2, Whitelist: wl}, nil) {
		byName[r.Entry.Name] = r
	}

	if r := byName["pinned"]; !r.Success || r.ElapsedMs != checker.NominalLatencyMs || !r.Whitelisted {
		t.Errorf("pinned = %+v, want nominal success", r)
	}
	if r := byName["pinned"]; r.Outcome != probe.Invalid {
		t.Errorf("pinned outcome = %v, want raw invalid", r.Outcome)
	}
	if r := byName["pinned-ok"]; !r.Success || r.ElapsedMs != 42 {
		t.Errorf("pinned-ok = %+v, want measured latency", r)
	}
	if r := byName["dead"]; r.Success || r.Whitelisted {
		t.Errorf("dead = %+v, want failure", r)
	}
	if chk.calls.Load() != 3 {
		t.Errorf("checker called %d times, whitelisted entries must still be probed", chk.calls.Load())
	}
}

func TestRunWorkerPoolClampsThreads(t *testing.T) {
	items := makeEntries(3)
	var mu sync.Mutex
	active, peak := 0, 0
	chk := checkerFunc(func(ctx context.Context, rawURL string) checker.Verdict {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return checker.Verdict{Outcome: probe.Valid, Success: true, ElapsedMs: 1}
	})

	results := RunAll(context.Background(), chk, items, WorkerConfig{Threads: 0}, nil)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if peak != 1 {
		t.Errorf("Threads=0 ran %d checks at once, want 1", peak)
	}
}

func TestRunWorkerPoolStopsOnCancel(t *testing.T) {
	items := makeEntries(200)
	chk := &stubChecker{delay: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32
	done := make(chan []CheckResult, 1)
	go func() {
		done <- RunAll(ctx, chk, items, WorkerConfig{Threads: 2}, func(CheckResult) {
			if n.Add(1) == 5 {
				cancel()
			}
		})
	}()

	select {
	case results := <-done:
		if len(results) >= len(items) {
			t.Errorf("cancelled run still produced %d results", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop after cancel")
	}
}

func TestRunWorkerPoolHonoursPause(t *testing.T) {
	items := makeEntries(4)
	chk := &stubChecker{}
	p := NewPauser()
	p.Toggle()

	ch := RunWorkerPool(context.Background(), chk, items, WorkerConfig{Threads: 2, Pauser: p})
	time.Sleep(50 * time.Millisecond)
	if chk.calls.Load() != 0 {
		t.Fatalf("%d checks ran while paused", chk.calls.Load())
	}

	p.Toggle()
	count := 0
	for range ch {
		count++
	}
	if count != 4 {
		t.Errorf("got %d results after resume, want 4", count)
	}
}

type checkerFunc func(ctx context.Context, rawURL string) checker.Verdict

func (f checkerFunc) Check(ctx context.Context, rawURL string) checker.Verdict {
	return f(ctx, rawURL)
}
