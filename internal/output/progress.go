package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Progress tracks and displays check progress.
type Progress struct {
	w         io.Writer
	total     int
	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	start     time.Time
	done      chan struct{}
	stopped   chan struct{}
	quiet     bool
	paused    func() bool
}

// NewProgress creates a progress tracker writing to w. Call Start() to
// begin display updates. Counters are kept even when quiet.
func NewProgress(w io.Writer, total int, quiet bool) *Progress {
	return &Progress{
		w:       w,
		total:   total,
		start:   time.Now(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		quiet:   quiet,
	}
}

// SetPausedFunc makes the display show a paused marker while fn reports
// true.
func (p *Progress) SetPausedFunc(fn func() bool) {
	p.paused = fn
}

// Start begins periodically printing progress.
func (p *Progress) Start() {
	if p.quiet {
		close(p.stopped)
		return
	}
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.print()
			case <-p.done:
				p.print()
				fmt.Fprint(p.w, "\n")
				return
			}
		}
	}()
}

// Record counts one finished check.
func (p *Progress) Record(success bool) {
	p.processed.Add(1)
	if success {
		p.succeeded.Add(1)
	} else {
		p.failed.Add(1)
	}
}

// Counts returns the processed, succeeded and failed counters.
func (p *Progress) Counts() (processed, succeeded, failed int) {
	return int(p.processed.Load()), int(p.succeeded.Load()), int(p.failed.Load())
}

// Stop ends the progress display and waits for the final line.
func (p *Progress) Stop() {
	close(p.done)
	<-p.stopped
}

func (p *Progress) print() {
	completed := p.processed.Load()
	elapsed := time.Since(p.start).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(completed) / elapsed
	}

	pct := float64(0)
	if p.total > 0 {
		pct = float64(completed) / float64(p.total) * 100
	}

	eta := ""
	if rate > 0 && completed < int64(p.total) {
		remaining := float64(int64(p.total)-completed) / rate
		eta = fmt.Sprintf("ETA: %s", time.Duration(remaining*float64(time.Second)).Round(time.Second))
	}
	if p.paused != nil && p.paused() {
		eta = "PAUSED (press Enter to resume)"
	}

	fmt.Fprintf(p.w, "\r\033[K[%3.0f%%] %d/%d | %.1f checks/s | OK: %d | Failed: %d | %s",
		pct, completed, p.total, rate,
		p.succeeded.Load(), p.failed.Load(), eta)
}
