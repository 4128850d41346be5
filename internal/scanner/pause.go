package scanner

import (
	"context"
	"sync"
	"time"
)

// Pauser is a pause/resume gate for worker goroutines. While paused,
// Wait blocks until the run is resumed or the context is cancelled.
type Pauser struct {
	mu          sync.Mutex
	resumed     chan struct{} // non-nil while paused, closed on resume
	pausedSince time.Time
	totalPaused time.Duration
}

// NewPauser creates a Pauser in the running state.
func NewPauser() *Pauser {
	return &Pauser{}
}

// Wait returns immediately when running and otherwise blocks until
// resumed. It returns ctx.Err() if ctx ends first.
func (p *Pauser) Wait(ctx context.Context) error {
	p.mu.Lock()
	ch := p.resumed
	p.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Toggle flips between paused and running and returns true if the gate
// is now paused.
func (p *Pauser) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resumed != nil {
		p.totalPaused += time.Since(p.pausedSince)
		close(p.resumed)
		p.resumed = nil
		return false
	}
	p.resumed = make(chan struct{})
	p.pausedSince = time.Now()
	return true
}

// IsPaused reports whether the gate is closed.
func (p *Pauser) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resumed != nil
}

// PausedDuration returns the total time spent paused, including an
// ongoing pause.
func (p *Pauser) PausedDuration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.totalPaused
	if p.resumed != nil {
		d += time.Since(p.pausedSince)
	}
	return d
}
