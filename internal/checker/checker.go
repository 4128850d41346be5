// Package checker turns a single probe into a classification: it
// normalises the URL, dispatches to the matching prober, measures the
// elapsed time and applies the tri-state policy.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/maxvaer/livecheck/internal/probe"
)

// Verdict is the result of one [Checker.Check]. ElapsedMs is set if and
// only if Success is true.
type Verdict struct {
	ElapsedMs float64
	Outcome   probe.Outcome
	Success   bool

	// Err is set when the check panicked. The verdict is then a failure
	// that was not recorded against the host.
	Err error
}

// Config holds the checker settings.
type Config struct {
	// Timeout bounds each probe.
	Timeout time.Duration

	// KeepUnknown classifies inconclusive probes as successes. When false
	// they become failures but are still never recorded against the host.
	KeepUnknown bool

	Tracker *HostTracker
	Logger  *slog.Logger

	// Now replaces time.Now when measuring elapsed time.
	Now func() time.Time
}

// Checker runs the liveness check for a single URL.
type Checker struct {
	probers     probe.Set
	timeout     time.Duration
	keepUnknown bool
	tracker     *HostTracker
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a Checker dispatching to probers.
func New(cfg Config, probers probe.Set) *Checker {
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = NewHostTracker()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Checker{
		probers:     probers,
		timeout:     cfg.Timeout,
		keepUnknown: cfg.KeepUnknown,
		tracker:     tracker,
		logger:      logger,
		now:         now,
	}
}

// Tracker returns the host failure tracker the checker records into.
func (c *Checker) Tracker() *HostTracker {
	return c.tracker
}

// Check probes rawURL and classifies the outcome:
//   - Valid: success with the elapsed time.
//   - Invalid: failure, recorded against the host of rawURL.
//   - Unknown: success with the elapsed time (or an unrecorded failure
//     when KeepUnknown is off).
//
// Unsupported schemes are Invalid without probing and without a host
// record. A panic anywhere in the check is recovered and reported as an
// unrecorded failure.
func (c *Checker) Check(ctx context.Context, rawURL string) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			c.logger.Error("check panic",
				"correlation_id", correlationID,
				"url", rawURL,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			v = Verdict{
				Outcome: probe.Invalid,
				Err:     fmt.Errorf("check panic (correlation_id: %s)", correlationID),
			}
		}
	}()

	target := NormalizeURL(rawURL)
	start := c.now()
	outcome, probed := c.dispatch(ctx, rawURL, target)
	elapsed := float64(c.now().Sub(start)) / float64(time.Millisecond)

	switch outcome {
	case probe.Valid:
		return Verdict{ElapsedMs: elapsed, Outcome: outcome, Success: true}
	case probe.Unknown:
		if c.keepUnknown {
			return Verdict{ElapsedMs: elapsed, Outcome: outcome, Success: true}
		}
		return Verdict{Outcome: outcome}
	default:
		if probed {
			c.tracker.Record(HostOf(rawURL))
		}
		return Verdict{Outcome: probe.Invalid}
	}
}

// dispatch reports whether a prober actually ran.
func (c *Checker) dispatch(ctx context.Context, rawURL, target string) (probe.Outcome, bool) {
	proto := probe.Classify(rawURL)
	p, ok := c.probers[proto]
	if proto == probe.Unsupported || !ok {
		c.logger.Debug("unsupported protocol", "url", rawURL)
		return probe.Invalid, false
	}
	outcome := p.Probe(ctx, target, c.timeout)
	c.logger.Debug("probed", "url", rawURL, "protocol", proto.String(), "outcome", outcome.String())
	return outcome, true
}
