package scanner

import (
	"github.com/maxvaer/livecheck/internal/entries"
	"github.com/maxvaer/livecheck/internal/probe"
)

// CheckResult holds the final classification of one entry.
type CheckResult struct {
	Entry       entries.Entry
	ElapsedMs   float64 // only meaningful when Success
	Success     bool
	Outcome     probe.Outcome // raw prober outcome before the whitelist
	Whitelisted bool
	Err         error // set when the check itself failed unexpectedly
}

// Latency returns the elapsed time and whether one is present.
func (r CheckResult) Latency() (float64, bool) {
	return r.ElapsedMs, r.Success
}

func newResult(e entries.Entry, elapsedMs float64, success bool) CheckResult {
	if !success {
		elapsedMs = 0
	}
	return CheckResult{Entry: e, ElapsedMs: elapsedMs, Success: success}
}
