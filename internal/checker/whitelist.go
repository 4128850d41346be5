package checker

// NominalLatencyMs is reported for whitelisted entries whose probe did not
// measure a latency: known-good, unmeasured.
const NominalLatencyMs = 0.01

// Whitelist is the set of curated known-good URLs. Membership is an exact
// string match on the raw URL; no canonicalisation is applied.
type Whitelist map[string]struct{}

// NewWhitelist builds a whitelist from urls.
func NewWhitelist(urls ...string) Whitelist {
	w := make(Whitelist, len(urls))
	for _, u := range urls {
		w[u] = struct{}{}
	}
	return w
}

// Contains reports whether rawURL is whitelisted.
func (w Whitelist) Contains(rawURL string) bool {
	_, ok := w[rawURL]
	return ok
}

// Override applies the whitelist to a finished check. A whitelisted URL is
// always a success, keeping the measured latency when there is one. A zero
// measurement falls back to NominalLatencyMs. Other URLs keep the verdict's
// classification.
func (w Whitelist) Override(rawURL string, v Verdict) (elapsedMs float64, success bool) {
	if !w.Contains(rawURL) {
		return v.ElapsedMs, v.Success
	}
	if v.Success && v.ElapsedMs > 0 {
		return v.ElapsedMs, true
	}
	return NominalLatencyMs, true
}
