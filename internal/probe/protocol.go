// Package probe implements the per-protocol reachability probes.
//
// Every prober answers a single question, "is this endpoint minimally
// reachable", with a tri-state [Outcome]. Probers never return errors and
// never panic on network failures: each failure mode resolves to Valid,
// Invalid or Unknown.
package probe

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Protocol identifies the prober family responsible for a URL.
type Protocol int

const (
	Unsupported Protocol = iota
	HTTP
	RTMPRTSP
	RTP
	P3P
	P2P
)

func (p Protocol) String() string {
	switch p {
	case HTTP:
		return "http"
	case RTMPRTSP:
		return "rtmp/rtsp"
	case RTP:
		return "rtp"
	case P3P:
		return "p3p"
	case P2P:
		return "p2p"
	default:
		return "unsupported"
	}
}

// Classify maps a URL to its protocol family by case-sensitive scheme
// prefix. Anything unrecognised is Unsupported.
func Classify(rawURL string) Protocol {
	switch {
	case strings.HasPrefix(rawURL, "http"):
		return HTTP
	case strings.HasPrefix(rawURL, "rtmp"), strings.HasPrefix(rawURL, "rtsp"):
		return RTMPRTSP
	case strings.HasPrefix(rawURL, "rtp"):
		return RTP
	case strings.HasPrefix(rawURL, "p3p"):
		return P3P
	case strings.HasPrefix(rawURL, "p2p"):
		return P2P
	default:
		return Unsupported
	}
}

// Outcome is the tri-state result of a probe.
type Outcome int

const (
	// Invalid means the endpoint was checked and rejected.
	Invalid Outcome = iota
	// Valid means the endpoint was checked and is reachable.
	Valid
	// Unknown means reachability could not be determined (timeout,
	// transient network failure, missing external tool). It never means
	// "checked and reachable".
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Prober checks one URL of the protocol family it owns.
type Prober interface {
	Probe(ctx context.Context, target string, timeout time.Duration) Outcome
}

// ProberFunc adapts an ordinary function to the [Prober] interface.
type ProberFunc func(ctx context.Context, target string, timeout time.Duration) Outcome

// Probe calls f(ctx, target, timeout).
func (f ProberFunc) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	return f(ctx, target, timeout)
}

// Set maps each protocol family to its prober.
type Set map[Protocol]Prober

// Options configures the default prober set.
type Options struct {
	UserAgent       string
	FollowRedirects bool
	FFprobePath     string
	MaxConns        int
	Logger          *slog.Logger
}

// NewSet builds the production prober for every supported protocol.
func NewSet(opts Options) Set {
	ua := opts.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	return Set{
		HTTP: NewHTTPProber(HTTPOptions{
			UserAgent:       ua,
			FollowRedirects: opts.FollowRedirects,
			MaxConns:        opts.MaxConns,
		}),
		RTMPRTSP: &MediaProber{Path: opts.FFprobePath, Logger: opts.Logger},
		RTP:      &RTPProber{},
		P3P:      &P3PProber{UserAgent: ua},
		P2P:      &P2PProber{UserAgent: ua},
	}
}

// Close releases resources held by the probers that keep any.
func (s Set) Close() {
	for _, p := range s {
		if c, ok := p.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
