package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"
)

// UserAgent is the client signature sent by the HTTP, P3P and P2P probers.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const maxRedirects = 10

// HTTPOptions configures an [HTTPProber].
type HTTPOptions struct {
	UserAgent       string
	FollowRedirects bool
	MaxConns        int // per-family connection cap, 0 = unlimited
}

// HTTPProber checks HTTP(S) endpoints with a single GET request.
//
// It holds one client per address family. The family is chosen per
// attempt from the target host and handed to the dialer explicitly, so no
// shared resolver state is touched.
type HTTPProber struct {
	clients   map[Family]*http.Client
	userAgent string
}

// NewHTTPProber creates an HTTPProber from opts.
func NewHTTPProber(opts HTTPOptions) *HTTPProber {
	ua := opts.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	return &HTTPProber{
		clients: map[Family]*http.Client{
			IPv4: newFamilyClient(IPv4, opts),
			IPv6: newFamilyClient(IPv6, opts),
		},
		userAgent: ua,
	}
}

func newFamilyClient(family Family, opts HTTPOptions) *http.Client {
	dialer := &net.Dialer{}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: func(ctx context.Context, _, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, family.Network("tcp"), addr)
		},
		DisableKeepAlives: true,
		MaxConnsPerHost:   opts.MaxConns,
	}

	client := &http.Client{Transport: transport}
	if opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	} else {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}

// Probe sends one request to target. A 2xx status is Valid, any other
// status is Invalid, connection-level failures are Unknown and anything
// else is Invalid.
func (p *HTTPProber) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil || req.URL.Host == "" {
		return Invalid
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "*/*")
	req.Close = true

	resp, err := p.clients[FamilyFor(req.URL.Hostname())].Do(req)
	if err != nil {
		if isConnectionFailure(err) {
			return Unknown
		}
		return Invalid
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Valid
	}
	return Invalid
}

// Close releases idle connections held by the per-family clients.
func (p *HTTPProber) Close() {
	for _, c := range p.clients {
		if t, ok := c.Transport.(*http.Transport); ok {
			t.CloseIdleConnections()
		}
	}
}
