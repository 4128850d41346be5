// Package source retrieves remote candidate lists and converts them into
// "<name>,<url>" lines.
package source

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/maxvaer/livecheck/internal/checker"
)

const (
	// UserAgent is sent when fetching candidate lists.
	UserAgent = "PostmanRuntime-ApipostRuntime/1.1.0"

	// DefaultTimeout bounds one list download.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 64 << 20
)

// Stat records how many candidate lines one source contributed.
type Stat struct {
	URL   string
	Count int
}

// String renders the stat as "<count>,<url>".
func (s Stat) String() string {
	return strconv.Itoa(s.Count) + "," + s.URL
}

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// Fetcher downloads candidate lists.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher. Zero options fall back to the defaults.
func NewFetcher(opts Options) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	return &Fetcher{
		client:    &http.Client{Transport: transport, Timeout: timeout},
		userAgent: ua,
		logger:    logger,
	}
}

// Fetch downloads rawURL and returns its candidate lines. M3U playlists
// are converted; plain lists keep their "<name>,<url>" lines.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]string, error) {
	target := checker.NormalizeURL(strings.TrimSpace(rawURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	text := string(data)
	if IsM3U(text) {
		return ConvertM3U(text), nil
	}
	return PlainLines(text), nil
}

// FetchAll fetches every source in order. Sources that fail are logged
// and skipped; they get no stat.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]string, []Stat) {
	var lines []string
	var stats []Stat
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		f.logger.Info("fetching source", "url", u)
		got, err := f.Fetch(ctx, u)
		if err != nil {
			f.logger.Warn("source failed", "url", u, "error", err)
			continue
		}
		stats = append(stats, Stat{URL: strings.TrimSpace(u), Count: len(got)})
		lines = append(lines, got...)
	}
	return lines, stats
}

// SourceURLs keeps the lines of a sources file that name an http(s) URL.
func SourceURLs(lines []string) []string {
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http") {
			out = append(out, line)
		}
	}
	return out
}
