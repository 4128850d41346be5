package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maxvaer/livecheck/internal/checker"
	"github.com/maxvaer/livecheck/internal/scanner"
)

// Stats holds aggregate run statistics.
type Stats struct {
	Start     time.Time
	End       time.Time
	Original  int // candidate lines before cleaning
	Cleaned   int // entries after split, annotation strip and dedup
	Whitelist int
	Succeeded int
	Failed    int
	Sources   []string            // "<count>,<url>" per fetched source
	Hosts     []checker.HostCount // hosts with confirmed failures, worst first
}

// Duration returns the wall-clock time of the run.
func (s Stats) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Writer is implemented by each report format.
type Writer interface {
	WriteHeader() error
	WriteResult(result scanner.CheckResult) error
	WriteFooter(stats Stats) error
	Close() error
}

// NewWriter creates a report writer for format ("json" or "csv"). An
// empty path writes to stdout.
func NewWriter(format, path string) (Writer, error) {
	switch format {
	case "json":
		return NewJSONWriter(path)
	case "csv":
		return NewCSVWriter(path)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

func openOutput(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		return os.Stdout, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating report %s: %w", path, err)
	}
	return f, f, nil
}

func statusOf(r scanner.CheckResult) string {
	switch {
	case r.Success && r.Whitelisted:
		return "whitelisted"
	case r.Success:
		return "ok"
	default:
		return "failed"
	}
}
