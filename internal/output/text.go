package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorDim    = "\033[2m"
)

// Summary prints the end-of-run report: timings, counts, per-source
// statistics and the worst failing hosts.
type Summary struct {
	w       io.Writer
	noColor bool
}

// NewSummary creates a summary printer writing to w.
func NewSummary(w io.Writer, noColor bool) *Summary {
	return &Summary{w: w, noColor: noColor}
}

func (s *Summary) color(c string) string {
	if s.noColor {
		return ""
	}
	return c
}

// Write prints stats.
func (s *Summary) Write(stats Stats) error {
	rule := strings.Repeat("=", 50)
	reset := s.color(colorReset)

	elapsed := stats.Duration()
	mins := int(elapsed / time.Minute)
	secs := int((elapsed % time.Minute) / time.Second)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s\n", s.color(colorDim), rule, reset)
	fmt.Fprintf(&b, "Start time: %s\n", stats.Start.Format("20060102 15:04:05"))
	fmt.Fprintf(&b, "End time: %s\n", stats.End.Format("20060102 15:04:05"))
	fmt.Fprintf(&b, "Elapsed time: %d min %d sec\n", mins, secs)
	fmt.Fprintf(&b, "Original count: %d\n", stats.Original)
	fmt.Fprintf(&b, "Cleaned count: %d\n", stats.Cleaned)
	fmt.Fprintf(&b, "Success count: %s%d%s\n", s.color(colorGreen), stats.Succeeded, reset)
	fmt.Fprintf(&b, "Failed count: %s%d%s\n", s.color(colorRed), stats.Failed, reset)
	fmt.Fprintf(&b, "%s%s%s\n", s.color(colorDim), rule, reset)

	for _, src := range stats.Sources {
		fmt.Fprintln(&b, src)
	}
	if len(stats.Hosts) > 0 {
		fmt.Fprintf(&b, "%s[!] Hosts with most failures:%s\n", s.color(colorYellow), reset)
		for _, h := range stats.Hosts {
			fmt.Fprintf(&b, "    %s%5d%s  %s\n", s.color(colorCyan), h.Count, reset, h.Host)
		}
	}

	_, err := io.WriteString(s.w, b.String())
	return err
}
