package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/maxvaer/livecheck/internal/checker"
	"github.com/maxvaer/livecheck/internal/config"
	"github.com/maxvaer/livecheck/internal/entries"
	"github.com/maxvaer/livecheck/internal/output"
	"github.com/maxvaer/livecheck/internal/probe"
	"github.com/maxvaer/livecheck/internal/scanner"
	"github.com/maxvaer/livecheck/internal/source"
	"github.com/maxvaer/livecheck/pkg/version"
)

// topHosts is how many failing hosts the summary lists.
const topHosts = 10

// runner carries everything one run needs besides the options. Tests
// replace the probers and the terminal wiring.
type runner struct {
	opts        *config.Options
	stderr      io.Writer
	logger      *slog.Logger
	probers     probe.Set
	interactive bool // stderr is a terminal: draw progress
	keyboard    bool // stdin is a terminal: enable the pause toggle
	now         func() time.Time
	checkClock  func() time.Time // nil = time.Now
}

// Run executes the full check pipeline: gather candidates, clean them,
// probe every entry concurrently and write the result lists.
func Run(ctx context.Context, opts *config.Options) error {
	r := &runner{
		opts:        opts,
		stderr:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stderr.Fd())),
		keyboard:    term.IsTerminal(int(os.Stdin.Fd())),
		now:         time.Now,
	}
	r.logger = newLogger(r.stderr, opts)
	return r.run(ctx)
}

// newLogger returns the diagnostics logger: Info by default, Debug with
// --verbose, discarded with --quiet.
func newLogger(w io.Writer, opts *config.Options) *slog.Logger {
	if opts.Quiet {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (r *runner) printf(format string, args ...any) {
	if !r.opts.Quiet {
		fmt.Fprintf(r.stderr, format, args...)
	}
}

func (r *runner) run(ctx context.Context) error {
	opts := r.opts
	start := r.now()

	// 1. Gather candidate lines.
	lines, sourceStats, err := r.loadCandidates(ctx)
	if err != nil {
		return err
	}
	stats := output.Stats{Start: start, Original: len(lines)}
	for _, s := range sourceStats {
		stats.Sources = append(stats.Sources, s.String())
	}
	r.printf("[*] Original data count: %d\n", stats.Original)

	// 2. Split, strip and dedup.
	items := entries.Parse(entries.Clean(lines))
	stats.Cleaned = len(items)
	r.printf("[*] Cleaned data count: %d\n", stats.Cleaned)

	// 3. Whitelist.
	whitelist, err := r.loadWhitelist()
	if err != nil {
		return err
	}
	stats.Whitelist = len(whitelist)
	r.printf("[*] Whitelist URL count: %d\n", stats.Whitelist)

	// 4. Probers and checker.
	probers := r.probers
	if probers == nil {
		probers = probe.NewSet(probe.Options{
			UserAgent:       opts.UserAgent,
			FollowRedirects: opts.FollowRedirects,
			FFprobePath:     opts.FFprobePath,
			MaxConns:        opts.Threads,
			Logger:          r.logger,
		})
	}
	defer probers.Close()

	chk := checker.New(checker.Config{
		Timeout:     opts.Timeout,
		KeepUnknown: opts.KeepUnknown,
		Logger:      r.logger,
		Now:         r.checkClock,
	}, probers)

	// 5. Report writer.
	var report output.Writer
	if opts.ReportFile != "" {
		report, err = output.NewWriter(opts.ReportFormat, opts.ReportFile)
		if err != nil {
			return fmt.Errorf("creating report: %w", err)
		}
		defer report.Close()
		if err := report.WriteHeader(); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if !opts.Quiet {
		printBanner(r.stderr, opts, len(items), len(whitelist))
	}

	// 6. Check every entry.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pauser *scanner.Pauser
	if r.keyboard {
		var restore func()
		pauser, restore = startStdinToggle(r.stderr, opts.Quiet, cancel)
		defer restore()
	}

	progress := output.NewProgress(r.stderr, len(items), opts.Quiet || !r.interactive)
	if pauser != nil {
		progress.SetPausedFunc(pauser.IsPaused)
	}
	progress.Start()

	var reportErr error
	results := scanner.RunAll(ctx, chk, items, scanner.WorkerConfig{
		Threads:   opts.Threads,
		Whitelist: whitelist,
		Throttler: scanner.NewThrottler(opts.Rate),
		Pauser:    pauser,
	}, func(res scanner.CheckResult) {
		progress.Record(res.Success)
		r.logger.Debug("checked",
			"name", res.Entry.Name,
			"url", res.Entry.URL,
			"success", res.Success,
			"outcome", res.Outcome.String(),
			"latency_ms", res.ElapsedMs,
		)
		if report != nil && reportErr == nil {
			reportErr = report.WriteResult(res)
		}
	})
	progress.Stop()
	if pauser != nil && pauser.PausedDuration() > 0 {
		r.printf("[*] Paused for %s in total\n", pauser.PausedDuration().Round(time.Second))
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted after %d of %d checks: %w", len(results), len(items), err)
	}
	if reportErr != nil {
		return fmt.Errorf("writing report: %w", reportErr)
	}

	// 7. Aggregate and write the lists.
	success, failure := output.Aggregate(results)
	stats.Succeeded, stats.Failed = len(success), len(failure)
	r.printf("[+] Check done - Success: %d, Failed: %d\n", stats.Succeeded, stats.Failed)

	written, err := output.WriteLists(opts.OutputDir, r.now(), success, failure)
	if err != nil {
		return err
	}
	for _, path := range written {
		r.printf("[+] File generated: %s\n", path)
	}

	stats.End = r.now()
	stats.Hosts = chk.Tracker().Top(topHosts)

	if report != nil {
		if err := report.WriteFooter(stats); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		r.printf("[+] Report written to %s\n", opts.ReportFile)
	}

	if !opts.Quiet {
		if err := output.NewSummary(r.stderr, opts.NoColor).Write(stats); err != nil {
			return err
		}
	}
	return nil
}

// loadCandidates fetches the remote sources and reads the local inputs.
// A source that fails to download is skipped; a local input that cannot
// be read aborts the run.
func (r *runner) loadCandidates(ctx context.Context) ([]string, []source.Stat, error) {
	var lines []string
	var stats []source.Stat

	if r.opts.SourcesFile != "" {
		raw, err := entries.ReadLines(r.opts.SourcesFile, r.opts.Encoding)
		if err != nil {
			return nil, nil, fmt.Errorf("loading sources: %w", err)
		}
		urls := source.SourceURLs(raw)
		r.printf("[*] Fetching %d remote lists\n", len(urls))
		fetcher := source.NewFetcher(source.Options{Logger: r.logger})
		lines, stats = fetcher.FetchAll(ctx, urls)
	}

	for _, path := range r.opts.Inputs {
		got, err := entries.LoadFile(path, r.opts.Encoding)
		if err != nil {
			return nil, nil, fmt.Errorf("loading input: %w", err)
		}
		lines = append(lines, got...)
	}
	return lines, stats, nil
}

// loadWhitelist reads the whitelist file. A missing file is reported and
// treated as an empty whitelist.
func (r *runner) loadWhitelist() (checker.Whitelist, error) {
	if r.opts.WhitelistFile == "" {
		return checker.NewWhitelist(), nil
	}
	wl, err := entries.LoadWhitelist(r.opts.WhitelistFile, r.opts.Encoding)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Warn("whitelist not found, continuing without it", "path", r.opts.WhitelistFile)
		return checker.NewWhitelist(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading whitelist: %w", err)
	}
	return wl, nil
}

func printBanner(w io.Writer, opts *config.Options, entryCount, whitelistCount int) {
	const (
		cyan   = "\033[36m"
		white  = "\033[97m"
		dim    = "\033[2m"
		red    = "\033[31m"
		green  = "\033[32m"
		yellow = "\033[33m"
		reset  = "\033[0m"
	)

	c, wh, d, r, g, y, rs := cyan, white, dim, red, green, yellow, reset
	if opts.NoColor {
		c, wh, d, r, g, y, rs = "", "", "", "", "", "", ""
	}

	fmt.Fprintf(w, `
%s    __    _            ________              __  %s
%s   / /   (_)   _____  / ____/ /_  ___  _____/ /__%s
%s  / /   / / | / / _ \/ /   / __ \/ _ \/ ___/ //_/%s
%s / /___/ /| |/ /  __/ /___/ / / /  __/ /__/ ,<   %s
%s/_____/_/ |___/\___/\____/_/ /_/\___/\___/_/|_|  %s %sv%s%s
%s    Streaming Endpoint Liveness Checker           %s
`,
		c, rs,
		c, rs,
		c, rs,
		c, rs,
		c, rs, d, version.Version, rs,
		wh, rs,
	)

	unknownLabel := fmt.Sprintf("%skept%s", g, rs)
	if !opts.KeepUnknown {
		unknownLabel = fmt.Sprintf("%sdropped%s", r, rs)
	}
	rate := "unlimited"
	if opts.Rate > 0 {
		rate = fmt.Sprintf("%g/s", opts.Rate)
	}

	fmt.Fprintf(w, "%s  ──────────────────────────────────────%s\n", d, rs)
	fmt.Fprintf(w, "  %sEntries:%s      %s%d%s\n", d, rs, wh, entryCount, rs)
	fmt.Fprintf(w, "  %sWhitelist:%s    %s%d%s\n", d, rs, wh, whitelistCount, rs)
	fmt.Fprintf(w, "  %sThreads:%s      %s%d%s\n", d, rs, y, opts.Threads, rs)
	fmt.Fprintf(w, "  %sTimeout:%s      %s%s%s\n", d, rs, y, opts.Timeout, rs)
	fmt.Fprintf(w, "  %sRate:%s         %s%s%s\n", d, rs, y, rate, rs)
	fmt.Fprintf(w, "  %sUnknown:%s      %s\n", d, rs, unknownLabel)
	fmt.Fprintf(w, "  %sOutput:%s       %s%s%s\n", d, rs, wh, opts.OutputDir, rs)
	fmt.Fprintf(w, "%s  ──────────────────────────────────────%s\n\n", d, rs)
}
