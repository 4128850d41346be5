// Package config holds the settings of a livecheck run and loads them
// from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults used by the CLI when neither a flag nor the config file sets
// a value.
const (
	DefaultThreads   = 30
	DefaultTimeout   = 10 * time.Second
	DefaultEncoding  = "utf-8"
	DefaultOutputDir = "."
	DefaultFormat    = "json"
)

// Options holds all configuration for a livecheck run.
type Options struct {
	// Candidates
	Inputs        []string // local candidate list files
	SourcesFile   string   // file listing remote candidate list URLs
	WhitelistFile string
	Encoding      string // encoding of local files, e.g. "utf-8", "gbk"

	// Performance
	Threads int
	Timeout time.Duration
	Rate    float64 // probe starts per second, 0 = unlimited

	// Probing
	FFprobePath     string
	FollowRedirects bool
	KeepUnknown     bool
	UserAgent       string

	// Output
	OutputDir    string
	ReportFile   string
	ReportFormat string // "json", "csv"
	Quiet        bool
	NoColor      bool
	Verbose      bool

	ConfigFile string
}

// Validate checks the options for values the run cannot work with.
func (o *Options) Validate() error {
	var errs []error
	if len(o.Inputs) == 0 && o.SourcesFile == "" {
		errs = append(errs, errors.New("no candidates: pass --input or --sources"))
	}
	if o.Threads < 1 {
		errs = append(errs, fmt.Errorf("threads must be at least 1, got %d", o.Threads))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", o.Timeout))
	}
	if o.Rate < 0 {
		errs = append(errs, fmt.Errorf("rate must not be negative, got %g", o.Rate))
	}
	switch o.ReportFormat {
	case "", "json", "csv":
	default:
		errs = append(errs, fmt.Errorf("unknown report format %q (want json or csv)", o.ReportFormat))
	}
	return errors.Join(errs...)
}
