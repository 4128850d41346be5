package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maxvaer/livecheck/internal/config"
	"github.com/maxvaer/livecheck/internal/probe"
	"github.com/maxvaer/livecheck/internal/runner"
	"github.com/maxvaer/livecheck/pkg/version"
)

var opts config.Options

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"CANDIDATES", []string{"input", "sources", "whitelist", "encoding"}},
	{"RATE-LIMIT", []string{"threads", "timeout", "rate"}},
	{"PROBING", []string{"ffprobe", "follow-redirects", "keep-unknown", "user-agent"}},
	{"OUTPUT", []string{"output-dir", "report", "format", "quiet", "no-color", "verbose"}},
	{"CONFIGURATION", []string{"config"}},
}

var rootCmd = &cobra.Command{
	Use:     "livecheck -i <list> [flags]",
	Short:   "Concurrent liveness checker for streaming endpoints",
	Version: version.Version,
	Long: `livecheck probes every stream URL of a channel list (HTTP/HTTPS,
RTMP/RTSP, RTP, P3P and P2P), sorts reachable streams by latency and
writes whitelist and blacklist files. Whitelisted URLs are always kept.`,
	Example: `  livecheck -i live.txt
  livecheck -s urls.txt -w whitelist_manual.txt -o out
  livecheck -i live.txt -t 100 --timeout 5s --rate 200
  livecheck -i live.txt --keep-unknown=false --ffprobe /usr/local/bin/ffprobe
  livecheck -i live.txt -r report.csv --format csv
  livecheck -c livecheck.yaml`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if opts.ConfigFile == "" {
			return nil
		}
		file, err := config.Load(opts.ConfigFile)
		if err != nil {
			return err
		}
		file.ApplyTo(&opts, cmd.Flags().Changed)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Candidates
	f.StringSliceVarP(&opts.Inputs, "input", "i", nil, "Local channel list files (name,url per line)")
	f.StringVarP(&opts.SourcesFile, "sources", "s", "", "File with one remote list URL per line")
	f.StringVarP(&opts.WhitelistFile, "whitelist", "w", "", "Curated list whose URLs are always kept")
	f.StringVar(&opts.Encoding, "encoding", config.DefaultEncoding, "Encoding of local files (e.g. gbk, gb18030)")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", config.DefaultThreads, "Number of concurrent checks")
	f.DurationVar(&opts.Timeout, "timeout", config.DefaultTimeout, "Timeout of each probe")
	f.Float64Var(&opts.Rate, "rate", 0, "Maximum probe starts per second (0 = unlimited)")

	// Probing
	f.StringVar(&opts.FFprobePath, "ffprobe", probe.DefaultFFprobe, "ffprobe binary used for RTMP/RTSP")
	f.BoolVar(&opts.FollowRedirects, "follow-redirects", true, "Follow HTTP redirects")
	f.BoolVar(&opts.KeepUnknown, "keep-unknown", true, "Count inconclusive probes as reachable")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent for probes")

	// Output
	f.StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "Directory for the result lists")
	f.StringVarP(&opts.ReportFile, "report", "r", "", "Write a full report to this file")
	opts.ReportFormat = config.DefaultFormat
	f.Var(&formatValue{target: &opts.ReportFormat}, "format", "Report format: json, csv")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal output")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log every check")

	// Configuration
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (flags take precedence)")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})

	rootCmd.PreRunE = chainPreRun(rootCmd.PreRunE, func(cmd *cobra.Command, args []string) error {
		if len(opts.Inputs) == 0 && opts.SourcesFile == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
		}
		return opts.Validate()
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chainPreRun combines two PreRunE functions.
func chainPreRun(first, second func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if first != nil {
			if err := first(cmd, args); err != nil {
				return err
			}
		}
		return second(cmd, args)
	}
}

// formatValue implements pflag.Value for the report format.
type formatValue struct {
	target *string
}

var reportFormats = []string{"json", "csv"}

func (v *formatValue) String() string {
	if v.target == nil {
		return ""
	}
	return *v.target
}

func (v *formatValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range reportFormats {
		if s == f {
			*v.target = s
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(reportFormats, ", "))
}

func (v *formatValue) Type() string { return "format" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
    __    _            ________              __
   / /   (_)   _____  / ____/ /_  ___  _____/ /__
  / /   / / | / / _ \/ /   / __ \/ _ \/ ___/ //_/
 / /___/ /| |/ /  __/ /___/ / / /  __/ /__/ ,<
/_____/_/ |___/\___/\____/_/ /_/\___/\___/_/|_|   %s

`, ver)
}
