package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the YAML configuration file. Every key is optional; keys that
// are absent leave the corresponding option alone.
//
// Example:
//
//	sources: ${LIVECHECK_HOME:-.}/urls.txt
//	whitelist: whitelist_manual.txt
//	threads: 50
//	timeout: 8s
//	keep_unknown: false
//	output_dir: out
type File struct {
	Inputs          []string  `yaml:"inputs"`
	Sources         string    `yaml:"sources"`
	Whitelist       string    `yaml:"whitelist"`
	Encoding        string    `yaml:"encoding"`
	Threads         *int      `yaml:"threads"`
	Timeout         *Duration `yaml:"timeout"`
	Rate            *float64  `yaml:"rate"`
	FFprobe         string    `yaml:"ffprobe"`
	FollowRedirects *bool     `yaml:"follow_redirects"`
	KeepUnknown     *bool     `yaml:"keep_unknown"`
	UserAgent       string    `yaml:"user_agent"`
	OutputDir       string    `yaml:"output_dir"`
	Report          string    `yaml:"report"`
	Format          string    `yaml:"format"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data. ${VAR} and ${VAR:-default} are
// expanded in path values.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	paths := []*string{&f.Sources, &f.Whitelist, &f.FFprobe, &f.OutputDir, &f.Report}
	for i := range f.Inputs {
		paths = append(paths, &f.Inputs[i])
	}
	for _, p := range paths {
		expanded, err := expandEnvVars(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}
	return &f, nil
}

// ApplyTo copies the values present in the file into opts. changed
// reports whether a flag was set on the command line; those flags win.
func (f *File) ApplyTo(opts *Options, changed func(flag string) bool) {
	setString := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}

	if len(f.Inputs) > 0 && !changed("input") {
		opts.Inputs = append([]string(nil), f.Inputs...)
	}
	setString("sources", &opts.SourcesFile, f.Sources)
	setString("whitelist", &opts.WhitelistFile, f.Whitelist)
	setString("encoding", &opts.Encoding, f.Encoding)
	setString("ffprobe", &opts.FFprobePath, f.FFprobe)
	setString("user-agent", &opts.UserAgent, f.UserAgent)
	setString("output-dir", &opts.OutputDir, f.OutputDir)
	setString("report", &opts.ReportFile, f.Report)
	setString("format", &opts.ReportFormat, f.Format)

	if f.Threads != nil && !changed("threads") {
		opts.Threads = *f.Threads
	}
	if f.Timeout != nil && !changed("timeout") {
		opts.Timeout = f.Timeout.Duration()
	}
	if f.Rate != nil && !changed("rate") {
		opts.Rate = *f.Rate
	}
	if f.FollowRedirects != nil && !changed("follow-redirects") {
		opts.FollowRedirects = *f.FollowRedirects
	}
	if f.KeepUnknown != nil && !changed("keep-unknown") {
		opts.KeepUnknown = *f.KeepUnknown
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values. An unset variable without a default is an error.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := envVarPattern.FindStringSubmatch(match)
		name := sub[1]
		hasDefault := sub[2] != ""

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return sub[3]
		}
		firstErr = fmt.Errorf("environment variable %q is not set", name)
		return match
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}
