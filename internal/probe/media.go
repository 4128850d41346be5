package probe

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultFFprobe is the media inspection tool looked up on PATH.
const DefaultFFprobe = "ffprobe"

// MediaProber checks RTMP and RTSP endpoints by running ffprobe against
// them. A zero exit status is Valid and a nonzero one Invalid. A missing
// binary or an invocation that outlives the timeout is Unknown.
type MediaProber struct {
	Path   string // empty = DefaultFFprobe
	Logger *slog.Logger
}

func (p *MediaProber) args(target string, timeout time.Duration) []string {
	return []string{"-v", "error", "-timeout", strconv.FormatInt(timeout.Microseconds(), 10), target}
}

// Probe runs the media tool under the probe timeout.
func (p *MediaProber) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	path := p.Path
	if path == "" {
		path = DefaultFFprobe
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, p.args(target, timeout)...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	switch {
	case err == nil:
		return Valid
	case ctx.Err() != nil:
		return Unknown
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return Unknown
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if p.Logger != nil {
			p.Logger.Debug("media probe rejected",
				"url", target,
				"exit_code", exitErr.ExitCode(),
				"stderr", strings.TrimSpace(stderr.String()),
			)
		}
	}
	return Invalid
}
