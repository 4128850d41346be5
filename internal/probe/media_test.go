package probe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeTool writes an executable shell script standing in for ffprobe.
func writeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMediaProberExitCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Outcome
	}{
		{"exit zero", "exit 0", Valid},
		{"exit nonzero", "echo 'Connection refused' >&2; exit 1", Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &MediaProber{Path: writeTool(t, tt.body)}
			if got := p.Probe(context.Background(), "rtmp://flaky.test/live", 2*time.Second); got != tt.want {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMediaProberMissingToolIsUnknown(t *testing.T) {
	for _, path := range []string{
		filepath.Join(t.TempDir(), "no-such-ffprobe"),
		"livecheck-no-such-ffprobe",
	} {
		p := &MediaProber{Path: path}
		if got := p.Probe(context.Background(), "rtsp://flaky.test/live", time.Second); got != Unknown {
			t.Errorf("Probe() with tool %q = %v, want unknown", path, got)
		}
	}
}

func TestMediaProberTimeoutIsUnknown(t *testing.T) {
	p := &MediaProber{Path: writeTool(t, "exec sleep 5")}

	start := time.Now()
	got := p.Probe(context.Background(), "rtmp://slow.test/live", 200*time.Millisecond)
	if got != Unknown {
		t.Errorf("Probe() = %v, want unknown", got)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("probe did not honour timeout, took %s", elapsed)
	}
}

func TestMediaProberArguments(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args.txt")
	p := &MediaProber{Path: writeTool(t, `echo "$@" > `+out)}

	if got := p.Probe(context.Background(), "rtsp://cam.test/stream1", 10*time.Second); got != Valid {
		t.Fatalf("Probe() = %v, want valid", got)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "-v error -timeout 10000000 rtsp://cam.test/stream1"
	if got := strings.TrimSpace(string(data)); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}
