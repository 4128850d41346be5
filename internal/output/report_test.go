package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maxvaer/livecheck/internal/checker"
	"github.com/maxvaer/livecheck/internal/probe"
	"github.com/maxvaer/livecheck/internal/scanner"
)

func writeReport(t *testing.T, w Writer, results []scanner.CheckResult, stats Stats) {
	t.Helper()
	if err := w.WriteHeader(); err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if err := w.WriteResult(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WriteFooter(stats); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func sampleResults() []scanner.CheckResult {
	pinned := failed("Pinned", "http://pinned.test/")
	pinned.Success = true
	pinned.ElapsedMs = checker.NominalLatencyMs
	pinned.Whitelisted = true

	crashed := failed("Crash", "http://crash.test/")
	crashed.Err = errors.New("check panic (correlation_id: abc)")

	live := ok(12.346, "Live", "http://live.test/")
	live.Outcome = probe.Valid
	return []scanner.CheckResult{live, failed("Dead", "http://dead.test/"), pinned, crashed}
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	w, err := NewWriter("json", path)
	if err != nil {
		t.Fatal(err)
	}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	writeReport(t, w, sampleResults(), Stats{
		Start:     start,
		End:       start.Add(90 * time.Second),
		Original:  10,
		Cleaned:   4,
		Succeeded: 2,
		Failed:    2,
		Sources:   []string{"4,http://src.test/list.txt"},
		Hosts:     []checker.HostCount{{Host: "dead.test", Count: 1}},
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var report struct {
		Stats struct {
			Elapsed   string   `json:"elapsed"`
			Original  int      `json:"original"`
			Succeeded int      `json:"succeeded"`
			Sources   []string `json:"sources"`
		} `json:"stats"`
		FailingHosts []checker.HostCount `json:"failing_hosts"`
		Results      []struct {
			Name      string   `json:"name"`
			Status    string   `json:"status"`
			Outcome   string   `json:"outcome"`
			LatencyMs *float64 `json:"latency_ms"`
			Error     string   `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, data)
	}

	if report.Stats.Elapsed != "1m30s" || report.Stats.Original != 10 || report.Stats.Succeeded != 2 {
		t.Errorf("stats = %+v", report.Stats)
	}
	if len(report.Stats.Sources) != 1 {
		t.Errorf("sources = %v", report.Stats.Sources)
	}
	if len(report.FailingHosts) != 1 || report.FailingHosts[0].Host != "dead.test" {
		t.Errorf("failing_hosts = %+v", report.FailingHosts)
	}
	if len(report.Results) != 4 {
		t.Fatalf("got %d results, want 4", len(report.Results))
	}

	byName := map[string]int{}
	for i, r := range report.Results {
		byName[r.Name] = i
	}
	live := report.Results[byName["Live"]]
	if live.Status != "ok" || live.Outcome != "valid" || live.LatencyMs == nil || *live.LatencyMs != 12.346 {
		t.Errorf("live = %+v", live)
	}
	if dead := report.Results[byName["Dead"]]; dead.Status != "failed" || dead.LatencyMs != nil {
		t.Errorf("dead = %+v", dead)
	}
	if pinned := report.Results[byName["Pinned"]]; pinned.Status != "whitelisted" {
		t.Errorf("pinned = %+v", pinned)
	}
	if crash := report.Results[byName["Crash"]]; !strings.Contains(crash.Error, "correlation_id") {
		t.Errorf("crash = %+v", crash)
	}
}

func TestJSONWriterEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{w: &buf, entries: []jsonEntry{}}
	writeReport(t, w, nil, Stats{})
	if !strings.Contains(buf.String(), `"results": []`) || !strings.Contains(buf.String(), `"failing_hosts": []`) {
		t.Errorf("empty report should carry empty arrays:\n%s", buf.String())
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	w, err := NewWriter("csv", path)
	if err != nil {
		t.Fatal(err)
	}
	writeReport(t, w, sampleResults()[:3], Stats{})

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"latency_ms", "name", "url", "status"},
		{"12.35", "Live", "http://live.test/", "ok"},
		{"", "Dead", "http://dead.test/", "failed"},
		{"0.01", "Pinned", "http://pinned.test/", "whitelisted"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestNewWriterUnknownFormat(t *testing.T) {
	if _, err := NewWriter("xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	err := NewSummary(&buf, true).Write(Stats{
		Start:     start,
		End:       start.Add(125 * time.Second),
		Original:  7,
		Cleaned:   5,
		Succeeded: 3,
		Failed:    2,
		Sources:   []string{"7,http://src.test/"},
		Hosts:     []checker.HostCount{{Host: "dead.test", Count: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"Start time: 20260101 08:00:00",
		"Elapsed time: 2 min 5 sec",
		"Original count: 7",
		"Cleaned count: 5",
		"Success count: 3",
		"Failed count: 2",
		"7,http://src.test/",
		"dead.test",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("noColor summary contains ANSI escapes")
	}
}
