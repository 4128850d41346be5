package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/maxvaer/livecheck/internal/checker"
	"github.com/maxvaer/livecheck/internal/scanner"
)

type jsonEntry struct {
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Status    string   `json:"status"`
	Outcome   string   `json:"outcome"`
	LatencyMs *float64 `json:"latency_ms,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type jsonStats struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Elapsed   string    `json:"elapsed"`
	Original  int       `json:"original"`
	Cleaned   int       `json:"cleaned"`
	Whitelist int       `json:"whitelist"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Sources   []string  `json:"sources,omitempty"`
}

type jsonReport struct {
	Stats        jsonStats           `json:"stats"`
	FailingHosts []checker.HostCount `json:"failing_hosts"`
	Results      []jsonEntry         `json:"results"`
}

// JSONWriter buffers results and writes a single JSON document on
// WriteFooter.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	entries []jsonEntry
}

// NewJSONWriter creates a JSON report writer.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{w: w, closer: closer, entries: []jsonEntry{}}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(result scanner.CheckResult) error {
	e := jsonEntry{
		Name:    result.Entry.Name,
		URL:     result.Entry.URL,
		Status:  statusOf(result),
		Outcome: result.Outcome.String(),
	}
	if ms, ok := result.Latency(); ok {
		e.LatencyMs = &ms
	}
	if result.Err != nil {
		e.Error = result.Err.Error()
	}
	j.entries = append(j.entries, e)
	return nil
}

func (j *JSONWriter) WriteFooter(stats Stats) error {
	hosts := stats.Hosts
	if hosts == nil {
		hosts = []checker.HostCount{}
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Stats: jsonStats{
			Start:     stats.Start,
			End:       stats.End,
			Elapsed:   stats.Duration().Round(time.Millisecond).String(),
			Original:  stats.Original,
			Cleaned:   stats.Cleaned,
			Whitelist: stats.Whitelist,
			Succeeded: stats.Succeeded,
			Failed:    stats.Failed,
			Sources:   stats.Sources,
		},
		FailingHosts: hosts,
		Results:      j.entries,
	})
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
