package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/maxvaer/livecheck/internal/scanner"
)

// CSVWriter writes results in CSV format.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV report writer.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
	w, closer, err := openOutput(outputFile)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"latency_ms", "name", "url", "status"})
}

func (c *CSVWriter) WriteResult(result scanner.CheckResult) error {
	latency := ""
	if ms, ok := result.Latency(); ok {
		latency = strconv.FormatFloat(ms, 'f', 2, 64)
	}
	return c.w.Write([]string{latency, result.Entry.Name, result.Entry.URL, statusOf(result)})
}

func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
