package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maxvaer/livecheck/internal/scanner"
)

// Aggregate splits results into the success and failure lists.
//
// Success lines are "<elapsed>ms,<name>,<url>" with two decimals, ordered
// by ascending elapsed time; equal times are ordered by line, so the output
// does not depend on completion order. Failure lines are "<name>,<url>" in
// lexicographic order.
func Aggregate(results []scanner.CheckResult) (success, failure []string) {
	type timed struct {
		ms   float64
		line string
	}
	var ok []timed
	for _, r := range results {
		if ms, present := r.Latency(); present {
			ok = append(ok, timed{ms, fmt.Sprintf("%.2fms,%s", ms, r.Entry.Line())})
			continue
		}
		failure = append(failure, r.Entry.Line())
	}

	sort.Slice(ok, func(i, j int) bool {
		if ok[i].ms != ok[j].ms {
			return ok[i].ms < ok[j].ms
		}
		return ok[i].line < ok[j].line
	})
	success = make([]string, len(ok))
	for i, t := range ok {
		success[i] = t.line
	}
	sort.Strings(failure)
	return success, failure
}

// StripLatency drops the leading "<elapsed>ms," field from success lines.
// Lines that do not carry one are skipped.
func StripLatency(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !strings.Contains(line, ",") || !strings.Contains(line, "://") || !strings.Contains(line, "ms,") {
			continue
		}
		_, rest, _ := strings.Cut(line, ",")
		out = append(out, rest)
	}
	return out
}
