// Package entries turns raw candidate-list lines into the (name, url)
// entries the checker works on, and builds the whitelist set.
package entries

import "strings"

// Entry is one candidate to check.
type Entry struct {
	Name string
	URL  string
}

// Line renders the entry the way it appears in input and output lists.
func (e Entry) Line() string {
	return e.Name + "," + e.URL
}

const genreMarker = "#genre#"

// ParseLine splits a "<name>,<url>" line at its first comma. Section
// headers, blank lines and lines without a scheme separator are rejected.
func ParseLine(line string) (Entry, bool) {
	if strings.TrimSpace(line) == "" || strings.Contains(line, genreMarker) || !strings.Contains(line, "://") {
		return Entry{}, false
	}
	name, url, ok := strings.Cut(line, ",")
	if !ok {
		return Entry{}, false
	}
	return Entry{Name: name, URL: strings.TrimSpace(url)}, true
}

// isCandidate reports whether line looks like "<name>,<scheme>://...".
func isCandidate(line string) bool {
	return strings.Contains(line, ",") && strings.Contains(line, "://")
}

// SplitMulti expands lines whose URL part joins several URLs with '#'
// into one line per URL. Lines that are not candidates are dropped.
func SplitMulti(lines []string) []string {
	var out []string
	for _, line := range lines {
		if !isCandidate(line) {
			continue
		}
		name, urls, _ := strings.Cut(line, ",")
		if !strings.Contains(urls, "#") {
			out = append(out, line)
			continue
		}
		for _, u := range strings.Split(urls, "#") {
			u = strings.TrimSpace(u)
			if strings.Contains(u, "://") {
				out = append(out, name+","+u)
			}
		}
	}
	return out
}

// StripAnnotations cuts every candidate line at its last '$', removing
// trailing annotations such as "$1920x1080".
func StripAnnotations(lines []string) []string {
	var out []string
	for _, line := range lines {
		if !isCandidate(line) {
			continue
		}
		if idx := strings.LastIndex(line, "$"); idx != -1 {
			line = line[:idx]
		}
		out = append(out, line)
	}
	return out
}

// Dedup keeps the first line for every distinct URL.
func Dedup(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	var out []string
	for _, line := range lines {
		if !isCandidate(line) {
			continue
		}
		_, url, _ := strings.Cut(line, ",")
		url = strings.TrimSpace(url)
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, line)
	}
	return out
}

// Clean runs the full line pipeline: split multi-URL lines, strip
// annotations, then drop duplicate URLs.
func Clean(lines []string) []string {
	return Dedup(StripAnnotations(SplitMulti(lines)))
}

// Parse converts cleaned lines into entries, skipping unparseable ones.
func Parse(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if e, ok := ParseLine(line); ok {
			out = append(out, e)
		}
	}
	return out
}
