package entries

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/maxvaer/livecheck/internal/checker"
)

// skipMarkers flag list lines that never carry a candidate.
var skipMarkers = []string{genreMarker, "#EXTINF:-1", `"ext"`}

// Open opens path and decodes it from the named character encoding
// (e.g. "gbk", "gb18030"). An empty name or "utf-8" reads the file as is.
func Open(path, encoding string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if encoding == "" || strings.EqualFold(encoding, "utf-8") || strings.EqualFold(encoding, "utf8") {
		return f, nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{transform.NewReader(f, enc.NewDecoder()), f}, nil
}

// ReadLines returns the trimmed, non-empty lines of path.
func ReadLines(path, encoding string) ([]string, error) {
	return readFiltered(path, encoding, func(string) bool { return true })
}

// LoadFile returns the candidate lines of a local list: lines containing
// "://" that are not section headers or M3U metadata.
func LoadFile(path, encoding string) ([]string, error) {
	return readFiltered(path, encoding, func(line string) bool {
		for _, m := range skipMarkers {
			if strings.Contains(line, m) {
				return false
			}
		}
		return strings.Contains(line, "://")
	})
}

// LoadWhitelist reads a curated list and returns the set of its URLs
// after the same cleaning the candidate lines go through.
func LoadWhitelist(path, encoding string) (checker.Whitelist, error) {
	lines, err := LoadFile(path, encoding)
	if err != nil {
		return nil, err
	}
	wl := checker.NewWhitelist()
	for _, line := range Clean(lines) {
		_, url, _ := strings.Cut(line, ",")
		wl[strings.TrimSpace(url)] = struct{}{}
	}
	return wl, nil
}

func readFiltered(path, encoding string, keep func(string) bool) ([]string, error) {
	r, err := Open(path, encoding)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && keep(line) {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}
