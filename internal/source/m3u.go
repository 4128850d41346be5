package source

import "strings"

const m3uHeader = "#EXTM3U"

// streamPrefixes are the schemes accepted as stream lines in an M3U
// playlist.
var streamPrefixes = []string{"http", "rtmp", "rtsp", "p3p", "p2p", "rtp"}

// IsM3U reports whether text is an extended M3U playlist.
func IsM3U(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), m3uHeader)
}

// ConvertM3U turns an M3U playlist into "<name>,<url>" lines. The name
// comes from the last comma-separated field of the preceding #EXTINF
// line; stream lines seen before any #EXTINF are dropped.
func ConvertM3U(text string) []string {
	var out []string
	name := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#EXTINF") {
			name = strings.TrimSpace(line[strings.LastIndex(line, ",")+1:])
			continue
		}
		if name != "" && hasStreamPrefix(line) {
			out = append(out, name+","+line)
		}
	}
	return out
}

func hasStreamPrefix(line string) bool {
	for _, p := range streamPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// PlainLines keeps the "<name>,<url>" lines of a plain-text list,
// dropping section headers and anything without a scheme.
func PlainLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "#genre#") {
			continue
		}
		if strings.Contains(line, ",") && strings.Contains(line, "://") {
			out = append(out, line)
		}
	}
	return out
}
