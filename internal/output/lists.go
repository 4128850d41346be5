package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Output file names, relative to the output directory.
const (
	WhitelistFile   = "whitelist_auto.txt"
	WhitelistTVFile = "whitelist_auto_tv.txt"
	BlacklistFile   = "blacklist_auto.txt"
)

// Section titles of the three lists.
const (
	sectionTimed     = "RespoTime,whitelist"
	sectionWhitelist = "whitelist"
	sectionBlacklist = "blacklist"
)

var beijing = time.FixedZone("UTC+8", 8*60*60)

// HeaderBlock returns the four lines every list starts with: the update
// marker, the run time in UTC+8, a blank line and the section title.
func HeaderBlock(now time.Time, section string) []string {
	return []string{
		"更新时间,#genre#",
		now.In(beijing).Format("20060102 15:04") + ",url",
		"",
		section + ",#genre#",
	}
}

// WriteList writes lines joined by "\n" to path, creating parent
// directories as needed. No trailing newline is added.
func WriteList(path string, lines []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteLists writes the timed whitelist, the TV whitelist and the
// blacklist into dir and returns the paths written.
func WriteLists(dir string, now time.Time, success, failure []string) ([]string, error) {
	files := []struct {
		name    string
		section string
		lines   []string
	}{
		{WhitelistFile, sectionTimed, success},
		{WhitelistTVFile, sectionWhitelist, StripLatency(success)},
		{BlacklistFile, sectionBlacklist, failure},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := WriteList(path, append(HeaderBlock(now, f.section), f.lines...)); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
