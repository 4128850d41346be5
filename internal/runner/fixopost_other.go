//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package runner

// fixOutputProcessing is a no-op where raw mode leaves output processing
// alone, such as the Windows console.
func fixOutputProcessing(fd int) {}
