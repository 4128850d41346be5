package runner

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/maxvaer/livecheck/internal/scanner"
)

// startStdinToggle reads single keypresses from stdin and toggles the
// pauser on Enter or Space. Ctrl+C calls interrupt, since raw mode keeps
// the terminal from raising SIGINT. The returned restore function puts the
// terminal back. If raw mode is unavailable it returns a nil pauser.
func startStdinToggle(w io.Writer, quiet bool, interrupt func()) (pauser *scanner.Pauser, restore func()) {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		if !quiet {
			fmt.Fprintf(w, "[!] Could not enable raw terminal: %v\n", err)
		}
		return nil, func() {}
	}

	// MakeRaw disables OPOST which stops \n → \r\n translation, causing
	// cursor alignment issues. Re-enable it since we only need raw input.
	fixOutputProcessing(fd)

	pauser = scanner.NewPauser()
	restore = func() {
		_ = term.Restore(fd, oldState)
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			stop := handleKey(buf[0], pauser, w, quiet, func() {
				restore()
				interrupt()
			})
			if stop {
				return
			}
		}
	}()

	return pauser, restore
}

// handleKey applies one keypress. It reports whether reading should stop.
func handleKey(key byte, pauser *scanner.Pauser, w io.Writer, quiet bool, interrupt func()) bool {
	switch key {
	case 0x03: // Ctrl+C
		interrupt()
		return true
	case '\r', '\n', ' ':
		nowPaused := pauser.Toggle()
		if !quiet {
			if nowPaused {
				fmt.Fprintf(w, "\r\033[K[*] Check PAUSED, press Enter or Space to resume\n")
			} else {
				fmt.Fprintf(w, "\r\033[K[*] Check RESUMED\n")
			}
		}
	}
	return false
}
