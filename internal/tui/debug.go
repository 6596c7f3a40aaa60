package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Debug logging for the interactive session. A TUI owns the terminal, so
// print-style debugging destroys the screen; INKWELL_TUI_DEBUG_LOG names a
// file to append to instead.

var (
	debugLogMu   sync.Mutex
	debugLogPath string
	debugLogOnce sync.Once
)

func debugLogEnabled() bool {
	debugLogOnce.Do(func() {
		debugLogPath = strings.TrimSpace(os.Getenv("INKWELL_TUI_DEBUG_LOG"))
	})
	return debugLogPath != ""
}

func debugLogf(format string, args ...any) {
	if !debugLogEnabled() {
		return
	}
	debugLogMu.Lock()
	defer debugLogMu.Unlock()

	f, err := os.OpenFile(debugLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s "+format+"\n", append([]any{time.Now().Format(time.RFC3339)}, args...)...)
}
