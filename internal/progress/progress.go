package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Bar counts hashed files while a tree is built. The total is unknown up
// front, so it renders a running count and the directory last finished.
type Bar struct {
	current    int64
	writer     io.Writer
	mu         sync.Mutex
	currentDir string
	enabled    bool
	lastUpdate time.Time
}

// New returns a Bar writing to w. It stays silent unless w is a terminal.
func New(w io.Writer) *Bar {
	return newBar(w, isTerminal(w))
}

func newBar(w io.Writer, enabled bool) *Bar {
	return &Bar{
		writer:     w,
		enabled:    enabled,
		lastUpdate: time.Now(),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (b *Bar) SetDirectory(dir string) {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.currentDir = dir
	b.render()
}

func (b *Bar) Increment() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond {
		b.lastUpdate = now
		b.render()
	}
}

// Count returns the number of files counted so far.
func (b *Bar) Count() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// render must be called with mu already locked
func (b *Bar) render() {
	var dirDisplay string
	if b.currentDir != "" {
		dirDisplay = " | " + filepath.Base(b.currentDir)
	}

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[KHashing... %d files%s", b.current, dirDisplay)
}

// Finish draws the final count, ends the line and resets the counter.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.currentDir = ""
	b.render()
	fmt.Fprintf(b.writer, "\n")
	b.current = 0
}
