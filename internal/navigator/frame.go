package navigator

import "hashbisect/internal/tree"

type FrameKind int

const (
	// FrameHalves shows the two halves of a line range.
	FrameHalves FrameKind = iota
	// FrameLeaf shows the content of a single line.
	FrameLeaf
	// FrameEmpty reports a file without lines.
	FrameEmpty
	// FrameUnreadable reports a file that is not text.
	FrameUnreadable
	// FrameListing shows the entries of a directory.
	FrameListing
)

// Panel is one labelled digest within a frame.
type Panel struct {
	// Index is the number the user types to select a listing entry; zero for
	// line halves.
	Index       int
	Label       string
	Digest      string
	Kind        tree.Kind
	Visited     bool
	Traversable bool
}

type Choice struct {
	Key   string
	Label string
}

// Frame is everything a renderer needs to draw one prompt.
type Frame struct {
	Kind FrameKind
	// Title names the file or directory being navigated.
	Title string
	// Scope describes the part of Title in view, e.g. "Lines: 1 - 8".
	Scope string
	// Digest covers the whole scope, so both sides can confirm they stand on
	// the same node before comparing panels.
	Digest  string
	Panels  []Panel
	Content string
	Choices []Choice
}

// Renderer draws frames. It has no say in navigation.
type Renderer interface {
	Render(f Frame) error
}

// Prompter blocks until the user supplies one line of input.
type Prompter interface {
	Prompt() (string, error)
}
