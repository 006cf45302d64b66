// Package navigator walks a user through a hash tree one prompt at a time:
// directories are listed entry by entry, files are bisected by line range.
package navigator

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"hashbisect/internal/apperr"
	"hashbisect/internal/hash"
	"hashbisect/internal/tree"
	"hashbisect/internal/walker"
)

// Status is what a file-mode frame reports to the frame above it.
type Status int

const (
	// StatusPrevious asks the caller to redisplay its own level.
	StatusPrevious Status = iota
	// StatusQuit unwinds every bisection level without further prompts.
	StatusQuit
)

func (s Status) String() string {
	if s == StatusQuit {
		return "quit"
	}
	return "previous"
}

const (
	keyTop      = "t"
	keyBottom   = "b"
	keyPrevious = "p"
	keyQuit     = "q"
)

var (
	halvesChoices = []Choice{
		{Key: keyTop, Label: "Split top"},
		{Key: keyBottom, Label: "Split bottom"},
		{Key: keyPrevious, Label: "Return to previous chunks"},
		{Key: keyQuit, Label: "Quit"},
	}
	leafChoices = []Choice{
		{Key: keyPrevious, Label: "Return to previous chunks"},
		{Key: keyQuit, Label: "Quit"},
	}
)

type Navigator struct {
	walker    *walker.Walker
	builder   *tree.Builder
	algo      hash.Algorithm
	renderer  Renderer
	prompter  Prompter
	rootLabel string
	logger    *slog.Logger
}

type Option func(*Navigator)

// WithRootLabel names the walker root in titles, e.g. the path the user typed.
func WithRootLabel(label string) Option {
	return func(n *Navigator) {
		n.rootLabel = label
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

func New(w *walker.Walker, b *tree.Builder, r Renderer, p Prompter, opts ...Option) *Navigator {
	n := &Navigator{
		walker:   w,
		builder:  b,
		algo:     b.Algorithm(),
		renderer: r,
		prompter: p,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Run navigates the file or directory at p until the user leaves the top
// level. Anything else at p is rejected before hashing starts.
func (n *Navigator) Run(p string) error {
	kind, err := n.walker.Stat(p)
	if err != nil {
		return err
	}

	switch kind {
	case walker.KindDir:
		root, err := n.builder.Build(p)
		if err != nil {
			return err
		}
		return n.Browse(p, root)
	case walker.KindFile:
		_, err := n.File(p)
		return err
	}
	return fmt.Errorf("%w: %s is neither a regular file nor a directory", apperr.ErrUnsupportedPath, p)
}

// File bisects the lines of the file at p.
func (n *Navigator) File(p string) (Status, error) {
	title := n.title(p)

	data, err := n.walker.ReadText(p)
	if errors.Is(err, apperr.ErrNotText) {
		return StatusPrevious, n.renderer.Render(Frame{
			Kind:   FrameUnreadable,
			Title:  title,
			Digest: hash.Sentinel,
		})
	}
	if err != nil {
		return StatusQuit, err
	}

	lines := SplitLines(string(data))
	if len(lines) == 0 {
		return StatusPrevious, n.renderer.Render(Frame{
			Kind:  FrameEmpty,
			Title: title,
		})
	}

	return n.bisect(title, NewLineRange(lines), n.algo.Sum(data))
}

type half struct {
	lines   LineRange
	digest  string
	visited bool
}

// bisect owns one level of the split. Both half digests are computed once on
// entry and reused for every redisplay of this level.
func (n *Navigator) bisect(title string, r LineRange, digest string) (Status, error) {
	if r.Len() == 1 {
		return n.leaf(title, r, digest)
	}

	top, bottom := r.Split()
	halves := [2]half{
		{lines: top, digest: n.algo.SumLines(top.Lines)},
		{lines: bottom, digest: n.algo.SumLines(bottom.Lines)},
	}

	for {
		panels := make([]Panel, len(halves))
		for i, h := range halves {
			panels[i] = Panel{
				Label:       h.lines.String(),
				Digest:      h.digest,
				Kind:        tree.File,
				Visited:     h.visited,
				Traversable: true,
			}
		}
		if err := n.renderer.Render(Frame{
			Kind:    FrameHalves,
			Title:   title,
			Scope:   r.String(),
			Digest:  digest,
			Panels:  panels,
			Choices: halvesChoices,
		}); err != nil {
			return StatusQuit, err
		}

		input, err := n.prompt()
		if err != nil {
			return StatusQuit, err
		}

		var i int
		switch input {
		case keyTop:
			i = 0
		case keyBottom:
			i = 1
		case keyPrevious:
			return StatusPrevious, nil
		case keyQuit:
			return StatusQuit, nil
		default:
			return StatusQuit, invalidInput(input, keyTop, keyBottom, keyPrevious, keyQuit)
		}

		n.logger.Debug("descending", slog.String("file", title), slog.String("range", halves[i].lines.String()))
		status, err := n.bisect(title, halves[i].lines, halves[i].digest)
		halves[i].visited = true
		if err != nil {
			return StatusQuit, err
		}
		if status == StatusQuit {
			return StatusQuit, nil
		}
	}
}

func (n *Navigator) leaf(title string, r LineRange, digest string) (Status, error) {
	if err := n.renderer.Render(Frame{
		Kind:    FrameLeaf,
		Title:   title,
		Scope:   r.String(),
		Digest:  digest,
		Content: r.Lines[0],
		Choices: leafChoices,
	}); err != nil {
		return StatusQuit, err
	}

	input, err := n.prompt()
	if err != nil {
		return StatusQuit, err
	}

	switch input {
	case keyPrevious:
		return StatusPrevious, nil
	case keyQuit:
		return StatusQuit, nil
	}
	return StatusQuit, invalidInput(input, keyPrevious, keyQuit)
}

type listing struct {
	tree.Entry
	visited bool
}

// Browse lists the children of the directory node built from dir and lets the
// user enter them by number. It returns once the user goes up from this level;
// a quit inside a file only ends that file's bisection.
func (n *Navigator) Browse(dir string, node *tree.Node) error {
	enumerated := n.builder.Enumerate(dir, node)
	entries := make([]listing, len(enumerated))
	for i, e := range enumerated {
		entries[i] = listing{Entry: e}
	}

	choices := []Choice{
		{Key: fmt.Sprintf("1-%d", len(entries)), Label: "Enter entry"},
		{Key: keyPrevious, Label: "Up a directory"},
	}
	if len(entries) == 0 {
		choices = choices[1:]
	}

	for {
		panels := make([]Panel, len(entries))
		for i, e := range entries {
			panels[i] = Panel{
				Index:       e.Index,
				Label:       e.Node.Name,
				Digest:      e.Node.Digest,
				Kind:        e.Node.Kind,
				Visited:     e.visited,
				Traversable: e.Node.Traversable(),
			}
		}
		if err := n.renderer.Render(Frame{
			Kind:    FrameListing,
			Title:   n.title(dir),
			Digest:  node.Digest,
			Panels:  panels,
			Choices: choices,
		}); err != nil {
			return err
		}

		input, err := n.prompt()
		if err != nil {
			return err
		}
		if input == keyPrevious {
			return nil
		}

		index, err := parseIndex(input)
		if err != nil || index > len(entries) {
			return invalidInput(input, fmt.Sprintf("1-%d", len(entries)), keyPrevious)
		}

		e := &entries[index-1]
		if !e.Node.Traversable() {
			n.logger.Debug("entry is not traversable", slog.String("path", e.Path))
			continue
		}

		switch e.Node.Kind {
		case tree.Directory:
			err = n.Browse(e.Path, e.Node)
		case tree.File:
			var status Status
			status, err = n.File(e.Path)
			n.logger.Debug("left file", slog.String("path", e.Path), slog.String("status", status.String()))
		}
		if err != nil {
			return err
		}
		e.visited = true
	}
}

func (n *Navigator) prompt() (string, error) {
	input, err := n.prompter.Prompt()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

func (n *Navigator) title(p string) string {
	if n.rootLabel == "" {
		return p
	}
	return filepath.Join(n.rootLabel, p)
}

// parseIndex accepts only the canonical form of a positive number, so "+2"
// and "02" are rejected.
func parseIndex(input string) (int, error) {
	if input == "" || input[0] < '1' || input[0] > '9' {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(input)
}

func invalidInput(input string, expected ...string) error {
	return fmt.Errorf("%w %q, expected one of %s", apperr.ErrInvalidInput, input, strings.Join(expected, ", "))
}
