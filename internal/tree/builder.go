package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"hashbisect/internal/apperr"
	"hashbisect/internal/hash"
	"hashbisect/internal/walker"
)

// Builder hashes a file or directory tree bottom-up:
//  1. List a directory's children, sorted by name
//  2. Hash every file (sentinel for non-text content)
//  3. Recurse into subdirectories
//  4. Fold the children's digests, in name order, into the directory digest
type Builder struct {
	walker   *walker.Walker
	algo     hash.Algorithm
	workers  int
	progress Progress
	logger   *slog.Logger
}

// Progress receives one Increment per file hashed, sentinel files included.
// progress.Bar satisfies it.
type Progress interface {
	Increment()
	SetDirectory(dir string)
	Finish()
}

type Option func(*Builder)

// WithWorkers bounds how many sibling files are hashed at once.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

func WithProgress(p Progress) Option {
	return func(b *Builder) {
		b.progress = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

func NewBuilder(w *walker.Walker, algo hash.Algorithm, opts ...Option) *Builder {
	b := &Builder{
		walker:  w,
		algo:    algo,
		workers: 1,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Algorithm() hash.Algorithm {
	return b.algo
}

// Build hashes the file or directory at p. Non-text files are recovered as
// Unreadable nodes; any I/O failure aborts the whole build.
func (b *Builder) Build(p string) (*Node, error) {
	kind, err := b.walker.Stat(p)
	if err != nil {
		return nil, err
	}

	var node *Node
	switch kind {
	case walker.KindDir:
		node, err = b.buildDir(p)
	case walker.KindFile:
		node, err = b.buildFile(p)
	default:
		return nil, fmt.Errorf("%w: %s is neither a regular file nor a directory", apperr.ErrUnsupportedPath, p)
	}

	if b.progress != nil {
		b.progress.Finish()
	}
	if err != nil {
		return nil, err
	}

	b.logger.Debug("tree hashed",
		slog.String("path", p),
		slog.String("algorithm", b.algo.String()),
		slog.String("digest", node.Digest))

	return node, nil
}

// Enumerate numbers the first-level children of a node built from dir.
func (b *Builder) Enumerate(dir string, root *Node) []Entry {
	entries := make([]Entry, 0, len(root.Children))
	for i, child := range root.Children {
		entries = append(entries, Entry{
			Index: i + 1,
			Path:  b.walker.Join(dir, child.Name),
			Node:  child,
		})
	}
	return entries
}

func (b *Builder) buildFile(p string) (*Node, error) {
	name := filepath.Base(p)

	data, err := b.walker.ReadText(p)
	if err != nil && !errors.Is(err, apperr.ErrNotText) {
		return nil, fmt.Errorf("failed to hash %s: %w", p, err)
	}

	if b.progress != nil {
		b.progress.Increment()
	}

	if err != nil {
		b.logger.Debug("file is not text, using sentinel", slog.String("path", p))
		return newUnreadable(name), nil
	}

	return &Node{
		Name:   name,
		Kind:   File,
		Digest: b.algo.Sum(data),
	}, nil
}

func (b *Builder) buildDir(p string) (*Node, error) {
	entries, err := b.walker.ReadDir(p)
	if err != nil {
		return nil, err
	}

	node := &Node{
		Name:     filepath.Base(p),
		Kind:     Directory,
		Children: make([]*Node, len(entries)),
	}

	// Subdirectories recurse on this goroutine so the worker limit only ever
	// applies to leaf reads.
	for i, entry := range entries {
		if entry.Kind != walker.KindDir {
			continue
		}
		child, err := b.buildDir(entry.Path)
		if err != nil {
			return nil, err
		}
		node.Children[i] = child
	}

	// Each worker writes its own slot, so completion order is irrelevant.
	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, entry := range entries {
		if entry.Kind != walker.KindFile {
			continue
		}
		i, entry := i, entry
		g.Go(func() error {
			child, err := b.buildFile(entry.Path)
			if err != nil {
				return err
			}
			node.Children[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	digests := make([]string, len(node.Children))
	for i, child := range node.Children {
		digests[i] = child.Digest
	}
	node.Digest = b.algo.Fold(digests)

	if b.progress != nil {
		b.progress.SetDirectory(p)
	}
	b.logger.Debug("directory hashed",
		slog.String("path", p),
		slog.Int("children", len(node.Children)),
		slog.String("digest", node.Digest))

	return node, nil
}
