package walker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"

	"hashbisect/internal/apperr"
)

type Kind int

const (
	KindOther Kind = iota
	KindFile
	KindDir
)

// Entry is one immediate child of a directory.
type Entry struct {
	Name string
	Path string
	Kind Kind
}

// Walker gives read-only access to a filesystem rooted at the tree being
// hashed. Paths are relative to that root.
type Walker struct {
	fs         billy.Filesystem
	exclusions []string
}

func New(fs billy.Filesystem, exclusions []string) *Walker {
	return &Walker{fs: fs, exclusions: exclusions}
}

// Join builds a child path the way the underlying filesystem expects it.
func (w *Walker) Join(elem ...string) string {
	return w.fs.Join(elem...)
}

// Stat classifies p, following symlinks. A missing path is unsupported rather
// than an I/O failure.
func (w *Walker) Stat(p string) (Kind, error) {
	info, err := w.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return KindOther, fmt.Errorf("%w: %s does not exist", apperr.ErrUnsupportedPath, p)
		}
		return KindOther, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	return kindOf(info.Mode()), nil
}

// ReadDir lists the immediate children of dir sorted by name in byte order.
// Excluded entries, symlinks to directories, dangling symlinks and special
// files are left out.
func (w *Walker) ReadDir(dir string) ([]Entry, error) {
	infos, err := w.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		path := w.fs.Join(dir, info.Name())

		kind := kindOf(info.Mode())
		if info.Mode()&os.ModeSymlink != 0 {
			kind = w.resolve(path)
		}
		if kind == KindOther {
			continue
		}

		if shouldExclude(filepath.Clean(path), kind == KindDir, w.exclusions) {
			continue
		}

		entries = append(entries, Entry{
			Name: info.Name(),
			Path: path,
			Kind: kind,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// ReadText returns the full content of p. Content that is not valid UTF-8
// yields an error wrapping apperr.ErrNotText; anything else is an I/O failure.
func (w *Walker) ReadText(p string) ([]byte, error) {
	file, err := w.fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: %w", p, apperr.ErrNotText)
	}

	return data, nil
}

// resolve only lets links to regular files through, so traversal cannot cycle.
func (w *Walker) resolve(path string) Kind {
	info, err := w.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return KindOther
	}
	return KindFile
}

func kindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

func shouldExclude(relPath string, isDir bool, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Directory exclusions (patterns ending with /)
		if strings.HasSuffix(pattern, "/") {
			if !isDir {
				continue
			}
			dirPattern := strings.TrimSuffix(pattern, "/")
			if matched, _ := filepath.Match(dirPattern, filepath.Base(relPath)); matched {
				return true
			}
			if strings.Contains(dirPattern, "/") {
				if matched, _ := filepath.Match(dirPattern, filepath.ToSlash(relPath)); matched {
					return true
				}
			}
			continue
		}

		matched, err := filepath.Match(pattern, filepath.Base(relPath))
		if err == nil && matched {
			return true
		}
		// Patterns with / match against the full relative path
		if strings.Contains(pattern, "/") {
			matched, err := filepath.Match(pattern, filepath.ToSlash(relPath))
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
