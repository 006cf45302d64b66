package render

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashbisect/internal/hash"
	"hashbisect/internal/navigator"
	"hashbisect/internal/tree"
)

func TestTerminal_Halves(t *testing.T) {
	var buf bytes.Buffer
	err := NewTerminal(&buf).Render(navigator.Frame{
		Kind:   navigator.FrameHalves,
		Title:  "notes.txt",
		Scope:  "Lines: 1 - 3",
		Digest: "3ca69e8d6c234a469d16ac28a4a658c92267c423",
		Panels: []navigator.Panel{
			{Label: "Lines: 1 - 1", Digest: "3f786850e387550fdab836ed7e6dc881de23001b", Kind: tree.File, Traversable: true},
			{Label: "Lines: 2 - 3", Digest: "7a6478264aa11a0f4befef356c03e83f2b1f6eba", Kind: tree.File, Traversable: true, Visited: true},
		},
		Choices: []navigator.Choice{{Key: "t", Label: "Split top"}, {Key: "b", Label: "Split bottom"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "Lines: 1 - 3")
	assert.Contains(t, out, "3f786850e387550fdab836ed7e6dc881de23001b")
	assert.Contains(t, out, "Lines: 2 - 3 (visited)")
	assert.Contains(t, out, "Split top [t]")
	assert.Contains(t, out, "Split bottom [b]")
	assert.Less(t, strings.Index(out, "Lines: 1 - 1"), strings.Index(out, "Lines: 2 - 3"))
}

func TestTerminal_Leaf(t *testing.T) {
	var buf bytes.Buffer
	err := NewTerminal(&buf).Render(navigator.Frame{
		Kind:    navigator.FrameLeaf,
		Title:   "notes.txt",
		Scope:   "Lines: 2 - 2",
		Content: "second line\n",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Line contents:")
	assert.Contains(t, out, "second line")
	assert.NotContains(t, out, "-----", "no choices means no footer")
}

func TestTerminal_EmptyAndUnreadable(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	require.NoError(t, term.Render(navigator.Frame{Kind: navigator.FrameEmpty, Title: "empty.txt"}))
	assert.Contains(t, buf.String(), "File is empty")

	buf.Reset()
	require.NoError(t, term.Render(navigator.Frame{Kind: navigator.FrameUnreadable, Title: "logo.png", Digest: hash.Sentinel}))
	assert.Contains(t, buf.String(), "Not a text file")
	assert.Contains(t, buf.String(), hash.Sentinel)
}

func TestTerminal_Listing(t *testing.T) {
	var buf bytes.Buffer
	err := NewTerminal(&buf).Render(navigator.Frame{
		Kind:   navigator.FrameListing,
		Title:  "proj",
		Digest: "abc",
		Panels: []navigator.Panel{
			{Index: 1, Label: "a.txt", Digest: "d1", Kind: tree.File, Traversable: true, Visited: true},
			{Index: 2, Label: "bin.dat", Digest: hash.Sentinel, Kind: tree.Unreadable},
			{Index: 3, Label: "sub", Digest: "d3", Kind: tree.Directory, Traversable: true},
		},
		Choices: []navigator.Choice{{Key: "1-3", Label: "Enter entry"}, {Key: "p", Label: "Up a directory"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "a.txt (d1)")
	assert.Contains(t, out, "bin.dat (Binary)")
	assert.Contains(t, out, "sub/")
	assert.Contains(t, out, "Enter entry [1-3]")
	assert.Contains(t, out, "Up a directory [p]")
	assert.Less(t, strings.Index(out, "a.txt"), strings.Index(out, "bin.dat"))
	assert.Less(t, strings.Index(out, "bin.dat"), strings.Index(out, "sub/"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestTerminal_WriteError(t *testing.T) {
	err := NewTerminal(failingWriter{}).Render(navigator.Frame{Kind: navigator.FrameEmpty, Title: "x"})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestTree_Depth(t *testing.T) {
	root := &tree.Node{
		Name:   "proj",
		Kind:   tree.Directory,
		Digest: "root-digest",
		Children: []*tree.Node{
			{Name: "a.txt", Kind: tree.File, Digest: "d-a"},
			{Name: "bin.dat", Kind: tree.Unreadable, Digest: hash.Sentinel},
			{Name: "sub", Kind: tree.Directory, Digest: "d-sub", Children: []*tree.Node{
				{Name: "c.txt", Kind: tree.File, Digest: "d-c"},
			}},
		},
	}

	shallow := Tree("proj", root, 0)
	assert.Contains(t, shallow, "root-digest")
	assert.NotContains(t, shallow, "a.txt")

	one := Tree("proj", root, 1)
	assert.Contains(t, one, "a.txt (d-a)")
	assert.Contains(t, one, "bin.dat (Binary)")
	assert.Contains(t, one, "sub (d-sub)")
	assert.NotContains(t, one, "c.txt")

	full := Tree("proj", root, 5)
	assert.Contains(t, full, "c.txt (d-c)")
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("  t \nb\nq"), &out)

	for _, want := range []string{"t", "b", "q"} {
		got, err := p.Prompt()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := p.Prompt()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, strings.Repeat("> ", 4), out.String())
}

func TestLinePrompter_EmptyLine(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("\n"), io.Discard)

	got, err := p.Prompt()
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
