// Package render draws navigator frames and hash trees for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"hashbisect/internal/hash"
	"hashbisect/internal/navigator"
	hashtree "hashbisect/internal/tree"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230"))

	digestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	// Visited halves fade so the unexplored one stands out.
	visitedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("240")).
				Foreground(lipgloss.Color("243"))

	dirStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	binaryStyle = mutedStyle.Italic(true)
)

// Terminal implements navigator.Renderer with lipgloss panels and trees.
type Terminal struct {
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Render(f navigator.Frame) error {
	var sb strings.Builder

	sb.WriteString(header(f))
	sb.WriteString("\n")

	switch f.Kind {
	case navigator.FrameHalves:
		panels := make([]string, len(f.Panels))
		for i, p := range f.Panels {
			panels[i] = halfPanel(p)
		}
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, panels...))
		sb.WriteString("\n")
	case navigator.FrameLeaf:
		sb.WriteString("Line contents:\n")
		sb.WriteString(panelStyle.Render(strings.TrimRight(f.Content, "\r\n")))
		sb.WriteString("\n")
	case navigator.FrameEmpty:
		sb.WriteString(mutedStyle.Render("File is empty, nothing to split."))
		sb.WriteString("\n")
	case navigator.FrameUnreadable:
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("Not a text file (%s), nothing to split.", hash.Sentinel)))
		sb.WriteString("\n")
	case navigator.FrameListing:
		sb.WriteString(listing(f).String())
		sb.WriteString("\n")
	}

	if len(f.Choices) > 0 {
		sb.WriteString("-----\n")
		for _, c := range f.Choices {
			fmt.Fprintf(&sb, "%s [%s]\n", c.Label, c.Key)
		}
	}

	_, err := io.WriteString(t.out, sb.String())
	return err
}

func header(f navigator.Frame) string {
	line := titleStyle.Render(f.Title)
	if f.Scope != "" {
		line += " " + mutedStyle.Render(f.Scope)
	}
	if f.Digest != "" {
		line += "\n" + digestStyle.Render(f.Digest)
	}
	return line
}

func halfPanel(p navigator.Panel) string {
	if p.Visited {
		return visitedPanelStyle.Render(p.Label + " (visited)\n" + p.Digest)
	}
	return panelStyle.Render(p.Label + "\n" + digestStyle.Render(p.Digest))
}

func listing(f navigator.Frame) *tree.Tree {
	t := tree.Root(titleStyle.Render(f.Title)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(mutedStyle)
	for _, p := range f.Panels {
		t.Child(entryLabel(p))
	}
	return t
}

func entryLabel(p navigator.Panel) string {
	if !p.Traversable {
		return binaryStyle.Render(fmt.Sprintf("[%d] %s %s (%s)", p.Index, icon(p.Kind), p.Label, p.Digest))
	}

	name := fileStyle.Render(p.Label)
	if p.Kind == hashtree.Directory {
		name = dirStyle.Render(p.Label + "/")
	}
	label := fmt.Sprintf("[%d] %s %s (%s)", p.Index, icon(p.Kind), name, digestStyle.Render(p.Digest))
	if p.Visited {
		label = mutedStyle.Render(fmt.Sprintf("[%d] %s %s (%s) ✓", p.Index, icon(p.Kind), p.Label, p.Digest))
	}
	return label
}

func icon(k hashtree.Kind) string {
	switch k {
	case hashtree.Directory:
		return "📁"
	case hashtree.Unreadable:
		return "🚫"
	}
	return "📄"
}

// Tree draws node and its descendants down to depth levels (0 means only the
// root line), labelling every entry with its digest.
func Tree(title string, node *hashtree.Node, depth int) string {
	t := tree.Root(fmt.Sprintf("%s (%s)", titleStyle.Render(title), digestStyle.Render(node.Digest))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(mutedStyle)
	addChildren(t, node, depth)
	return t.String()
}

func addChildren(t *tree.Tree, node *hashtree.Node, depth int) {
	if depth <= 0 {
		return
	}
	for _, child := range node.Children {
		label := fmt.Sprintf("%s %s (%s)", icon(child.Kind), child.Name, child.Digest)
		switch {
		case child.Kind == hashtree.Directory && depth > 1 && len(child.Children) > 0:
			sub := tree.Root(label)
			addChildren(sub, child, depth-1)
			t.Child(sub)
		case child.Kind == hashtree.Unreadable:
			t.Child(binaryStyle.Render(label))
		default:
			t.Child(label)
		}
	}
}
