package navigator

import (
	"fmt"
	"strings"
)

// LineRange is a run of lines with 1-based inclusive positions in the
// original file. End-Start+1 always equals len(Lines).
type LineRange struct {
	Start int
	End   int
	Lines []string
}

// NewLineRange covers a whole file.
func NewLineRange(lines []string) LineRange {
	return LineRange{Start: 1, End: len(lines), Lines: lines}
}

func (r LineRange) Len() int {
	return len(r.Lines)
}

// Split cuts the range at floor(len/2). The cut depends only on the line
// count, so both sides split identically whatever their content.
func (r LineRange) Split() (top, bottom LineRange) {
	halfway := len(r.Lines) / 2
	top = LineRange{
		Start: r.Start,
		End:   r.Start + halfway - 1,
		Lines: r.Lines[:halfway],
	}
	bottom = LineRange{
		Start: r.Start + halfway,
		End:   r.End,
		Lines: r.Lines[halfway:],
	}
	return top, bottom
}

func (r LineRange) String() string {
	return fmt.Sprintf("Lines: %d - %d", r.Start, r.End)
}

// SplitLines breaks text into lines that keep their terminators, so the
// concatenation of any run of lines is the exact file region. Only LF ends a
// line; a lone CR stays inside it.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
