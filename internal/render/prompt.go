package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LinePrompter implements navigator.Prompter over a line-oriented reader.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt prints a marker and returns the next line without surrounding
// whitespace. A final line without a newline is still returned; io.EOF only
// surfaces once nothing is left.
func (p *LinePrompter) Prompt() (string, error) {
	if _, err := io.WriteString(p.out, "> "); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
