// Package prompt implements the interactive confirmation gates destructive
// commands put between the preview and the real run.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	warnColor   = color.New(color.FgYellow, color.Bold)
	dangerColor = color.New(color.FgRed, color.Bold)
)

// Prompter asks questions on one reader/writer pair. The zero value is
// not usable; call New.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// AssumeYes answers every gate affirmatively, for non-interactive runs.
	AssumeYes bool
}

// New creates a prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Default prompts on stdin/stderr. Questions go to stderr so piped stdout
// stays clean for report output.
func Default() *Prompter {
	return New(os.Stdin, os.Stderr)
}

// Confirm asks a yes/no question and reports the answer. Anything other
// than y/yes counts as no.
func (p *Prompter) Confirm(question string) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	warnColor.Fprint(p.out, question)
	fmt.Fprint(p.out, " [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// ConfirmTyped requires the user to type word exactly. Irreversible
// operations (permanent delete, recycle) gate on it so a stray "y" can't
// destroy content. AssumeYes does not apply here.
func (p *Prompter) ConfirmTyped(question, word string) (bool, error) {
	dangerColor.Fprintln(p.out, question)
	fmt.Fprintf(p.out, "Type %s to proceed: ", word)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line) == word, nil
}
