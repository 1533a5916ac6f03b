package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter asks the operator questions on a terminal. Invalid answers
// are re-asked rather than failed; a closed input stream is an error.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	styles Styles
}

// NewPrompter returns a prompter reading answers from in and writing
// questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		styles: DefaultStyles,
	}
}

// StdPrompter prompts on the process's own terminal.
func StdPrompter() *Prompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// YesNo asks a yes/no question until it gets one of y/yes/n/no.
func (p *Prompter) YesNo(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s [y/n] ", p.styles.Prompt.Render(question))
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// Line asks for a free-form answer. An empty answer yields def when a
// default is given, otherwise the question is asked again.
func (p *Prompter) Line(question, def string) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.out, "%s [%s] ", p.styles.Prompt.Render(question), def)
		} else {
			fmt.Fprintf(p.out, "%s ", p.styles.Prompt.Render(question))
		}
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		if def != "" {
			return def, nil
		}
	}
}

// Pick presents a numbered list and returns the chosen option. The
// answer may be the number or the option text itself.
func (p *Prompter) Pick(question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to pick from")
	}
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %s %s\n",
			p.styles.Accent.Render(fmt.Sprintf("%2d)", i+1)),
			opt)
	}
	for {
		fmt.Fprintf(p.out, "%s ", p.styles.Prompt.Render(question))
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if answer == opt {
				return opt, nil
			}
		}
	}
}
