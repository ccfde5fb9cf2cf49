package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// ErrInputClosed is returned by a Prompter once its input is exhausted.
var ErrInputClosed = errors.Base("input closed")

// 💬 Prompter asks the user for answers
type Prompter interface {
	// Ask shows prompt and returns the raw answer
	Ask(ctx context.Context, prompt string) (string, error)
	// Confirm shows prompt and reports whether the answer was affirmative
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// 📜 LinePrompter reads one answer per line. It is used for piped input and tests.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Prompter = (*LinePrompter)(nil)

// NewLinePrompter creates a prompter reading answers from in and writing prompts to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *LinePrompter) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", errors.Errorf("writing prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", errors.Errorf("reading answer: %w", err)
		}
		// a final line without a newline still counts
		if line == "" {
			return "", errors.WithStack(ErrInputClosed)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm is true only for a case-insensitive "yes".
func (p *LinePrompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := p.Ask(ctx, prompt)
	if err != nil {
		return false, err
	}
	return IsAffirmative(answer), nil
}

// IsAffirmative reports whether answer means "yes".
func IsAffirmative(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}

// 🖥️ TermPrompter uses pterm's interactive widgets. It needs a terminal.
type TermPrompter struct {
	input   *pterm.InteractiveTextInputPrinter
	confirm *pterm.InteractiveConfirmPrinter
}

var _ Prompter = (*TermPrompter)(nil)

// NewTermPrompter creates a prompter backed by pterm's default interactive printers
func NewTermPrompter() *TermPrompter {
	input := pterm.DefaultInteractiveTextInput
	confirm := pterm.DefaultInteractiveConfirm
	return &TermPrompter{
		input:   &input,
		confirm: &confirm,
	}
}

func (p *TermPrompter) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	answer, err := p.input.Show(strings.TrimSpace(prompt))
	if err != nil {
		return "", errors.Errorf("reading answer: %w", err)
	}
	return answer, nil
}

func (p *TermPrompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := p.confirm.Show(strings.TrimSpace(prompt))
	if err != nil {
		return false, errors.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}
