// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt.go - Line-based prompts for the interactive export session.
//
// USABILITY: Every prompt re-asks until the answer is valid. Ctrl-C and EOF
// end the session with ErrCancelled instead of a stack of error messages.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

// =============================================================================
// LINE READERS
// =============================================================================

// LineReader reads one line of user input after showing prompt.
type LineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// LinerReader reads lines with readline-style editing.
type LinerReader struct {
	state *liner.State
}

// NewLinerReader creates a LinerReader on the process terminal.
// The caller must Close it to restore the terminal mode.
func NewLinerReader() *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinerReader{state: state}
}

// Prompt implements LineReader.
func (r *LinerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}

// Close implements LineReader.
func (r *LinerReader) Close() error {
	return r.state.Close()
}

// =============================================================================
// PROMPTER
// =============================================================================

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  LineReader
	out io.Writer
}

// NewPrompter creates a Prompter.
func NewPrompter(in LineReader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Ask reads one trimmed line after question.
func (p *Prompter) Ask(question string) (string, error) {
	line, err := p.in.Prompt(question + " " + Prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskUntilValid repeats question until check accepts the answer. A
// non-nil error from check is shown to the user before asking again.
func (p *Prompter) AskUntilValid(question string, check func(answer string) error) (string, error) {
	for {
		answer, err := p.Ask(question)
		if err != nil {
			return "", err
		}
		if err := check(answer); err != nil {
			fmt.Fprintln(p.out, TagUserError.Render(err.Error()))
			continue
		}
		return answer, nil
	}
}

// Choose lists items as "[i] item" and returns the 0-based index of the
// item the user picked by its 1-based number.
func (p *Prompter) Choose(intro string, items []string, question string) (int, error) {
	if len(items) == 0 {
		return -1, errors.New("nothing to choose from")
	}

	fmt.Fprintln(p.out, intro)
	for i, item := range items {
		fmt.Fprintf(p.out, "[%d] %s\n", i+1, HighlightStyle.Render(item))
	}

	var index int
	_, err := p.AskUntilValid(question+" (enter a number)", func(answer string) error {
		n, convErr := strconv.Atoi(answer)
		if convErr != nil || n < 1 || n > len(items) {
			return fmt.Errorf("%q is not a valid number; choose 1-%d", answer, len(items))
		}
		index = n - 1
		return nil
	})
	if err != nil {
		return -1, err
	}
	return index, nil
}

// Confirm asks a y/n question and re-asks on anything else.
func (p *Prompter) Confirm(question string) (bool, error) {
	var yes bool
	_, err := p.AskUntilValid(question+" [y/n]", func(answer string) error {
		switch strings.ToLower(answer) {
		case "y", "yes":
			yes = true
		case "n", "no":
			yes = false
		default:
			return fmt.Errorf("%q is not a valid answer; enter y or n", answer)
		}
		return nil
	})
	return yes, err
}

// WaitForEnter shows message and blocks until a line is entered.
func (p *Prompter) WaitForEnter(message string) error {
	_, err := p.in.Prompt(message + " ")
	if errors.Is(err, io.EOF) {
		return ErrCancelled
	}
	return err
}
