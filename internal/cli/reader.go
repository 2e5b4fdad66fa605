package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader provides context-aware input reading that can be interrupted.
type NonBlockingReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadString reads a string until delimiter, respecting context cancellation.
func (r *NonBlockingReader) ReadString(ctx context.Context, delim byte) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString(delim)
		resultCh <- result{value: value, err: err}
	}()

	// The reading goroutine keeps running after cancellation, but the
	// caller gets control back immediately.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}

// ReadLine reads a line, respecting context cancellation.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Prompter wraps a NonBlockingReader with styled question helpers.
type Prompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewPrompter creates a prompter over the given streams.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Prompt asks a free-form question and returns the trimmed answer.
func (p *Prompter) Prompt(ctx context.Context, question string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(question)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	return p.reader.ReadLine(ctx)
}

// Confirm asks a yes/no question and keeps asking until it gets one.
// An empty answer takes the default.
func (p *Prompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	for {
		answer, err := p.Prompt(ctx, fmt.Sprintf("%s %s", question, hint))
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			if _, err := fmt.Fprintln(p.writer, FormatWarning("Please answer y or n")); err != nil {
				return false, fmt.Errorf("failed to write hint: %w", err)
			}
		}
	}
}

// Choice asks the user to pick one of validChoices (case-insensitive)
// and keeps asking until the answer matches.
func (p *Prompter) Choice(ctx context.Context, question string, validChoices []string) (string, error) {
	for {
		answer, err := p.Prompt(ctx, question)
		if err != nil {
			return "", err
		}

		answer = strings.ToLower(answer)
		for _, valid := range validChoices {
			if answer == valid {
				return answer, nil
			}
		}

		if _, err := fmt.Fprintf(p.writer, "%s\n", FormatWarning(fmt.Sprintf("Please choose one of: %s", strings.Join(validChoices, ", ")))); err != nil {
			return "", fmt.Errorf("failed to write hint: %w", err)
		}
	}
}
