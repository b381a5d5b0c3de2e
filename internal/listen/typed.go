package listen

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

const Prompt = "You: "

// Typed reads one utterance per line. Lines are read by a background
// goroutine so Next can return on cancellation.
type Typed struct {
	in     io.Reader
	prompt io.Writer

	once  sync.Once
	lines chan string
	err   error
}

// NewTyped reads from in and writes the prompt to prompt, which may be nil.
func NewTyped(in io.Reader, prompt io.Writer) *Typed {
	return &Typed{in: in, prompt: prompt, lines: make(chan string)}
}

func (t *Typed) start() {
	go func() {
		defer close(t.lines)
		sc := bufio.NewScanner(t.in)
		for sc.Scan() {
			t.lines <- sc.Text()
		}
		t.err = sc.Err()
	}()
}

func (t *Typed) Next(ctx context.Context) (Utterance, error) {
	t.once.Do(t.start)

	for {
		if t.prompt != nil {
			fmt.Fprint(t.prompt, Prompt)
		}
		select {
		case <-ctx.Done():
			return Utterance{}, ctx.Err()
		case line, ok := <-t.lines:
			if !ok {
				if t.err != nil {
					return Utterance{}, t.err
				}
				return Utterance{}, io.EOF
			}
			if line = strings.TrimSpace(line); line == "" {
				continue
			}
			return NewUtterance(line, OriginTyped), nil
		}
	}
}
