package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Sink delivers a reply to the user.
type Sink interface {
	Say(ctx context.Context, text string) error
}

// Console prints replies prefixed with the assistant's name.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Say(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "Lull: %s\n", text)
	return err
}

type multi []Sink

// Multi delivers to every sink in order. One failing sink does not stop the
// others; their errors are joined.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multi) Say(ctx context.Context, text string) error {
	var errs []error
	for _, s := range m {
		if err := s.Say(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
