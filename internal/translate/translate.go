// Package translate turns text from one language into another by walking an
// ordered list of translation providers until one answers.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultSource is assumed when a request carries no source language.
const DefaultSource = "en"

var (
	ErrEmptyText     = errors.New("empty text")
	ErrNoTarget      = errors.New("no target language")
	ErrEmptyResponse = errors.New("response carried no translated text")
	ErrExhausted     = errors.New("all translation providers failed")
)

// Request is a single translation job. Languages are ISO 639-1 codes.
type Request struct {
	Text   string
	Source string
	Target string
}

func (r Request) normalized() Request {
	r.Text = strings.TrimSpace(r.Text)
	r.Source = strings.ToLower(strings.TrimSpace(r.Source))
	r.Target = strings.ToLower(strings.TrimSpace(r.Target))
	if r.Source == "" {
		r.Source = DefaultSource
	}
	return r
}

// Validate reports whether the request can be sent to a provider.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if strings.TrimSpace(r.Target) == "" {
		return ErrNoTarget
	}
	return nil
}

func (r Request) cacheKey() string {
	return fmt.Sprintf("lull:translate:%s:%s:%s", r.Source, r.Target, r.Text)
}

// Provider is one translation backend: a LibreTranslate endpoint, MyMemory,
// an LLM. Name must identify the backend in diagnostics.
type Provider interface {
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
}

// Attempt records one failed provider call.
type Attempt struct {
	Provider string
	Err      error
}

// Result is the outcome of Client.Translate. On success Provider names the
// backend that answered; on failure Provider is empty and Attempts holds one
// entry per backend tried.
type Result struct {
	Text     string
	Provider string
	Attempts []Attempt
}

// OK reports whether the translation succeeded.
func (r Result) OK() bool {
	return r.Provider != ""
}

// Err returns nil on success and an *ExhaustedError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ExhaustedError{Attempts: r.Attempts}
}

// ExhaustedError lists every provider that was tried and why it failed.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrExhausted.Error() + ": no providers configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Provider, a.Err))
	}
	return fmt.Sprintf("%s after %d attempts: %s", ErrExhausted, len(e.Attempts), strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() error {
	return ErrExhausted
}
