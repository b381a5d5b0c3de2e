// Package listen produces utterances from typed input, the microphone and the
// control socket.
package listen

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	OriginTyped   = "typed"
	OriginMic     = "mic"
	OriginControl = "control"
)

// Utterance is one recognized segment or typed line.
type Utterance struct {
	ID     uuid.UUID
	Text   string
	At     time.Time
	Origin string
}

func NewUtterance(text, origin string) Utterance {
	return Utterance{
		ID:     uuid.New(),
		Text:   text,
		At:     time.Now(),
		Origin: origin,
	}
}

// Source yields utterances one at a time. Next returns io.EOF when the source
// is exhausted and ctx.Err() when ctx is done.
type Source interface {
	Next(ctx context.Context) (Utterance, error)
}
