// Package agent runs the assistant loop: listen, classify, dispatch, reply.
package agent

import (
	"context"
	"errors"
	"io"
	log "log/slog"
	"strings"
	"time"

	"lull/internal/listen"
	"lull/internal/nlu"
)

const ReadyReply = "Lull is ready. Say 'Hi Lull'."

// Pause after a failing source before asking it again.
const sourceRetry = 500 * time.Millisecond

type Dispatcher interface {
	Dispatch(ctx context.Context, in nlu.Intent) nlu.Reply
}

// Waker is told when a session opens.
type Waker interface {
	Wake()
}

// Session carries the wake state between utterances.
type Session struct {
	Active bool
}

type Options struct {
	// RequireWake ignores commands until the wake phrase opened a session.
	RequireWake bool
	Waker       Waker
}

type Agent struct {
	src  listen.Source
	disp Dispatcher
	sink Sink
	opt  Options
}

func New(src listen.Source, disp Dispatcher, sink Sink, opt Options) *Agent {
	return &Agent{src: src, disp: disp, sink: sink, opt: opt}
}

// Run announces readiness and handles utterances one at a time. It returns
// nil after a stop command or when the source is exhausted, and ctx.Err()
// when ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	a.say(ctx, ReadyReply)

	sess := &Session{}
	for {
		u, err := a.src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				log.Info("Input closed")
				return nil
			}
			log.Warn("Failed to listen", "err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sourceRetry):
			}
			continue
		}

		if strings.TrimSpace(u.Text) == "" {
			continue
		}

		reply := a.Process(ctx, sess, u)
		a.say(ctx, reply.Text)
		if reply.Stop {
			log.Info("Stopped by user")
			return nil
		}
	}
}

// Process classifies one utterance, updates the session and dispatches the
// intent. An ignored utterance yields an empty reply.
func (a *Agent) Process(ctx context.Context, sess *Session, u listen.Utterance) nlu.Reply {
	in := nlu.Classify(u.Text)
	log.Info("Heard", "id", u.ID, "origin", u.Origin, "text", u.Text, "intent", in.Kind)

	switch {
	case in.Kind == nlu.Stop:
		sess.Active = false
	case in.Kind == nlu.Greeting || in.Woke && in.Kind != nlu.Unrecognized:
		if !sess.Active {
			sess.Active = true
			if a.opt.Waker != nil {
				a.opt.Waker.Wake()
			}
		}
	case in.Woke:
		// Addressed but not understood: clarify, leave the session as it is.
	case a.opt.RequireWake && !sess.Active:
		log.Debug("Ignoring utterance outside a session", "id", u.ID)
		return nlu.Reply{Intent: in}
	}

	return a.disp.Dispatch(ctx, in)
}

func (a *Agent) say(ctx context.Context, text string) {
	if text == "" {
		return
	}
	if err := a.sink.Say(ctx, text); err != nil {
		log.Error("Failed to deliver reply", "err", err)
	}
}
