package nlu

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"

	"lull/internal/translate"
)

// ScreenReader returns the text currently visible on screen.
type ScreenReader interface {
	ReadScreen(ctx context.Context) (string, error)
}

// ObjectDetector returns labels of objects in front of the camera, most
// confident first.
type ObjectDetector interface {
	DetectObjects(ctx context.Context) ([]string, error)
}

// ScreenAnswerer answers a free-form question from the screen text.
type ScreenAnswerer interface {
	AnswerScreen(ctx context.Context, question, screenText string) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, req translate.Request) translate.Result
}

// Reply is what the assistant says back. Stop asks the caller to end the loop.
type Reply struct {
	Text   string
	Stop   bool
	Intent Intent
}

// Dispatcher fetches the content an intent needs from its collaborators and
// turns it into a reply. Nil collaborators are reported as unavailable.
type Dispatcher struct {
	screen     ScreenReader
	vision     ObjectDetector
	translator Translator
	answerer   ScreenAnswerer
}

type DispatcherOption func(*Dispatcher)

// WithAnswerer asks a for screen questions before falling back to a plain
// text search of the screen.
func WithAnswerer(a ScreenAnswerer) DispatcherOption {
	return func(d *Dispatcher) {
		d.answerer = a
	}
}

func NewDispatcher(screen ScreenReader, vision ObjectDetector, translator Translator, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		screen:     screen,
		vision:     vision,
		translator: translator,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Dispatch(ctx context.Context, in Intent) Reply {
	var text string
	switch in.Kind {
	case Greeting:
		text = GreetingReply
	case Stop:
		return Reply{Text: FarewellReply, Stop: true, Intent: in}
	case ReadScreen, ScreenQuery:
		text = d.screenReply(ctx, in)
	case IdentifyObject:
		text = d.objectReply(ctx)
	case Translate:
		text = d.translateReply(ctx, in)
	default:
		text = ClarifyReply(in)
	}
	return Reply{Text: text, Intent: in}
}

func (d *Dispatcher) screenReply(ctx context.Context, in Intent) string {
	if d.screen == nil {
		return "Screen reading is not available."
	}
	ocr, err := d.screen.ReadScreen(ctx)
	if err != nil {
		log.Error("Failed to read screen", "err", err)
		return fmt.Sprintf("Screen capture failed: %v", err)
	}

	if d.answerer != nil && in.Kind == ScreenQuery && in.Query != "" && strings.TrimSpace(ocr) != "" {
		answer, err := d.answerer.AnswerScreen(ctx, ScreenQuestion(in.Query), ocr)
		if err == nil {
			return answer
		}
		log.Debug("Screen answerer gave no answer", "query", in.Query, "err", err)
	}
	return ScreenReply(in, ocr)
}

func (d *Dispatcher) objectReply(ctx context.Context) string {
	if d.vision == nil {
		return "Object detection is not available."
	}
	labels, err := d.vision.DetectObjects(ctx)
	if err != nil {
		log.Error("Failed to detect objects", "err", err)
		return fmt.Sprintf("Object detection failed: %v", err)
	}
	return ObjectReply(labels)
}

func (d *Dispatcher) translateReply(ctx context.Context, in Intent) string {
	if d.translator == nil {
		return TranslationDownReply
	}
	res := d.translator.Translate(ctx, translate.Request{
		Text:   in.Text,
		Source: in.Source,
		Target: in.Target,
	})
	if err := res.Err(); err != nil {
		log.Warn("Translation unavailable", "err", err)
	} else {
		log.Debug("Translated", "provider", res.Provider, "target", in.Target)
	}
	return TranslateReply(res)
}
