package nlu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lull/internal/translate"
)

type fakeScreen struct {
	text  string
	err   error
	calls int
}

func (f *fakeScreen) ReadScreen(context.Context) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeVision struct {
	labels []string
	err    error
}

func (f *fakeVision) DetectObjects(context.Context) ([]string, error) {
	return f.labels, f.err
}

type fakeTranslator struct {
	res  translate.Result
	last translate.Request
}

func (f *fakeTranslator) Translate(_ context.Context, req translate.Request) translate.Result {
	f.last = req
	return f.res
}

func TestDispatch_Greeting(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	got := d.Dispatch(context.Background(), Classify("Hi Lull"))
	if got.Text != "Hi Amita , How may I help you?" {
		t.Errorf("greeting = %q", got.Text)
	}
	if got.Stop {
		t.Error("greeting must not stop the loop")
	}
}

func TestDispatch_Stop(t *testing.T) {
	got := NewDispatcher(nil, nil, nil).Dispatch(context.Background(), Classify("stop"))
	if !got.Stop || got.Text != FarewellReply {
		t.Errorf("unexpected stop reply %+v", got)
	}
}

func TestDispatch_ReadScreenEmpty(t *testing.T) {
	screen := &fakeScreen{text: "  \n "}
	got := NewDispatcher(screen, nil, nil).Dispatch(context.Background(), Intent{Kind: ReadScreen})
	if got.Text != NothingOnScreenReply {
		t.Errorf("got %q, want nothing-detected message", got.Text)
	}
	if screen.calls != 1 {
		t.Errorf("screen read %d times", screen.calls)
	}
}

func TestDispatch_ScreenErrors(t *testing.T) {
	d := NewDispatcher(&fakeScreen{err: errors.New("no display")}, nil, nil)
	got := d.Dispatch(context.Background(), Intent{Kind: ReadScreen})
	if !strings.Contains(got.Text, "no display") {
		t.Errorf("got %q", got.Text)
	}

	got = NewDispatcher(nil, nil, nil).Dispatch(context.Background(), Intent{Kind: ScreenQuery, Query: "x"})
	if got.Text != "Screen reading is not available." {
		t.Errorf("got %q", got.Text)
	}
}

func TestScreenReply(t *testing.T) {
	ocr := "Inbox (3)\nLogin Button\nSettings"

	tests := []struct {
		name string
		in   Intent
		want string
	}{
		{"found case-insensitive", Intent{Kind: ScreenQuery, Query: "login button"}, "Yes, I can see login button on the screen: Login Button"},
		{"not found", Intent{Kind: ScreenQuery, Query: "invoice"}, "No, I do not see invoice on the screen."},
		{"across lines", Intent{Kind: ScreenQuery, Query: "button settings"}, "Yes, I can see button settings on the screen."},
		{"summary", Intent{Kind: ReadScreen}, "Here is what I can read from the screen:\n" + ocr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScreenReply(tt.in, ocr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScreenReply_SummaryIsBounded(t *testing.T) {
	ocr := strings.Repeat("line of text\n", 20)
	got := ScreenReply(Intent{Kind: ReadScreen}, ocr)
	body := strings.TrimPrefix(got, "Here is what I can read from the screen:\n")
	if n := len(strings.Split(body, "\n")); n != summaryLines {
		t.Errorf("summary has %d lines, want %d", n, summaryLines)
	}

	long := strings.Repeat("x", 2000)
	got = ScreenReply(Intent{Kind: ReadScreen}, long)
	if !strings.HasSuffix(got, "...") || len(got) > summaryChars+100 {
		t.Errorf("long summary not truncated: %d bytes", len(got))
	}
}

func TestDispatch_IdentifyObject(t *testing.T) {
	d := NewDispatcher(nil, &fakeVision{labels: []string{"cup", "Cup", "phone"}}, nil)
	if got := d.Dispatch(context.Background(), Intent{Kind: IdentifyObject}); got.Text != "I see: cup, phone." {
		t.Errorf("got %q", got.Text)
	}

	d = NewDispatcher(nil, &fakeVision{}, nil)
	if got := d.Dispatch(context.Background(), Intent{Kind: IdentifyObject}); got.Text != NothingInViewReply {
		t.Errorf("got %q", got.Text)
	}

	d = NewDispatcher(nil, &fakeVision{err: errors.New("camera busy")}, nil)
	if got := d.Dispatch(context.Background(), Intent{Kind: IdentifyObject}); !strings.Contains(got.Text, "camera busy") {
		t.Errorf("got %q", got.Text)
	}
}

func TestDispatch_Translate(t *testing.T) {
	tr := &fakeTranslator{res: translate.Result{Text: "मुझे भूख लगी है", Provider: "https://lt.example/translate"}}
	got := NewDispatcher(nil, nil, tr).Dispatch(context.Background(), Classify("Translate I am hungry to Hindi"))

	if got.Text != "मुझे भूख लगी है" {
		t.Errorf("got %q", got.Text)
	}
	want := translate.Request{Text: "I am hungry", Source: "en", Target: "hi"}
	if tr.last != want {
		t.Errorf("request = %+v, want %+v", tr.last, want)
	}
}

func TestDispatch_TranslateFailure(t *testing.T) {
	tr := &fakeTranslator{res: translate.Result{Attempts: []translate.Attempt{{Provider: "a", Err: errors.New("down")}}}}
	got := NewDispatcher(nil, nil, tr).Dispatch(context.Background(), Classify("translate hello to french"))
	if got.Text != TranslationDownReply {
		t.Errorf("got %q", got.Text)
	}
	if got.Stop {
		t.Error("translation failure must not stop the loop")
	}
}

func TestDispatch_Unrecognized(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	tests := map[string]string{
		"sing me a song":            "I can help with screen reading, object detection, or translations to Hindi, Marathi, and French.",
		"translate hello to german": "I can't translate to german yet. I can translate to Hindi, Marathi, or French.",
		"translate to french":       "Please provide a sentence to translate.",
		"translate hello":           "Please specify a target language: Hindi, Marathi, or French.",
	}
	for in, want := range tests {
		if got := d.Dispatch(context.Background(), Classify(in)); got.Text != want {
			t.Errorf("Dispatch(%q) = %q, want %q", in, got.Text, want)
		}
	}
}

type fakeAnswerer struct {
	answer   string
	err      error
	question string
	calls    int
}

func (f *fakeAnswerer) AnswerScreen(_ context.Context, question, _ string) (string, error) {
	f.calls++
	f.question = question
	return f.answer, f.err
}

func TestDispatch_ScreenAnswerer(t *testing.T) {
	screen := &fakeScreen{text: "Bed 4\nNext dose 14:00"}
	ask := Intent{Kind: ScreenQuery, Query: "next dose"}

	qa := &fakeAnswerer{answer: "Yes, the next dose is at 14:00."}
	got := NewDispatcher(screen, nil, nil, WithAnswerer(qa)).Dispatch(context.Background(), ask)
	if got.Text != qa.answer || qa.question != "Is next dose on the screen?" {
		t.Errorf("got %q for question %q", got.Text, qa.question)
	}

	down := &fakeAnswerer{err: errors.New("quota exceeded")}
	got = NewDispatcher(screen, nil, nil, WithAnswerer(down)).Dispatch(context.Background(), ask)
	if got.Text != "Yes, I can see next dose on the screen: Next dose 14:00" {
		t.Errorf("fallback = %q", got.Text)
	}

	summary := &fakeAnswerer{answer: "unused"}
	NewDispatcher(screen, nil, nil, WithAnswerer(summary)).Dispatch(context.Background(), Intent{Kind: ReadScreen})
	NewDispatcher(&fakeScreen{text: " "}, nil, nil, WithAnswerer(summary)).Dispatch(context.Background(), ask)
	if summary.calls != 0 {
		t.Errorf("answerer called %d times for a summary or an empty screen", summary.calls)
	}
}
