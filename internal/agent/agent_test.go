package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"lull/internal/listen"
	"lull/internal/nlu"
	"lull/internal/translate"
)

// script is a Source that replays fixed lines and then reports EOF.
type script struct {
	lines []string
	read  int
}

func (s *script) Next(ctx context.Context) (listen.Utterance, error) {
	if err := ctx.Err(); err != nil {
		return listen.Utterance{}, err
	}
	if s.read >= len(s.lines) {
		return listen.Utterance{}, io.EOF
	}
	s.read++
	return listen.NewUtterance(s.lines[s.read-1], listen.OriginTyped), nil
}

// recorder is a Sink collecting replies.
type recorder struct {
	said []string
	err  error
}

func (r *recorder) Say(_ context.Context, text string) error {
	r.said = append(r.said, text)
	return r.err
}

type fakeScreen string

func (f fakeScreen) ReadScreen(context.Context) (string, error) { return string(f), nil }

type wakeCounter int

func (w *wakeCounter) Wake() { *w++ }

// libreMock answers every request with translatedText and records the last body.
func libreMock(t *testing.T, translated string) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var last atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		last.Store(body)
		json.NewEncoder(w).Encode(map[string]string{"translatedText": translated})
	}))
	t.Cleanup(ts.Close)
	return ts, &last
}

func newAgent(t *testing.T, lines []string, disp Dispatcher, opt Options) (*Agent, *script, *recorder) {
	t.Helper()
	src := &script{lines: lines}
	sink := &recorder{}
	return New(src, disp, sink, opt), src, sink
}

func TestRun_Greeting(t *testing.T) {
	var wakes wakeCounter
	a, _, sink := newAgent(t, []string{"Hi Lull"}, nlu.NewDispatcher(nil, nil, nil), Options{Waker: &wakes})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{ReadyReply, "Hi Amita , How may I help you?"}
	if strings.Join(sink.said, "|") != strings.Join(want, "|") {
		t.Errorf("said %q, want %q", sink.said, want)
	}
	if wakes != 1 {
		t.Errorf("woke %d times", wakes)
	}
}

func TestRun_TranslateThroughLibreTranslate(t *testing.T) {
	ts, last := libreMock(t, "मुझे भूख लगी है")
	client := translate.NewClient(translate.LibreTranslateEndpoints([]string{ts.URL}, "", nil), nil)
	a, _, sink := newAgent(t, []string{"Translate I am hungry to Hindi"}, nlu.NewDispatcher(nil, nil, client), Options{})

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := sink.said[len(sink.said)-1]; got != "मुझे भूख लगी है" {
		t.Errorf("reply = %q", got)
	}

	body, _ := last.Load().(map[string]any)
	if body["q"] != "I am hungry" || body["source"] != "en" || body["target"] != "hi" || body["format"] != "text" {
		t.Errorf("request body = %v", body)
	}
}

func TestRun_TranslationDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)
	client := translate.NewClient(translate.LibreTranslateEndpoints([]string{ts.URL}, "", nil), nil)
	a, _, sink := newAgent(t, []string{"translate good night to french", "Hi Lull"}, nlu.NewDispatcher(nil, nil, client), Options{})

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sink.said[1] != nlu.TranslationDownReply {
		t.Errorf("reply = %q", sink.said[1])
	}
	if len(sink.said) != 3 {
		t.Errorf("loop did not continue after a failed translation: %q", sink.said)
	}
}

func TestRun_StopEndsLoop(t *testing.T) {
	a, src, sink := newAgent(t, []string{"Hi Lull", "Stop", "read my screen"}, nlu.NewDispatcher(fakeScreen("x"), nil, nil), Options{})

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if src.read != 2 {
		t.Errorf("read %d utterances after stop, want 2", src.read)
	}
	if got := sink.said[len(sink.said)-1]; got != nlu.FarewellReply {
		t.Errorf("last reply = %q", got)
	}
}

func TestRun_EmptyScreen(t *testing.T) {
	a, _, sink := newAgent(t, []string{"what is on my screen"}, nlu.NewDispatcher(fakeScreen(""), nil, nil), Options{})
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := sink.said[1]; got != nlu.NothingOnScreenReply {
		t.Errorf("reply = %q", got)
	}
}

func TestRun_SkipsBlankAndSurvivesSinkErrors(t *testing.T) {
	src := &script{lines: []string{"", "   ", "Hi Lull"}}
	sink := &recorder{err: errors.New("speaker unplugged")}
	a := New(src, nlu.NewDispatcher(nil, nil, nil), sink, Options{})

	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(sink.said) != 2 {
		t.Errorf("said %q", sink.said)
	}
}

type blocking struct{}

func (blocking) Next(ctx context.Context) (listen.Utterance, error) {
	<-ctx.Done()
	return listen.Utterance{}, ctx.Err()
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	a := New(blocking{}, nlu.NewDispatcher(nil, nil, nil), &recorder{}, Options{})
	if err := a.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline", err)
	}
}

func TestProcess_RequireWake(t *testing.T) {
	var wakes wakeCounter
	a := New(nil, nlu.NewDispatcher(fakeScreen("Settings"), nil, nil), nil, Options{RequireWake: true, Waker: &wakes})
	sess := &Session{}
	ctx := context.Background()

	if r := a.Process(ctx, sess, listen.NewUtterance("read my screen", listen.OriginTyped)); r.Text != "" {
		t.Errorf("command outside a session answered: %q", r.Text)
	}

	r := a.Process(ctx, sess, listen.NewUtterance("hi lull read my screen", listen.OriginTyped))
	if !sess.Active || !strings.Contains(r.Text, "Settings") {
		t.Errorf("woken command: active %v reply %q", sess.Active, r.Text)
	}

	if r := a.Process(ctx, sess, listen.NewUtterance("read my screen", listen.OriginTyped)); r.Text == "" {
		t.Error("command inside a session ignored")
	}
	a.Process(ctx, sess, listen.NewUtterance("hi lull", listen.OriginTyped))
	if wakes != 1 {
		t.Errorf("woke %d times while already active", wakes)
	}

	r = a.Process(ctx, sess, listen.NewUtterance("stop", listen.OriginTyped))
	if sess.Active || !r.Stop {
		t.Errorf("stop: active %v reply %+v", sess.Active, r)
	}
}

func TestProcess_WokenGibberishKeepsSession(t *testing.T) {
	var wakes wakeCounter
	a := New(nil, nlu.NewDispatcher(nil, nil, nil), nil, Options{RequireWake: true, Waker: &wakes})
	sess := &Session{}

	r := a.Process(context.Background(), sess, listen.NewUtterance("hi lull sing me a song", listen.OriginTyped))
	if sess.Active || wakes != 0 {
		t.Errorf("unrecognized utterance opened a session: active %v wakes %d", sess.Active, wakes)
	}
	if !strings.HasPrefix(r.Text, "I can help with") {
		t.Errorf("reply = %q, want clarification", r.Text)
	}

	if r := a.Process(context.Background(), sess, listen.NewUtterance("read my screen", listen.OriginTyped)); r.Text != "" {
		t.Errorf("command after gibberish answered outside a session: %q", r.Text)
	}
}

func TestProcess_DefaultAnswersWithoutWake(t *testing.T) {
	a := New(nil, nlu.NewDispatcher(nil, nil, nil), nil, Options{})
	r := a.Process(context.Background(), &Session{}, listen.NewUtterance("sing me a song", listen.OriginTyped))
	if !strings.HasPrefix(r.Text, "I can help with") {
		t.Errorf("reply = %q", r.Text)
	}
}
