package listen

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"lull/internal/ipc"
)

func TestTyped(t *testing.T) {
	var prompt bytes.Buffer
	src := NewTyped(strings.NewReader("Hi Lull\n\n   \ntranslate hello to french\n"), &prompt)
	ctx := context.Background()

	for _, want := range []string{"Hi Lull", "translate hello to french"} {
		u, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if u.Text != want || u.Origin != OriginTyped {
			t.Errorf("got %+v, want %q", u, want)
		}
	}
	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF", err)
	}
	if !strings.HasPrefix(prompt.String(), Prompt) {
		t.Errorf("prompt = %q", prompt.String())
	}
}

func TestTyped_Cancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := NewTyped(r, nil).Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline", err)
	}
}

func TestUtteranceIDsAreUnique(t *testing.T) {
	a, b := NewUtterance("x", OriginTyped), NewUtterance("x", OriginTyped)
	if a.ID == b.ID {
		t.Error("utterances share an id")
	}
}

type fakeRecorder struct {
	clips [][]float32
	err   error
}

func (f *fakeRecorder) RecordAuto(context.Context) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.clips) == 0 {
		return nil, errors.New("no more clips")
	}
	c := f.clips[0]
	f.clips = f.clips[1:]
	return c, nil
}

// fakeRecognizer transcribes a clip to the text stored at its length.
type fakeRecognizer map[int]string

func (f fakeRecognizer) Transcribe(_ context.Context, pcm []float32) (string, error) {
	return f[len(pcm)], nil
}

func TestMic_SkipsSilence(t *testing.T) {
	rec := &fakeRecorder{clips: [][]float32{nil, make([]float32, 1), make([]float32, 2)}}
	mic := NewMic(rec, fakeRecognizer{1: "   ", 2: "what am I holding"})

	u, err := mic.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if u.Text != "what am I holding" || u.Origin != OriginMic {
		t.Errorf("got %+v", u)
	}
}

func TestMic_RecorderError(t *testing.T) {
	mic := NewMic(&fakeRecorder{err: errors.New("device gone")}, fakeRecognizer{})
	if _, err := mic.Next(context.Background()); err == nil || !strings.Contains(err.Error(), "device gone") {
		t.Errorf("err = %v", err)
	}
}

func TestQueue(t *testing.T) {
	q := NewQueue(1)
	if !q.Push("a", OriginControl) {
		t.Fatal("push to empty queue failed")
	}
	if q.Push("b", OriginControl) {
		t.Error("push to full queue succeeded")
	}

	u, err := q.Next(context.Background())
	if err != nil || u.Text != "a" {
		t.Fatalf("got %+v, %v", u, err)
	}

	q.Close()
	q.Close()
	if q.Push("c", OriginControl) {
		t.Error("push after close succeeded")
	}
	if _, err := q.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF", err)
	}
}

func TestMerge(t *testing.T) {
	typed := NewTyped(strings.NewReader("one\ntwo\n"), nil)
	q := NewQueue(4)
	q.Push("three", OriginControl)
	q.Close()

	src := Merge(typed, q)
	got := map[string]string{}
	for {
		u, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got[u.Text] = u.Origin
	}

	want := map[string]string{"one": OriginTyped, "two": OriginTyped, "three": OriginControl}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%q origin = %q, want %q", k, got[k], v)
		}
	}
}

func TestMerge_EndsWithPrimary(t *testing.T) {
	q := NewQueue(4)
	src := Merge(CloseOnEOF(NewTyped(strings.NewReader("hi lull\n"), nil), q), q)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var texts []string
	for {
		u, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("merge kept running after stdin ended: %v", err)
		}
		texts = append(texts, u.Text)
	}
	if len(texts) != 1 || texts[0] != "hi lull" {
		t.Errorf("texts = %q", texts)
	}
}

// countingSource answers every Next immediately and counts the calls.
type countingSource struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSource) Next(context.Context) (Utterance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return NewUtterance("hi lull", OriginMic), nil
}

func (c *countingSource) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestMerge_ReadsOnDemand(t *testing.T) {
	primary := &countingSource{}
	q := NewQueue(1)
	defer q.Close()
	src := Merge(primary, q)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := src.Next(ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if n := primary.count(); n != 1 {
		t.Fatalf("primary read %d times while the first utterance was handled", n)
	}

	if _, err := src.Next(ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if n := primary.count(); n != 2 {
		t.Errorf("primary read %d times after two requests", n)
	}
}

func TestMerge_HoldsLateUtterance(t *testing.T) {
	q := NewQueue(2)
	q.Push("stop", OriginControl)
	src := Merge(NewTyped(strings.NewReader("hi lull\n"), nil), q)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got := map[string]bool{}
	for range 2 {
		u, err := src.Next(ctx)
		if err != nil {
			t.Fatal(err)
		}
		got[u.Text] = true
	}
	if !got["hi lull"] || !got["stop"] {
		t.Errorf("got %v, want both utterances", got)
	}
}

func TestMerge_Single(t *testing.T) {
	q := NewQueue(1)
	if Merge(q) != Source(q) {
		t.Error("single source should not be wrapped")
	}
}

func TestControlHandler(t *testing.T) {
	q := NewQueue(1)
	stopped := false
	h := ControlHandler(q, nil, func() { stopped = true })

	if err := h(ipc.ControlMessage{Cmd: ipc.CmdSay, Text: "read my screen"}); err != nil {
		t.Fatal(err)
	}
	if err := h(ipc.ControlMessage{Cmd: ipc.CmdSay, Text: "again"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("err = %v, want ErrQueueFull", err)
	}
	u, _ := q.Next(context.Background())
	if u.Text != "read my screen" || u.Origin != OriginControl {
		t.Errorf("got %+v", u)
	}

	if err := h(ipc.ControlMessage{Cmd: ipc.CmdFile, Path: "x.wav"}); !errors.Is(err, ErrNoRecognize) {
		t.Errorf("err = %v, want ErrNoRecognize", err)
	}

	if err := h(ipc.ControlMessage{Cmd: ipc.CmdStop}); err != nil || !stopped {
		t.Errorf("stop: err %v, stopped %v", err, stopped)
	}
}

func TestControlHandler_FileErrors(t *testing.T) {
	h := ControlHandler(NewQueue(1), fakeRecognizer{}, nil)
	err := h(ipc.ControlMessage{Cmd: ipc.CmdFile, Path: filepath.Join(t.TempDir(), "missing.wav")})
	if err == nil {
		t.Error("missing file accepted")
	}
}
