// Package audio records one spoken utterance from the default microphone.
package audio

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 16000
	frameSize  = 320 // 20ms
)

type RecorderOptions struct {
	// SilenceRMS is the frame energy below which a frame counts as silence.
	SilenceRMS float64
	// Trailing silence that ends an utterance.
	Silence   time.Duration
	MaxLength time.Duration
}

var DefaultRecorderOptions = RecorderOptions{
	SilenceRMS: 0.015,
	Silence:    600 * time.Millisecond,
	MaxLength:  10 * time.Second,
}

type Recorder struct {
	opt RecorderOptions
}

func NewRecorder(opt RecorderOptions) *Recorder {
	if opt.SilenceRMS <= 0 {
		opt.SilenceRMS = DefaultRecorderOptions.SilenceRMS
	}
	if opt.Silence <= 0 {
		opt.Silence = DefaultRecorderOptions.Silence
	}
	if opt.MaxLength <= 0 {
		opt.MaxLength = DefaultRecorderOptions.MaxLength
	}
	return &Recorder{opt: opt}
}

func (r *Recorder) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	return nil
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordAuto waits for speech and returns it once trailing silence is heard
// or the maximum length is reached. Leading silence is dropped.
func (r *Recorder) RecordAuto(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	ep := newEndpointer(r.opt)
	for !ep.done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}
		ep.push(buf)
	}

	return ep.out, nil
}

// endpointer collects frames from the first voiced frame until enough
// trailing silence or the frame budget runs out.
type endpointer struct {
	threshold     float64
	silenceFrames int
	maxFrames     int

	frames   int
	speaking bool
	quiet    int
	out      []float32
}

func newEndpointer(opt RecorderOptions) *endpointer {
	frameDur := time.Second * frameSize / SampleRate
	return &endpointer{
		threshold:     opt.SilenceRMS,
		silenceFrames: int(opt.Silence / frameDur),
		maxFrames:     int(opt.MaxLength / frameDur),
		out:           make([]float32, 0, SampleRate*3),
	}
}

func (e *endpointer) push(frame []float32) {
	e.frames++
	if frameRMS(frame) > e.threshold {
		e.speaking = true
		e.quiet = 0
		e.out = append(e.out, frame...)
		return
	}
	if e.speaking {
		e.quiet++
		e.out = append(e.out, frame...)
	}
}

func (e *endpointer) done() bool {
	if e.frames >= e.maxFrames {
		return true
	}
	return e.speaking && e.quiet >= e.silenceFrames
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
