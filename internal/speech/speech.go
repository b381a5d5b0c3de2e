// Package speech turns recorded audio into transcripts with an offline engine.
package speech

import (
	"context"
	"errors"
	"fmt"
)

// SampleRate is the rate every recognizer expects, mono float32 in [-1, 1].
const SampleRate = 16000

// ErrUnavailable means no engine could be loaded; callers fall back to typed input.
var ErrUnavailable = errors.New("speech recognition unavailable")

type Recognizer interface {
	Name() string
	Transcribe(ctx context.Context, pcm []float32) (string, error)
	Close() error
}

// Open loads Vosk when voskPath is set, otherwise whisper.cpp when whisperPath
// is set. Any failure is reported as ErrUnavailable wrapping the cause.
func Open(voskPath, whisperPath string) (Recognizer, error) {
	switch {
	case voskPath != "":
		rec, err := NewVosk(voskPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return rec, nil
	case whisperPath != "":
		rec, err := NewWhisper(whisperPath, WhisperOptions{})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("%w: no model configured", ErrUnavailable)
	}
}
