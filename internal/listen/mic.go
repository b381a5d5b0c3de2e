package listen

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
)

type Recorder interface {
	RecordAuto(ctx context.Context) ([]float32, error)
}

type Recognizer interface {
	Transcribe(ctx context.Context, pcm []float32) (string, error)
}

// Mic records until the speaker pauses and transcribes the recording.
// Silent or unintelligible recordings are skipped.
type Mic struct {
	rec Recorder
	stt Recognizer
}

func NewMic(rec Recorder, stt Recognizer) *Mic {
	return &Mic{rec: rec, stt: stt}
}

func (m *Mic) Next(ctx context.Context) (Utterance, error) {
	for {
		pcm, err := m.rec.RecordAuto(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return Utterance{}, ctx.Err()
			}
			return Utterance{}, fmt.Errorf("record: %w", err)
		}
		if len(pcm) == 0 {
			continue
		}

		log.Debug("Recorded", "samples", len(pcm))

		text, err := m.stt.Transcribe(ctx, pcm)
		if err != nil {
			if ctx.Err() != nil {
				return Utterance{}, ctx.Err()
			}
			return Utterance{}, fmt.Errorf("transcribe: %w", err)
		}
		if text = strings.TrimSpace(text); text == "" {
			continue
		}

		log.Info("Transcribed", "text", text)
		return NewUtterance(text, OriginMic), nil
	}
}
