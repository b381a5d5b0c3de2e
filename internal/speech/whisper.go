package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

type WhisperOptions struct {
	Language      string // "auto" when empty
	Threads       int    // <=0 => NumCPU()
	InitialPrompt string
	BeamSize      int // 0 = greedy
}

type Whisper struct {
	mu    sync.Mutex
	model whisper.Model
	opt   WhisperOptions
}

func NewWhisper(modelPath string, opt WhisperOptions) (*Whisper, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if opt.Language == "" {
		opt.Language = "auto"
	}
	if opt.Threads <= 0 {
		opt.Threads = runtime.NumCPU()
	}
	return &Whisper{model: m, opt: opt}, nil
}

func (w *Whisper) Name() string {
	return "whisper"
}

func (w *Whisper) Transcribe(ctx context.Context, pcm []float32) (string, error) {
	if len(pcm) == 0 {
		return "", errors.New("no audio samples provided")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model == nil {
		return "", ErrUnavailable
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}

	if err := wctx.SetLanguage(w.opt.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetTranslate(false)
	wctx.SetThreads(uint(w.opt.Threads))
	if w.opt.BeamSize > 0 {
		wctx.SetBeamSize(w.opt.BeamSize)
	}
	if w.opt.InitialPrompt != "" {
		wctx.SetInitialPrompt(w.opt.InitialPrompt)
	}

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}

func (w *Whisper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model == nil {
		return nil
	}
	err := w.model.Close()
	w.model = nil
	return err
}
