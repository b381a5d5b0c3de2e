package speech

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"
)

type Vosk struct {
	mu    sync.Mutex
	model *vosk.VoskModel
	rec   *vosk.VoskRecognizer
}

type voskResult struct {
	Text string `json:"text"`
}

func NewVosk(modelPath string) (*Vosk, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("vosk model: %w", err)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load vosk model: %w", err)
	}

	rec, err := vosk.NewRecognizer(model, SampleRate)
	if err != nil {
		model.Free()
		return nil, fmt.Errorf("new vosk recognizer: %w", err)
	}

	return &Vosk{model: model, rec: rec}, nil
}

func (v *Vosk) Name() string {
	return "vosk"
}

func (v *Vosk) Transcribe(ctx context.Context, pcm []float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.rec == nil {
		return "", ErrUnavailable
	}

	v.rec.AcceptWaveform(toPCM16(pcm))
	raw := v.rec.FinalResult()
	v.rec.Reset()

	var res voskResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", fmt.Errorf("decode vosk result: %w", err)
	}
	return strings.TrimSpace(res.Text), nil
}

func (v *Vosk) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.rec != nil {
		v.rec.Free()
		v.rec = nil
	}
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
	return nil
}

// toPCM16 packs float samples as little-endian signed 16-bit, clipping at full scale.
func toPCM16(pcm []float32) []byte {
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		s = max(-1, min(1, s))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*math.MaxInt16)))
	}
	return out
}
