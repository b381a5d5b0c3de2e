// Package tts speaks replies through libespeak-ng.
package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

static int
lull_espeak_say(const char *text, const char *voice)
{
	if (!text || !voice)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	espeak_VOICE specs;
	memset(&specs, 0, sizeof(specs));
	specs.languages = voice;
	espeak_SetVoiceByProperties(&specs);

	espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"sync"
	"unsafe"
)

// Ducker lowers other applications while the assistant talks.
type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

type Speaker struct {
	mu    sync.Mutex
	voice string
	duck  Ducker
}

// NewSpeaker uses voice as an espeak language tag such as "en" or "hi".
// duck may be nil.
func NewSpeaker(voice string, duck Ducker) *Speaker {
	if voice == "" {
		voice = "en"
	}
	return &Speaker{voice: voice, duck: duck}
}

// Say blocks until playback finishes.
func (s *Speaker) Say(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.duck != nil {
		if err := s.duck.Duck(ctx); err != nil {
			log.Debug("Failed to duck other streams", "err", err)
		}
		defer func() {
			if err := s.duck.Restore(context.WithoutCancel(ctx)); err != nil {
				log.Debug("Failed to restore other streams", "err", err)
			}
		}()
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(s.voice)
	defer C.free(unsafe.Pointer(cvoice))

	if rc := C.lull_espeak_say(ctext, cvoice); rc != 0 {
		return fmt.Errorf("espeak failed: %d", int(rc))
	}
	return nil
}
