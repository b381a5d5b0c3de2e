// Package notify signals the user that the assistant woke up: a short chime
// and a desktop notification.
package notify

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

var ErrNoChime = errors.New("no chime file configured")

// Chime plays an mp3 file. The speaker is initialized on first use with the
// file's sample rate.
type Chime struct {
	path string

	once    sync.Once
	initErr error
}

func NewChime(path string) *Chime {
	return &Chime{path: path}
}

// Play blocks until the chime finishes.
func (c *Chime) Play() error {
	if c.path == "" {
		return ErrNoChime
	}

	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("open chime: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode chime: %w", err)
	}
	defer streamer.Close()

	c.once.Do(func() {
		c.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if c.initErr != nil {
		return fmt.Errorf("speaker init: %w", c.initErr)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}
