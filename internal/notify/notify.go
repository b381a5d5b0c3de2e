package notify

import (
	"errors"
	log "log/slog"

	"github.com/gen2brain/beeep"
)

const appName = "Lull"

// Desktop shows system notifications.
type Desktop struct {
	enabled bool
	send    func(title, message, icon string) error
}

func NewDesktop(enabled bool) *Desktop {
	return &Desktop{enabled: enabled, send: func(title, message, icon string) error {
		return beeep.Notify(title, message, icon)
	}}
}

func (d *Desktop) Notify(message string) error {
	if !d.enabled {
		return nil
	}
	return d.send(appName, message, "")
}

type player interface {
	Play() error
}

// Waker runs when a session opens. Either part may be nil.
type Waker struct {
	chime   player
	desktop *Desktop
}

func NewWaker(chime *Chime, desktop *Desktop) *Waker {
	w := &Waker{desktop: desktop}
	if chime != nil {
		w.chime = chime
	}
	return w
}

// Wake plays the chime and posts a "Listening..." notification. Failures are
// logged; a missing chime file is not one.
func (w *Waker) Wake() {
	if w.chime != nil {
		if err := w.chime.Play(); err != nil && !errors.Is(err, ErrNoChime) {
			log.Warn("Failed to play chime", "err", err)
		}
	}
	if w.desktop != nil {
		if err := w.desktop.Notify("Listening..."); err != nil {
			log.Warn("Failed to notify", "err", err)
		}
	}
}
