package listen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lull/internal/ipc"
	"lull/pkg/audioconv"
)

// Longest audio file accepted over the control socket.
const maxFileSamples = 60 * audioconv.TargetRate

var (
	ErrQueueFull   = errors.New("assistant is busy")
	ErrNoRecognize = errors.New("speech recognition unavailable")
)

// ControlHandler turns control messages into utterances on q. Audio files
// are transcribed with stt, which may be nil. stop runs for the stop command.
func ControlHandler(q *Queue, stt Recognizer, stop func()) ipc.Handler {
	return func(msg ipc.ControlMessage) error {
		switch msg.Cmd {
		case ipc.CmdSay:
			return push(q, msg.Text)
		case ipc.CmdFile:
			if stt == nil {
				return ErrNoRecognize
			}
			text, err := transcribeFile(stt, msg.Path)
			if err != nil {
				return err
			}
			return push(q, text)
		case ipc.CmdStop:
			if stop != nil {
				stop()
			}
			return nil
		default:
			return fmt.Errorf("unknown command %q", msg.Cmd)
		}
	}
}

func push(q *Queue, text string) error {
	if !q.Push(text, OriginControl) {
		return ErrQueueFull
	}
	return nil
}

func transcribeFile(stt Recognizer, path string) (string, error) {
	pcm, err := audioconv.LoadFile(path, audioconv.Options{MaxSamples: maxFileSamples})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ipc.FileTimeout)
	defer cancel()

	text, err := stt.Transcribe(ctx, pcm)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return "", errors.New("no speech recognized")
	}
	return text, nil
}
