// Package ipc carries control messages from lull-ctl to the running assistant
// over a unix socket, one JSON message and one JSON ack per connection.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
	"sync"
	"time"
)

const (
	CmdSay  = "say"
	CmdFile = "file"
	CmdStop = "stop"
)

// FileTimeout bounds the transcription behind a file command. Send waits
// that long on top of ioTimeout for its ack.
const FileTimeout = time.Minute

var ioTimeout = 5 * time.Second

type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
	Path string `json:"path,omitempty"`
}

func (m ControlMessage) Validate() error {
	switch m.Cmd {
	case CmdSay:
		if m.Text == "" {
			return errors.New("say: empty text")
		}
	case CmdFile:
		if m.Path == "" {
			return errors.New("file: empty path")
		}
	case CmdStop:
	default:
		return fmt.Errorf("unknown command %q", m.Cmd)
	}
	return nil
}

type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type Handler func(ControlMessage) error

type Server struct {
	ln      net.Listener
	path    string
	handler Handler
	wg      sync.WaitGroup
}

// StartServer listens on path, replacing a stale socket file, and serves
// connections until Close.
func StartServer(path string, handler Handler) (*Server, error) {
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{ln: ln, path: path, handler: handler}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("Control accept failed", "err", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(ioTimeout))

	var msg ControlMessage
	var ack Ack
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		ack.Error = fmt.Sprintf("decode: %v", err)
	} else if err := msg.Validate(); err != nil {
		ack.Error = err.Error()
	} else if err := s.handler(msg); err != nil {
		ack.Error = err.Error()
	} else {
		ack.OK = true
	}

	if !ack.OK {
		log.Warn("Control message rejected", "cmd", msg.Cmd, "err", ack.Error)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(ioTimeout))
	if err := json.NewEncoder(conn).Encode(ack); err != nil {
		log.Debug("Failed to write ack", "err", err)
	}
}

func (s *Server) Close() error {
	err := s.ln.Close()
	s.wg.Wait()
	_ = os.Remove(s.path)
	return err
}

// Send delivers one message and waits for the server's ack.
func Send(path string, msg ControlMessage) error {
	conn, err := net.DialTimeout("unix", path, ioTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", path, err)
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(ioTimeout))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(ackTimeout(msg)))

	var ack Ack
	if err := json.NewDecoder(conn).Decode(&ack); err != nil {
		return fmt.Errorf("read ack: %w", err)
	}
	if !ack.OK {
		return errors.New(ack.Error)
	}
	return nil
}

func ackTimeout(msg ControlMessage) time.Duration {
	if msg.Cmd == CmdFile {
		return FileTimeout + ioTimeout
	}
	return ioTimeout
}
