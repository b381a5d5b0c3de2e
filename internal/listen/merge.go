package listen

import (
	"context"
	"errors"
	"io"
	log "log/slog"
	"sync"
	"time"
)

const errBackoff = time.Second

// Queue is a Source fed by Push, used for utterances arriving over the
// control socket.
type Queue struct {
	ch     chan Utterance
	mu     sync.Mutex
	closed bool
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan Utterance, size)}
}

// Push enqueues text. It reports false when the queue is full or closed.
func (q *Queue) Push(text, origin string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- NewUtterance(text, origin):
		return true
	default:
		return false
	}
}

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

func (q *Queue) Next(ctx context.Context) (Utterance, error) {
	select {
	case <-ctx.Done():
		return Utterance{}, ctx.Err()
	case u, ok := <-q.ch:
		if !ok {
			return Utterance{}, io.EOF
		}
		return u, nil
	}
}

type result struct {
	from int
	u    Utterance
	err  error
}

// reader tracks one source of a merge. demand holds at most one token.
type reader struct {
	src     Source
	demand  chan struct{}
	pending bool
	done    bool
}

type merged struct {
	mu      sync.Mutex
	once    sync.Once
	readers []reader
	out     chan result
}

// Merge interleaves several sources in arrival order. A source is only read
// when Next asks for an utterance, and an utterance that arrives while
// another one wins is held for the following call. The merge is exhausted
// once every source returned io.EOF. Other source errors are logged and that
// source keeps being read.
func Merge(sources ...Source) Source {
	if len(sources) == 1 {
		return sources[0]
	}
	m := &merged{
		readers: make([]reader, len(sources)),
		out:     make(chan result),
	}
	for i, src := range sources {
		m.readers[i] = reader{src: src, demand: make(chan struct{}, 1)}
	}
	return m
}

func (m *merged) start(ctx context.Context) {
	for i := range m.readers {
		go m.read(ctx, i, m.readers[i].src, m.readers[i].demand)
	}
}

func (m *merged) read(ctx context.Context, from int, src Source, demand <-chan struct{}) {
	for {
		select {
		case <-demand:
		case <-ctx.Done():
			return
		}

		var res result
		for {
			u, err := src.Next(ctx)
			if err == nil {
				res = result{from: from, u: u}
				break
			}
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				res = result{from: from, err: io.EOF}
				break
			}
			log.Warn("Source failed", "err", err)
			select {
			case <-time.After(errBackoff):
			case <-ctx.Done():
				return
			}
		}

		select {
		case m.out <- res:
		case <-ctx.Done():
			return
		}
		if res.err != nil {
			return
		}
	}
}

func (m *merged) Next(ctx context.Context) (Utterance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.once.Do(func() { m.start(ctx) })

	for {
		live := 0
		for i := range m.readers {
			r := &m.readers[i]
			if r.done {
				continue
			}
			live++
			if !r.pending {
				r.pending = true
				r.demand <- struct{}{}
			}
		}
		if live == 0 {
			return Utterance{}, io.EOF
		}

		select {
		case <-ctx.Done():
			return Utterance{}, ctx.Err()
		case res := <-m.out:
			r := &m.readers[res.from]
			r.pending = false
			if res.err != nil {
				r.done = true
				continue
			}
			return res.u, nil
		}
	}
}

type closing struct {
	Source
	q *Queue
}

// CloseOnEOF closes q once src is exhausted, so a Merge of the two ends with
// the primary input.
func CloseOnEOF(src Source, q *Queue) Source {
	return closing{Source: src, q: q}
}

func (c closing) Next(ctx context.Context) (Utterance, error) {
	u, err := c.Source.Next(ctx)
	if errors.Is(err, io.EOF) {
		c.q.Close()
	}
	return u, err
}
