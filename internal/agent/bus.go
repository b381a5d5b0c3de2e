package agent

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// BusMessage is the frame published for every reply.
type BusMessage struct {
	From    string    `json:"from"`
	Kind    string    `json:"kind"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

const writeTimeout = 5 * time.Second

// Bus publishes replies to a websocket hub so other shards can display them.
// The connection is dialled lazily and redialled once after a failed write.
type Bus struct {
	mu   sync.Mutex
	url  string
	conn *websocket.Conn
}

func NewBus(url string) *Bus {
	return &Bus{url: url}
}

func (b *Bus) Say(ctx context.Context, text string) error {
	data, err := json.Marshal(BusMessage{
		From:    "lull",
		Kind:    "reply",
		Content: text,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err = b.write(ctx, data); err == nil {
		return nil
	}
	log.Warn("Bus write failed, reconnecting", "url", b.url, "err", err)
	b.drop()
	return b.write(ctx, data)
}

func (b *Bus) write(ctx context.Context, data []byte) error {
	if b.conn == nil {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
		if err != nil {
			return fmt.Errorf("dial bus: %w", err)
		}
		log.Info("Connected to bus", "url", b.url)
		b.conn = conn
	}
	_ = b.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

func (b *Bus) drop() {
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	_ = b.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := b.conn.Close()
	b.conn = nil
	return err
}
