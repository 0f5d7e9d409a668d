package inspect

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	clientSend = 32
)

// client is one /stream connection. Frames are queued on send and written
// by the client's own goroutine.
type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writePump writes queued frames until send is closed or a write fails.
func (c *client) writePump(logger *slog.Logger) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			logger.Debug("stream write failed", "error", err)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards client messages until the connection fails.
func (c *client) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// hub tracks stream clients. Callers hold Server.mu.
type hub struct {
	clients map[*client]bool
	logger  *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{clients: make(map[*client]bool), logger: logger}
}

func (h *hub) add(c *client) {
	h.clients[c] = true
}

func (h *hub) remove(c *client) {
	if h.clients[c] {
		delete(h.clients, c)
		c.close()
	}
}

// broadcast queues data on every client. Clients that cannot keep up are
// disconnected.
func (h *hub) broadcast(data []byte) {
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("stream client too slow, disconnecting", "remote", c.conn.RemoteAddr().String())
			h.remove(c)
		}
	}
}

func (h *hub) closeAll() {
	for c := range h.clients {
		h.remove(c)
	}
}

func (h *hub) len() int {
	return len(h.clients)
}
