package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// sendBuffer bounds the per-connection outbound queue. When it is full
	// the payload is dropped; the client resyncs via an explicit pull.
	sendBuffer = 16
)

// Client wraps one websocket connection. Outbound frames are marshalled and
// queued on a buffered channel consumed by the write pump, so publishers
// never block on a slow peer.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn, send: make(chan []byte, sendBuffer)}
}

// Send implements Subscriber. Marshal failures and full queues are logged
// and the frame is dropped.
func (c *Client) Send(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("realtime: marshal frame failed: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("realtime: client lagging, frame dropped")
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings. It exits when the send channel closes or a
// write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump feeds inbound text frames to onMessage until the peer goes away,
// then runs onClose. Malformed frames are the handler's problem; transport
// errors end the loop.
func (c *Client) readPump(onMessage func([]byte), onClose func()) {
	defer func() {
		onClose()
		c.close()
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: read failed: %v", err)
			}
			return
		}
		onMessage(data)
	}
}
