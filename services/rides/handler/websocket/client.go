package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one live socket connection. It satisfies
// realtime.Subscriber: deliveries go through a buffered channel so a
// slow reader can never stall the router.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu         sync.Mutex
	kickReason string
	closed     bool
}

// NewClient wraps an upgraded connection. The caller must run
// WritePump in its own goroutine.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// ID returns the connection's unique handle.
func (c *Client) ID() string { return c.id }

// Send enqueues a frame without blocking. False means the buffer was
// full or the connection is closing; the caller drops the frame.
func (c *Client) Send(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// SendJSON marshals v and enqueues it.
func (c *Client) SendJSON(v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return c.Send(data)
}

// Kick tells the connection to deliver a kick frame and then close
// itself with the kicked close code. The frame is flushed before the
// close handshake.
func (c *Client) Kick(reason string) {
	c.mu.Lock()
	c.kickReason = reason
	c.mu.Unlock()

	frame, _ := json.Marshal(models.WSKick{Type: constants.FrameKick, Reason: reason})
	if !c.Send(frame) {
		// writer already gone, just tear down
		c.Close()
	}
}

func (c *Client) kicked() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kickReason, c.kickReason != ""
}

// Close shuts the connection down once. Safe to call from any
// goroutine.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	c.conn.Close()
}

// WritePump drains the send channel onto the wire and keeps the
// connection alive with pings. It exits when the connection closes or
// a pending kick has been flushed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
			if reason, ok := c.kicked(); ok && len(c.send) == 0 {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				msg := websocket.FormatCloseMessage(constants.CloseCodeKicked, reason)
				if err := c.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
					logger.Debug("failed to write kick close frame", logger.Err(err))
				}
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
