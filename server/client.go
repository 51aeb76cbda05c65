package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 60
)

// Client roles. Viewers receive snapshots and events; controllers only send
// input.
const (
	RoleViewer     = "viewer"
	RoleController = "controller"
)

type frame struct {
	binary bool
	data   []byte
}

// Client is one websocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	role       string
	remoteAddr string

	mu     sync.Mutex
	out    chan frame
	closed bool

	msgCount   int
	msgResetAt time.Time
}

// NewClient wraps an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn, role, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		role:       role,
		remoteAddr: remoteAddr,
		out:        make(chan frame, sendBufSize),
	}
}

// Role returns RoleViewer or RoleController
func (c *Client) Role() string { return c.role }

// send queues f without blocking; a full queue drops the frame
func (c *Client) send(f frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.out <- f:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.out)
	}
}

// SendJSON queues a JSON text message
func (c *Client) SendJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("marshal message", zap.Error(err))
		return
	}
	c.send(frame{data: data})
}

// ReadPump reads messages from the connection until it fails
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("ws read", zap.String("addr", c.remoteAddr), zap.Error(err))
			}
			return
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.hub.logger.Warn("rate limit exceeded, disconnecting", zap.String("addr", c.remoteAddr))
			return
		}

		if msgType == websocket.BinaryMessage {
			if in, ok := decodeBinaryInput(message); ok {
				c.hub.controls.HandleInput(in.Intent())
			}
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes queued frames and keepalive pings to the connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			kind := websocket.TextMessage
			if f.binary {
				kind = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(kind, f.data); err != nil {
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

func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "malformed message"}})
		return
	}

	switch env.T {
	case MsgInput:
		var in ClientInput
		if err := json.Unmarshal(env.D, &in); err != nil {
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "malformed input"}})
			return
		}
		c.hub.controls.HandleInput(in.Intent())
	case MsgRestart:
		if err := c.hub.controls.Restart(); err != nil {
			c.hub.logger.Error("restart", zap.Error(err))
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "restart failed"}})
		}
	default:
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "unknown message type"}})
	}
}
