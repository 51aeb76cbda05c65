// Package server feeds snapshots to browser renderers over websocket and
// takes control input from them and from paired phone controllers
package server

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/SEUNAKINTOLA/space-invaders-js-v73/game"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Controls is the part of the game a client may drive
type Controls interface {
	HandleInput(game.Intent)
	Restart() error
	World() game.World
}

// Hub tracks connected clients and fans frames out to them
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	controls Controls
	logger   *zap.Logger

	// Connection limiting (accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	highScore atomic.Int64
	frames    atomic.Uint64
}

// NewHub creates a hub that routes input to controls
func NewHub(controls Controls, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		controls:   controls,
		logger:     logger,
		ipConns:    make(map[string]int),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	return h.ipConns[ip] < maxConnsPerIP
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events until ctx is done, then closes
// every client
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for c := range h.clients {
			delete(h.clients, c)
			c.close()
		}
		h.mu.Unlock()
		for {
			select {
			case c := <-h.register:
				c.close()
			default:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			if client.role == RoleController {
				h.broadcastJSON(Envelope{T: MsgCtrlOn}, RoleViewer)
			}
			h.logger.Debug("client registered", zap.String("addr", client.remoteAddr), zap.String("role", client.role))

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			if ok && client.role == RoleController {
				h.broadcastJSON(Envelope{T: MsgCtrlOff}, RoleViewer)
			}
		}
	}
}

// leave hands c to the run loop, or drops it if the loop has stopped
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// join hands c to the run loop. It reports false, with c closed, once the
// loop has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
	case <-h.done:
		return false
	}
	select {
	case <-h.done:
		// the loop may have stopped before taking c
		c.close()
		return false
	default:
		return true
	}
}

// PublishSnapshot encodes s once and queues it for every viewer. Slow
// viewers miss frames rather than stall the loop.
func (h *Hub) PublishSnapshot(s game.Snapshot) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	h.frames.Add(1)
	h.broadcast(frame{binary: true, data: data}, RoleViewer)
	return nil
}

// Emit forwards the events worth drawing to viewers. It never blocks.
func (h *Hub) Emit(e game.Event) {
	switch e.Kind {
	case game.EventDestroyed, game.EventPickup, game.EventWaveStart:
		h.broadcastJSON(Envelope{T: MsgEvent, Data: eventMsg(e)}, RoleViewer)
	case game.EventGameOver:
		h.broadcastJSON(Envelope{T: MsgGameOver, Data: eventMsg(e)}, RoleViewer)
	}
}

// SetHighScore updates the value sent in welcome messages
func (h *Hub) SetHighScore(n int) { h.highScore.Store(int64(n)) }

// HighScore returns the value sent in welcome messages
func (h *Hub) HighScore() int { return int(h.highScore.Load()) }

// FramesPublished counts snapshots handed to PublishSnapshot
func (h *Hub) FramesPublished() uint64 { return h.frames.Load() }

func (h *Hub) broadcastJSON(env Envelope, role string) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("marshal broadcast", zap.String("type", env.T), zap.Error(err))
		return
	}
	h.broadcast(frame{data: data}, role)
}

func (h *Hub) broadcast(f frame, role string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.role == role {
			c.send(f)
		}
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Count returns the number of registered clients with role
func (h *Hub) Count(role string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.role == role {
			n++
		}
	}
	return n
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
