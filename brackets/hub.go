package brackets

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MessageTournamentUpdated = "TOURNAMENT_UPDATED"
	MessageTournamentDeleted = "TOURNAMENT_DELETED"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// RoomForTournament names the room that receives updates for one tournament.
func RoomForTournament(tournamentID string) string {
	return "tournament_" + tournamentID
}

// Client is one subscriber. Its send channel is closed by the hub only, while
// holding the hub lock, so broadcasts never hit a closed channel.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer), room: room}
}

func (c *Client) Room() string { return c.room }

// Enqueue queues a message without blocking. It reports false when the buffer
// is full. Callers other than the hub must not use it once the client is
// subscribed.
func (c *Client) Enqueue(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// SnapshotLoader produces the first message a new subscriber receives.
type SnapshotLoader func() ([]byte, error)

type subscription struct {
	client  *Client
	initial SnapshotLoader
}

// Hub fans tournament updates out to the clients of each room.
type Hub struct {
	register   chan subscription
	unregister chan *Client
	rooms      map[string]map[*Client]struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
	done       chan struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan subscription),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]struct{}),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Subscribe hands a client to the hub. It reports false once the hub stopped.
// initial, when set, runs while the hub holds its lock right after the client
// joined, so no broadcast can fall between the snapshot and the live updates.
func (h *Hub) Subscribe(client *Client, initial SnapshotLoader) bool {
	select {
	case h.register <- subscription{client: client, initial: initial}:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unsubscribe(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Run serves subscriptions until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case sub := <-h.register:
			h.join(sub)

		case client := <-h.unregister:
			h.mu.Lock()
			h.leaveLocked(client)
			h.mu.Unlock()

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, members := range h.rooms {
				for client := range members {
					h.leaveLocked(client)
				}
			}
			h.mu.Unlock()
			h.logger.Info("websocket hub stopped")
			return nil
		}
	}
}

func (h *Hub) join(sub subscription) {
	client := sub.client
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[client.room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[client.room] = members
	}
	members[client] = struct{}{}
	h.logger.Debug("websocket client joined", slog.String("room", client.room), slog.Int("clients", len(members)))

	if sub.initial == nil {
		return
	}
	data, err := sub.initial()
	if err != nil {
		h.logger.Warn("failed to load initial websocket snapshot", slog.String("room", client.room), slog.Any("error", err))
		return
	}
	client.Enqueue(data)
}

func (h *Hub) leaveLocked(client *Client) {
	members := h.rooms[client.room]
	if _, ok := members[client]; !ok {
		return
	}
	delete(members, client)
	close(client.send)
	if len(members) == 0 {
		delete(h.rooms, client.room)
	}
	h.logger.Debug("websocket client left", slog.String("room", client.room), slog.Int("clients", len(members)))
}

// RoomSize reports how many clients are subscribed to a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastTournament sends a message to every subscriber of the tournament.
// Clients with a full buffer miss it.
func (h *Hub) BroadcastTournament(tournamentID string, messageType string, payload interface{}) {
	room := RoomForTournament(tournamentID)
	data, err := json.Marshal(WebSocketMessage{Type: messageType, Payload: payload, RoomID: room})
	if err != nil {
		h.logger.Error("failed to encode websocket message", slog.String("room", room), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		if !client.Enqueue(data) {
			h.logger.Warn("websocket client is too slow, message dropped", slog.String("room", room))
		}
	}
}

// ReadPump drains the connection until it fails. Subscribers only listen, so
// incoming frames other than pongs are ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unsubscribe(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket closed unexpectedly", slog.String("room", c.room), slog.Any("error", err))
			}
			return
		}
	}
}

// WritePump forwards queued messages and keeps the connection alive with pings.
// It sends a close frame once the hub closes the send channel.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		var (
			kind int
			data []byte
		)
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			kind, data = websocket.TextMessage, message
		case <-ticker.C:
			kind, data = websocket.PingMessage, nil
		}

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(kind, data); err != nil {
			c.hub.logger.Debug("websocket write failed", slog.String("room", c.room), slog.Any("error", err))
			return
		}
	}
}
