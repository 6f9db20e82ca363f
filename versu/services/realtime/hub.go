package realtime

import (
	"encoding/json"
	"sync"

	"versu/versu/services/metrics"
	"versu/versu/utils/logging"

	"go.uber.org/zap"
)

const (
	EventJoin            = "join_conversation"
	EventLeave           = "leave_conversation"
	EventTypingStart     = "typing_start"
	EventTypingStop      = "typing_stop"
	EventTypingIndicator = "typing_indicator"
	EventJoined          = "joined_conversation"
	EventPing            = "ping"
	EventPong            = "pong"
	EventError           = "error"

	sendBuffer = 64
)

// Event is the JSON frame exchanged in both directions.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type RoomPayload struct {
	ConversationID string `json:"conversationId"`
}

type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	IsTyping       bool   `json:"isTyping"`
	UserID         string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type Client struct {
	userID string
	send   chan []byte
	rooms  map[string]bool // guarded by Hub.mu
}

func newClient(userID string) *Client {
	return &Client{userID: userID, send: make(chan []byte, sendBuffer), rooms: make(map[string]bool)}
}

// Hub tracks which clients are in which conversation room. Delivery is best effort:
// a client whose buffer is full misses the frame.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]bool),
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	metrics.RealtimeConnections.Inc()
}

// unregister drops the client from every room and closes its send channel.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	for convID := range c.rooms {
		h.removeLocked(convID, c)
	}
	delete(h.clients, c)
	close(c.send)
	metrics.RealtimeConnections.Dec()
}

func (h *Hub) Join(convID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	if h.rooms[convID] == nil {
		h.rooms[convID] = make(map[*Client]bool)
	}
	h.rooms[convID][c] = true
	c.rooms[convID] = true
}

func (h *Hub) Leave(convID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(convID, c)
}

func (h *Hub) removeLocked(convID string, c *Client) {
	if m := h.rooms[convID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.rooms, convID)
		}
	}
	delete(c.rooms, convID)
}

// Broadcast sends an event to every member of the room except the sender.
func (h *Hub) Broadcast(convID string, except *Client, event string, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		logging.ErrorLogger.Error("failed to encode realtime event", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[convID] {
		if c == except {
			continue
		}
		select {
		case c.send <- frame:
		default:
			logging.AppLogger.Debug("realtime frame dropped", zap.String("conversation_id", convID), zap.String("user_id", c.userID))
		}
	}
}

// Send queues an event for a single client, dropping it if the buffer is full.
func (h *Hub) Send(c *Client, event string, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		logging.ErrorLogger.Error("failed to encode realtime event", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (h *Hub) RoomSize(convID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[convID])
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: event, Data: data})
}
