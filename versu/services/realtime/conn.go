package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"versu/versu/utils/logging"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 8 * 1024
)

// OwnershipChecker decides whether a user may join a conversation room.
type OwnershipChecker interface {
	OwnsConversation(ctx context.Context, conversationID, userID string) (bool, error)
}

// Serve runs the read loop for an accepted connection until it closes or ctx ends.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, userID string, owner OwnershipChecker) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := newClient(userID)
	h.register(c)
	defer h.unregister(c)

	conn.SetReadLimit(readLimit)
	go writePump(ctx, conn, c)

	logging.AppLogger.Info("realtime client connected", zap.String("user_id", userID))
	for {
		var ev Event
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				logging.AppLogger.Info("realtime read ended", zap.String("user_id", userID), zap.Error(err))
			}
			return
		}
		h.dispatch(ctx, c, ev, owner)
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, ev Event, owner OwnershipChecker) {
	switch ev.Event {
	case EventPing:
		h.Send(c, EventPong, struct{}{})
		return
	case EventJoin, EventLeave, EventTypingStart, EventTypingStop:
	default:
		h.Send(c, EventError, ErrorPayload{Message: "Evento no soportado"})
		return
	}

	var room RoomPayload
	if err := json.Unmarshal(ev.Data, &room); err != nil || room.ConversationID == "" {
		h.Send(c, EventError, ErrorPayload{Message: "conversationId requerido"})
		return
	}

	switch ev.Event {
	case EventJoin:
		ok, err := owner.OwnsConversation(ctx, room.ConversationID, c.userID)
		if err != nil {
			logging.ErrorLogger.Error("realtime ownership check failed", zap.Error(err))
			h.Send(c, EventError, ErrorPayload{Message: "Error interno del servidor"})
			return
		}
		if !ok {
			h.Send(c, EventError, ErrorPayload{Message: "Conversación no encontrada"})
			return
		}
		h.Join(room.ConversationID, c)
		h.Send(c, EventJoined, room)
	case EventLeave:
		h.Leave(room.ConversationID, c)
	case EventTypingStart, EventTypingStop:
		if !h.inRoom(room.ConversationID, c) {
			return
		}
		h.Broadcast(room.ConversationID, c, EventTypingIndicator, TypingPayload{
			ConversationID: room.ConversationID,
			IsTyping:       ev.Event == EventTypingStart,
			UserID:         c.userID,
		})
	}
}

func (h *Hub) inRoom(convID string, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.rooms[convID]
}

func writePump(ctx context.Context, conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(wctx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
