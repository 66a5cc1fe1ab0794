package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Strob0t/PropDesk/internal/port/broadcast"
)

var _ broadcast.Broadcaster = (*Hub)(nil)

// BroadcastEvent marshals a typed event and sends it. Cache invalidations
// go only to the owner they concern; other events go to every client.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	msg := Message{Type: eventType, Payload: json.RawMessage(data)}
	if ev, ok := payload.(broadcast.CacheInvalidatedEvent); ok && ev.OwnerID != "" {
		h.BroadcastToOwner(ctx, ev.OwnerID, msg)
		return
	}
	h.Broadcast(ctx, msg)
}
