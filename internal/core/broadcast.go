package core

// multicast delivers ev to every current member of room except exclude.
// Each delivery is independent; it returns how many were queued.
func (h *Hub) multicast(room string, ev *Event, exclude ConnID) int {
	sent := 0
	for _, id := range h.rooms.MembersOf(room) {
		if id == exclude {
			continue
		}
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		if h.deliver(c, ev) {
			sent++
		}
	}
	return sent
}

// deliver queues ev for c without blocking. A full queue drops the event.
func (h *Hub) deliver(c *Client, ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		h.metrics.DeliveryDropped(DropSlowConsumer)
		h.log.Debug().Str("conn_id", string(c.ID)).Stringer("event", ev.Kind).Msg("slow consumer, event dropped")
		return false
	}
}
