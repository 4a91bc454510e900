package core

// join moves c into room. Any previous membership, including the same
// room, is left first so a connection never holds two rooms.
func (h *Hub) join(c *Client, room string) {
	if prev, ok := h.leave(c.ID); ok {
		h.log.Debug().Str("conn_id", string(c.ID)).Str("room", prev).Msg("left previous room before join")
	}

	h.rooms.AddMember(room, c.ID)
	h.memberships[c.ID] = room
	h.metrics.RoomsActive(h.rooms.Len())

	h.multicast(room, &Event{Kind: EventUserConnected, Room: room, User: c.ID}, c.ID)
	h.deliver(c, &Event{Kind: EventRoomUsers, Room: room, Users: h.rooms.MembersOf(room)})

	h.log.Info().Str("conn_id", string(c.ID)).Str("room", room).Msg("joined room")
}

// leave removes id from its current room and tells the remaining members.
// It returns the room that was left; a connection without a room is a no-op.
func (h *Hub) leave(id ConnID) (string, bool) {
	room, ok := h.memberships[id]
	if !ok {
		return "", false
	}
	delete(h.memberships, id)
	h.rooms.RemoveMember(room, id)
	h.metrics.RoomsActive(h.rooms.Len())

	h.multicast(room, &Event{Kind: EventUserDisconnected, Room: room, User: id}, "")

	h.log.Info().Str("conn_id", string(id)).Str("room", room).Msg("left room")
	return room, true
}

// handleDisconnect unwinds membership and forgets the connection.
func (h *Hub) handleDisconnect(c *Client) {
	if h.clients[c.ID] != c {
		return
	}
	h.leave(c.ID)
	delete(h.clients, c.ID)
	close(c.done)
	close(c.Events)
	h.metrics.ConnectionClosed()

	h.log.Info().Str("conn_id", string(c.ID)).Msg("connection unregistered")
}
