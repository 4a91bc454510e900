package core

// dispatch routes one command from c. Commands from connections that are
// no longer registered are discarded, so nothing lands after a disconnect.
func (h *Hub) dispatch(c *Client, cmd *Command) {
	if h.clients[c.ID] != c {
		h.metrics.DeliveryDropped(DropStaleClient)
		h.log.Debug().Str("conn_id", string(c.ID)).Msg("command from unregistered connection dropped")
		return
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		h.join(c, cmd.Room)
	case CommandLeaveRoom:
		if room, ok := h.leave(c.ID); ok {
			h.deliver(c, &Event{Kind: EventLeftRoom, Room: room})
		}
	case CommandSignal:
		h.relaySignal(c, cmd)
	case CommandChat:
		h.relayChat(c, cmd)
	default:
		h.log.Warn().Str("conn_id", string(c.ID)).Int("kind", int(cmd.Kind)).Msg("unknown command")
	}
}

// relaySignal forwards a signaling payload to exactly one live connection.
// The target is authoritative; the room is passed along as context only.
func (h *Hub) relaySignal(c *Client, cmd *Command) {
	logEv := h.log.Debug().
		Str("conn_id", string(c.ID)).
		Str("target", string(cmd.Target)).
		Str("event", string(cmd.Signal))

	if !cmd.Signal.Valid() {
		logEv.Msg("unknown signal kind dropped")
		return
	}
	if cmd.Target == c.ID {
		h.metrics.DeliveryDropped(DropSelfTarget)
		logEv.Msg("self-addressed signal dropped")
		return
	}
	target, ok := h.clients[cmd.Target]
	if !ok {
		h.metrics.DeliveryDropped(DropUnknownTarget)
		logEv.Msg("signal target not connected")
		return
	}

	ev := &Event{
		Kind: EventSignal,
		Room: cmd.Room,
		Signal: &SignalEvent{
			Kind:    cmd.Signal,
			From:    c.ID,
			Payload: cmd.Payload,
		},
	}
	if h.deliver(target, ev) {
		h.metrics.EventRelayed(string(cmd.Signal))
		logEv.Msg("signal relayed")
	}
}

// relayChat stamps the message with server time and sends it to every
// member of the room, the sender included when it is a member.
func (h *Hub) relayChat(c *Client, cmd *Command) {
	ev := &Event{
		Kind: EventChatMessage,
		Room: cmd.Room,
		Chat: &ChatMessage{
			Sender:    c.ID,
			Text:      cmd.Text,
			Timestamp: h.now().UTC(),
		},
	}
	sent := h.multicast(cmd.Room, ev, "")
	if sent > 0 {
		h.metrics.EventRelayed(EventChatMessage.String())
	}
	h.log.Debug().
		Str("conn_id", string(c.ID)).
		Str("room", cmd.Room).
		Int("recipients", sent).
		Msg("chat relayed")
}
