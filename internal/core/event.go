package core

import (
	"encoding/json"
	"time"
)

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventConnected tells a new connection its own identifier.
	EventConnected EventKind = iota
	// EventRoomUsers answers a join with the room's full member list.
	EventRoomUsers
	// EventUserConnected notifies members that someone joined their room.
	EventUserConnected
	// EventUserDisconnected notifies members that someone left their room.
	EventUserDisconnected
	// EventLeftRoom confirms an explicit leave to the leaver.
	EventLeftRoom
	// EventSignal carries a relayed offer, answer or ICE candidate.
	EventSignal
	// EventChatMessage carries a server-stamped chat message.
	EventChatMessage
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventRoomUsers:
		return "room-users"
	case EventUserConnected:
		return "user-connected"
	case EventUserDisconnected:
		return "user-disconnected"
	case EventLeftRoom:
		return "left-room"
	case EventSignal:
		return "signal"
	case EventChatMessage:
		return "chat-message"
	default:
		return "unknown"
	}
}

// Event is sent to connections to describe what happened in the system.
type Event struct {
	Kind   EventKind
	Room   string
	User   ConnID
	Users  []ConnID // EventRoomUsers
	Signal *SignalEvent
	Chat   *ChatMessage
}

// SignalEvent is a signaling payload annotated with its sender.
type SignalEvent struct {
	Kind    SignalKind
	From    ConnID
	Payload json.RawMessage
}

// ChatMessage is a room message stamped by the relay, never by the sender.
type ChatMessage struct {
	Sender    ConnID
	Text      string
	Timestamp time.Time
}
