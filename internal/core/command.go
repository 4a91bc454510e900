package core

import "encoding/json"

// CommandKind describes what the connection wants to do.
type CommandKind int

const (
	// CommandJoinRoom moves the connection into a room, leaving any previous one.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom removes the connection from its current room.
	CommandLeaveRoom
	// CommandSignal relays an offer, answer or ICE candidate to one target.
	CommandSignal
	// CommandChat delivers a chat message to every member of a room.
	CommandChat
)

// SignalKind distinguishes the relayed signaling messages.
type SignalKind string

const (
	SignalOffer        SignalKind = "offer"
	SignalAnswer       SignalKind = "answer"
	SignalICECandidate SignalKind = "ice-candidate"
)

// Valid reports whether k is a known signaling kind.
func (k SignalKind) Valid() bool {
	switch k {
	case SignalOffer, SignalAnswer, SignalICECandidate:
		return true
	}
	return false
}

// Command represents an action requested by a connection.
type Command struct {
	Kind CommandKind
	Room string

	// Signal fields. Payload is forwarded untouched.
	Signal  SignalKind
	Target  ConnID
	Payload json.RawMessage

	// Text of a chat message.
	Text string
}
