package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin         = "join-room"
	InboundTypeLeave        = "leave-room"
	InboundTypeOffer        = "offer"
	InboundTypeAnswer       = "answer"
	InboundTypeICECandidate = "ice-candidate"
	InboundTypeChat         = "chat-message"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventConnected        = "connected"
	EventRoomUsers        = "room-users"
	EventUserConnected    = "user-connected"
	EventUserDisconnected = "user-disconnected"
	EventLeftRoom         = "left-room"
	EventChatMessage      = "chat-message"

	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
)

// JoinData requests to join a specific room.
type JoinData struct {
	Room string `json:"room"`
}

// SignalData carries an offer, answer or ICE candidate for one target.
// Payload is relayed verbatim.
type SignalData struct {
	Payload json.RawMessage `json:"payload"`
	Room    string          `json:"room,omitempty"`
	Target  string          `json:"target"`
}

// ChatData is a chat message from the client.
type ChatData struct {
	Text string `json:"text"`
	Room string `json:"room"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventConnectedData tells a client its connection id.
type EventConnectedData struct {
	ID       string `json:"id"`
	Protocol int    `json:"protocol"`
}

// EventRoomUsersData lists every member of the joined room, the joiner included.
type EventRoomUsersData struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// EventUserData names a user entering or leaving a room.
type EventUserData struct {
	Room string `json:"room"`
	User string `json:"user"`
}

// EventLeftRoomData confirms an explicit leave.
type EventLeftRoomData struct {
	Room string `json:"room"`
}

// EventSignalData is a relayed signaling payload.
type EventSignalData struct {
	Payload json.RawMessage `json:"payload"`
	From    string          `json:"from"`
	Room    string          `json:"room,omitempty"`
}

// EventChatData is a chat message stamped by the server.
type EventChatData struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Room      string `json:"room"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
