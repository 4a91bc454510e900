package http

import (
	"encoding/json"

	"github.com/vovakirdan/signalrelay/internal/core"
	"github.com/vovakirdan/signalrelay/internal/proto"
)

// chatTimeLayout is RFC 3339 in UTC with millisecond precision.
const chatTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := decodeData(inbound.Data, &join); err != nil {
			return nil, badRequest("invalid join payload")
		}
		if join.Room == "" {
			return nil, badRequest("room is required")
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.Room,
		}, nil
	case proto.InboundTypeLeave:
		return &core.Command{Kind: core.CommandLeaveRoom}, nil
	case proto.InboundTypeOffer, proto.InboundTypeAnswer, proto.InboundTypeICECandidate:
		var sig proto.SignalData
		if err := decodeData(inbound.Data, &sig); err != nil {
			return nil, badRequest("invalid " + inbound.Type + " payload")
		}
		if sig.Target == "" {
			return nil, badRequest("target is required")
		}
		return &core.Command{
			Kind:    core.CommandSignal,
			Signal:  core.SignalKind(inbound.Type),
			Room:    sig.Room,
			Target:  core.ConnID(sig.Target),
			Payload: sig.Payload,
		}, nil
	case proto.InboundTypeChat:
		var msg proto.ChatData
		if err := decodeData(inbound.Data, &msg); err != nil {
			return nil, badRequest("invalid chat payload")
		}
		if msg.Room == "" {
			return nil, badRequest("room is required")
		}
		return &core.Command{
			Kind: core.CommandChat,
			Room: msg.Room,
			Text: msg.Text,
		}, nil
	default:
		return nil, &proto.Error{Code: proto.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: proto.ErrCodeBadRequest, Msg: msg}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventConnected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventConnected,
			Data: proto.EventConnectedData{
				ID:       string(event.User),
				Protocol: proto.ProtocolVersion,
			},
		}
	case core.EventRoomUsers:
		users := make([]string, 0, len(event.Users))
		for _, id := range event.Users {
			users = append(users, string(id))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomUsers,
			Data:  proto.EventRoomUsersData{Room: event.Room, Users: users},
		}
	case core.EventUserConnected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserConnected,
			Data:  proto.EventUserData{Room: event.Room, User: string(event.User)},
		}
	case core.EventUserDisconnected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserDisconnected,
			Data:  proto.EventUserData{Room: event.Room, User: string(event.User)},
		}
	case core.EventLeftRoom:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventLeftRoom,
			Data:  proto.EventLeftRoomData{Room: event.Room},
		}
	case core.EventSignal:
		if event.Signal == nil {
			break
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: string(event.Signal.Kind),
			Data: proto.EventSignalData{
				Payload: event.Signal.Payload,
				From:    string(event.Signal.From),
				Room:    event.Room,
			},
		}
	case core.EventChatMessage:
		if event.Chat == nil {
			break
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChatMessage,
			Data: proto.EventChatData{
				Sender:    string(event.Chat.Sender),
				Message:   event.Chat.Text,
				Timestamp: event.Chat.Timestamp.UTC().Format(chatTimeLayout),
				Room:      event.Room,
			},
		}
	}
	return proto.Outbound{Type: proto.OutboundTypeEvent}
}
