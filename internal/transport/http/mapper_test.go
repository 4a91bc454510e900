package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vovakirdan/signalrelay/internal/core"
	"github.com/vovakirdan/signalrelay/internal/proto"
)

func TestInboundSignalCarriesTargetAndPayload(t *testing.T) {
	data := json.RawMessage(`{"payload":{"candidate":"x"},"room":"r","target":"peer-1"}`)

	cmd, protoErr := inboundToCommand(proto.Inbound{Type: proto.InboundTypeICECandidate, Data: data})
	if protoErr != nil {
		t.Fatalf("unexpected error: %+v", protoErr)
	}
	if cmd.Kind != core.CommandSignal || cmd.Signal != core.SignalICECandidate || cmd.Target != "peer-1" || cmd.Room != "r" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if string(cmd.Payload) != `{"candidate":"x"}` {
		t.Fatalf("payload not forwarded verbatim: %s", cmd.Payload)
	}
}

func TestInboundLeaveNeedsNoData(t *testing.T) {
	cmd, protoErr := inboundToCommand(proto.Inbound{Type: proto.InboundTypeLeave})
	if protoErr != nil || cmd.Kind != core.CommandLeaveRoom {
		t.Fatalf("unexpected result: %+v %+v", cmd, protoErr)
	}
}

func TestInboundMissingDataIsBadRequest(t *testing.T) {
	for _, typ := range []string{proto.InboundTypeJoin, proto.InboundTypeChat, proto.InboundTypeAnswer} {
		_, protoErr := inboundToCommand(proto.Inbound{Type: typ})
		if protoErr == nil || protoErr.Code != proto.ErrCodeBadRequest {
			t.Errorf("%s without data: expected bad_request, got %+v", typ, protoErr)
		}
	}
}

func TestOutboundChatUsesUTCMilliseconds(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 15, 4, 5, 123456789, time.FixedZone("X", 2*3600))
	out := outboundFromEvent(&core.Event{
		Kind: core.EventChatMessage,
		Room: "r",
		Chat: &core.ChatMessage{Sender: "a", Text: "hi", Timestamp: stamp},
	})

	data, ok := out.Data.(proto.EventChatData)
	if !ok || out.Event != proto.EventChatMessage {
		t.Fatalf("unexpected outbound: %+v", out)
	}
	if data.Timestamp != "2024-05-01T13:04:05.123Z" {
		t.Fatalf("unexpected timestamp %q", data.Timestamp)
	}
}

func TestOutboundSignalUsesKindAsEventName(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind:   core.EventSignal,
		Signal: &core.SignalEvent{Kind: core.SignalAnswer, From: "a", Payload: json.RawMessage(`1`)},
	})
	if out.Event != "answer" {
		t.Fatalf("unexpected event name %q", out.Event)
	}
	if data := out.Data.(proto.EventSignalData); data.From != "a" || data.Room != "" {
		t.Fatalf("unexpected data: %+v", data)
	}
}
