package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/signalrelay/internal/proto"
)

// frame mirrors proto.Outbound with the data left undecoded.
type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

type peer struct {
	conn *websocket.Conn
	id   string
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

// run connects two peers to one room and checks that an offer and a chat
// message make it across.
func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	room := flag.String("room", "smoke", "room name")
	text := flag.String("text", "hello from smoke test", "chat text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	caller, err := dial(ctx, *addr)
	if err != nil {
		return fmt.Errorf("caller: %w", err)
	}
	defer caller.conn.Close(websocket.StatusNormalClosure, "bye")

	callee, err := dial(ctx, *addr)
	if err != nil {
		return fmt.Errorf("callee: %w", err)
	}
	defer callee.conn.Close(websocket.StatusNormalClosure, "bye")

	for _, p := range []*peer{callee, caller} {
		if err := send(ctx, p, proto.InboundTypeJoin, proto.JoinData{Room: *room}); err != nil {
			return err
		}
		var users proto.EventRoomUsersData
		if err := await(ctx, p, proto.EventRoomUsers, &users); err != nil {
			return err
		}
		fmt.Printf("%s joined %s with users %v\n", p.id, users.Room, users.Users)
	}

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	if err := send(ctx, caller, proto.InboundTypeOffer, proto.SignalData{Payload: offer, Room: *room, Target: callee.id}); err != nil {
		return err
	}
	var got proto.EventSignalData
	if err := await(ctx, callee, proto.InboundTypeOffer, &got); err != nil {
		return err
	}
	fmt.Printf("offer from %s: %s\n", got.From, got.Payload)

	if err := send(ctx, caller, proto.InboundTypeChat, proto.ChatData{Room: *room, Text: *text}); err != nil {
		return err
	}
	var chat proto.EventChatData
	if err := await(ctx, callee, proto.EventChatMessage, &chat); err != nil {
		return err
	}
	fmt.Printf("chat [%s] %s at %s: %q\n", chat.Room, chat.Sender, chat.Timestamp, chat.Message)
	return nil
}

func dial(ctx context.Context, addr string) (*peer, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	p := &peer{conn: conn}

	var hello proto.EventConnectedData
	if err := await(ctx, p, proto.EventConnected, &hello); err != nil {
		conn.Close(websocket.StatusNormalClosure, "bye")
		return nil, err
	}
	p.id = hello.ID
	return p, nil
}

func send(ctx context.Context, p *peer, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, p.conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

// await reads until the named event arrives. Error frames abort.
func await(ctx context.Context, p *peer, event string, into any) error {
	for {
		var f frame
		if err := wsjson.Read(ctx, p.conn, &f); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if f.Type == proto.OutboundTypeError && f.Error != nil {
			return fmt.Errorf("server error %s: %s", f.Error.Code, f.Error.Msg)
		}
		if f.Event != event {
			continue
		}
		if err := json.Unmarshal(f.Data, into); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event, err)
		}
		return nil
	}
}
