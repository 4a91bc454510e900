package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/signalrelay/internal/proto"
)

type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	room := flag.String("room", "general", "room to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: *room}); err != nil {
		return err
	}

	fmt.Printf("Connected to %s in room %s\n", *addr, *room)
	fmt.Println("Type messages and press Enter to send. /join <room> switches rooms, /leave leaves. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *room)
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var f frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if f.Type == proto.OutboundTypeError && f.Error != nil {
			fmt.Printf("! %s: %s\n", f.Error.Code, f.Error.Msg)
			continue
		}

		switch f.Event {
		case proto.EventConnected:
			var evt proto.EventConnectedData
			if err := json.Unmarshal(f.Data, &evt); err == nil {
				fmt.Printf("you are %s\n", evt.ID)
			}
		case proto.EventRoomUsers:
			var evt proto.EventRoomUsersData
			if err := json.Unmarshal(f.Data, &evt); err == nil {
				fmt.Printf("[room %s] users: %s\n", evt.Room, strings.Join(evt.Users, ", "))
			}
		case proto.EventUserConnected:
			var evt proto.EventUserData
			if err := json.Unmarshal(f.Data, &evt); err == nil {
				fmt.Printf("[room %s] %s joined\n", evt.Room, evt.User)
			}
		case proto.EventUserDisconnected:
			var evt proto.EventUserData
			if err := json.Unmarshal(f.Data, &evt); err == nil {
				fmt.Printf("[room %s] %s left\n", evt.Room, evt.User)
			}
		case proto.EventChatMessage:
			var evt proto.EventChatData
			if err := json.Unmarshal(f.Data, &evt); err != nil {
				log.Printf("unmarshal chat: %v", err)
				continue
			}
			fmt.Printf("[%s %s] %s: %s\n", evt.Room, evt.Timestamp, evt.Sender, evt.Message)
		default:
			fmt.Printf("event=%s data=%s\n", f.Event, f.Data)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, room string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			var err error
			switch {
			case text == "/leave":
				err = send(ctx, conn, proto.InboundTypeLeave, struct{}{})
			case strings.HasPrefix(text, "/join "):
				room = strings.TrimSpace(strings.TrimPrefix(text, "/join "))
				err = send(ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: room})
			default:
				err = send(ctx, conn, proto.InboundTypeChat, proto.ChatData{Room: room, Text: text})
			}
			if err != nil {
				log.Printf("%v", err)
				return
			}
		}
	}
}
