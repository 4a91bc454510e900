package core

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkChatFanOut(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	sender := NewClient("sender", 64)
	hub.RegisterClient(sender)
	sender.Commands <- &Command{Kind: CommandJoinRoom, Room: "bench"}

	clients := make([]*Client, 0, recipients)
	for i := range recipients {
		c := NewClient(ConnID(fmt.Sprintf("c%d", i)), 64)
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoinRoom, Room: "bench"}
		clients = append(clients, c)
	}

	// Drain events for all but the first recipient to avoid dropped deliveries.
	target := clients[0]
	go func() {
		for range sender.Events {
		}
	}()
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.Commands <- &Command{Kind: CommandChat, Room: "bench", Text: "payload"}
		for {
			if ev := <-target.Events; ev.Kind == EventChatMessage {
				break
			}
		}
	}
}

func BenchmarkChatFanOut_10(b *testing.B)  { benchmarkChatFanOut(b, 10) }
func BenchmarkChatFanOut_100(b *testing.B) { benchmarkChatFanOut(b, 100) }
func BenchmarkChatFanOut_500(b *testing.B) { benchmarkChatFanOut(b, 500) }
