package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// collectUntil returns every event received up to and including the first of kind.
func collectUntil(t *testing.T, ch <-chan *Event, kind EventKind) []*Event {
	t.Helper()

	var out []*Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			out = append(out, ev)
			if ev.Kind == kind {
				return out
			}
		case <-timeout:
			t.Fatalf("expected event kind %v not received, got %d other events", kind, len(out))
			return nil
		}
	}
}

// drain returns whatever is queued right now without waiting.
func drain(ch <-chan *Event) []*Event {
	var out []*Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func countKind(evs []*Event, kind EventKind) int {
	n := 0
	for _, ev := range evs {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func startHub(t *testing.T, metrics Metrics) (*Hub, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	hub := NewHub(nil, metrics)
	go hub.Run(ctx)
	return hub, ctx
}

// connect registers a client and consumes its connected event.
func connect(t *testing.T, hub *Hub, id string) *Client {
	t.Helper()

	c := NewClient(ConnID(id), 64)
	hub.RegisterClient(c)
	ev := mustEvent(t, c.Events, EventConnected)
	if ev.User != c.ID {
		t.Fatalf("connected event for %q, want %q", ev.User, c.ID)
	}
	return c
}

// joinRoom sends a join and waits for the reply addressed to c.
func joinRoom(t *testing.T, c *Client, room string) *Event {
	t.Helper()

	c.Commands <- &Command{Kind: CommandJoinRoom, Room: room}
	ev := mustEvent(t, c.Events, EventRoomUsers)
	if ev.Room != room {
		t.Fatalf("room-users for %q, want %q", ev.Room, room)
	}
	return ev
}

// barrier waits until every command c sent before has been processed and
// returns the events c received meanwhile. c must be a member of room.
func barrier(t *testing.T, c *Client, room string) []*Event {
	t.Helper()

	const marker = "\x00barrier"
	c.Commands <- &Command{Kind: CommandChat, Room: room, Text: marker}

	var out []*Event
	for {
		evs := collectUntil(t, c.Events, EventChatMessage)
		last := evs[len(evs)-1]
		if last.Chat.Sender == c.ID && last.Chat.Text == marker {
			return append(out, evs[:len(evs)-1]...)
		}
		out = append(out, evs...)
	}
}

func sameIDs(got []ConnID, want ...ConnID) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

type recordingMetrics struct {
	mu      sync.Mutex
	opened  int
	closed  int
	rooms   int
	relayed map[string]int
	dropped map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		relayed: make(map[string]int),
		dropped: make(map[string]int),
	}
}

func (m *recordingMetrics) ConnectionOpened() { m.mu.Lock(); m.opened++; m.mu.Unlock() }
func (m *recordingMetrics) ConnectionClosed() { m.mu.Lock(); m.closed++; m.mu.Unlock() }
func (m *recordingMetrics) RoomsActive(n int) { m.mu.Lock(); m.rooms = n; m.mu.Unlock() }

func (m *recordingMetrics) EventRelayed(kind string) {
	m.mu.Lock()
	m.relayed[kind]++
	m.mu.Unlock()
}

func (m *recordingMetrics) DeliveryDropped(reason string) {
	m.mu.Lock()
	m.dropped[reason]++
	m.mu.Unlock()
}

func (m *recordingMetrics) droppedFor(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped[reason]
}
