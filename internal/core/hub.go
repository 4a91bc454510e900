package core

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrHubStopped is returned by queries issued after Run has returned.
var ErrHubStopped = errors.New("hub stopped")

// envelope carries one command, or the disconnect when cmd is nil.
type envelope struct {
	client *Client
	cmd    *Command
}

type query struct {
	fn   func()
	done chan struct{}
}

// Hub owns all room and membership state. Every mutation runs on the
// single goroutine started by Run, one command at a time.
type Hub struct {
	log     *zerolog.Logger
	metrics Metrics
	now     func() time.Time

	register chan *Client
	inbox    chan envelope
	queries  chan query
	stopped  chan struct{}

	// Owned by the Run goroutine.
	clients     map[ConnID]*Client
	memberships map[ConnID]string
	rooms       *Directory
}

// NewHub creates a hub. A nil logger disables logging and nil metrics are ignored.
func NewHub(logger *zerolog.Logger, metrics Metrics) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Hub{
		log:         logger,
		metrics:     metrics,
		now:         time.Now,
		register:    make(chan *Client),
		inbox:       make(chan envelope, 256),
		queries:     make(chan query),
		stopped:     make(chan struct{}),
		clients:     make(map[ConnID]*Client),
		memberships: make(map[ConnID]string),
		rooms:       NewDirectory(),
	}
}

// Run processes registrations, commands and queries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.handleRegister(c)
		case env := <-h.inbox:
			if env.cmd == nil {
				h.handleDisconnect(env.client)
				continue
			}
			h.dispatch(env.client, env.cmd)
		case q := <-h.queries:
			q.fn()
			close(q.done)
		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

// RegisterClient makes the client routable and starts consuming its commands.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
		close(c.done)
		close(c.Events)
		return
	}
	go h.pump(c)
}

// UnregisterClient is the disconnect notification for c. Commands c sent
// before are processed first. It returns once the hub has forgotten c and
// is safe to call more than once. c must have gone through RegisterClient.
func (h *Hub) UnregisterClient(c *Client) {
	c.markLeaving()
	select {
	case <-c.done:
	case <-h.stopped:
	}
}

// Rooms returns a consistent snapshot of all live rooms.
func (h *Hub) Rooms(ctx context.Context) ([]RoomInfo, error) {
	var out []RoomInfo
	if err := h.do(ctx, func() { out = h.rooms.Snapshot() }); err != nil {
		return nil, err
	}
	return out, nil
}

// Members returns the members of room in join order.
func (h *Hub) Members(ctx context.Context, room string) ([]ConnID, error) {
	var out []ConnID
	if err := h.do(ctx, func() { out = h.rooms.MembersOf(room) }); err != nil {
		return nil, err
	}
	return out, nil
}

// RoomOf reports the room id currently holds, if any.
func (h *Hub) RoomOf(ctx context.Context, id ConnID) (string, bool, error) {
	var (
		room   string
		joined bool
	)
	if err := h.do(ctx, func() { room, joined = h.memberships[id] }); err != nil {
		return "", false, err
	}
	return room, joined, nil
}

func (h *Hub) do(ctx context.Context, fn func()) error {
	q := query{fn: fn, done: make(chan struct{})}
	select {
	case h.queries <- q:
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-q.done
	return nil
}

// pump forwards a client's commands into the hub inbox, preserving their
// order. Once the client is leaving it flushes what is already queued and
// then hands over the disconnect on the same path.
func (h *Hub) pump(c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			if !h.forward(c, cmd) {
				return
			}
		case <-c.leaving:
		flush:
			for {
				select {
				case cmd := <-c.Commands:
					if !h.forward(c, cmd) {
						return
					}
				default:
					break flush
				}
			}
			h.send(envelope{client: c})
			return
		case <-c.done:
			return
		case <-h.stopped:
			return
		}
	}
}

func (h *Hub) forward(c *Client, cmd *Command) bool {
	if cmd == nil {
		return true
	}
	return h.send(envelope{client: c, cmd: cmd})
}

func (h *Hub) send(env envelope) bool {
	select {
	case h.inbox <- env:
		return true
	case <-env.client.done:
		return false
	case <-h.stopped:
		return false
	}
}

func (h *Hub) handleRegister(c *Client) {
	if _, exists := h.clients[c.ID]; exists {
		h.log.Warn().Str("conn_id", string(c.ID)).Msg("duplicate connection id rejected")
		close(c.done)
		close(c.Events)
		return
	}
	h.clients[c.ID] = c
	h.metrics.ConnectionOpened()
	h.log.Info().Str("conn_id", string(c.ID)).Msg("connection registered")

	h.deliver(c, &Event{Kind: EventConnected, User: c.ID})
}

func (h *Hub) shutdown() {
	for id, c := range h.clients {
		close(c.done)
		close(c.Events)
		delete(h.clients, id)
		delete(h.memberships, id)
		h.metrics.ConnectionClosed()
	}
	h.rooms = NewDirectory()
	h.metrics.RoomsActive(0)
	h.log.Info().Msg("hub stopped")
}
