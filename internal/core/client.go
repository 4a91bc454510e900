package core

import "sync"

// Client is a connection as seen by the core layer.
type Client struct {
	ID       ConnID
	Commands chan *Command
	Events   chan *Event

	done      chan struct{}
	leaving   chan struct{}
	leaveOnce sync.Once
}

// NewClient constructs a client with initialized channels.
// buffer sizes the outbound event queue; values below 1 fall back to 8.
func NewClient(id ConnID, buffer int) *Client {
	if buffer < 1 {
		buffer = 8
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, buffer),
		done:     make(chan struct{}),
		leaving:  make(chan struct{}),
	}
}

// Done is closed once the hub has unregistered the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) markLeaving() {
	c.leaveOnce.Do(func() { close(c.leaving) })
}
