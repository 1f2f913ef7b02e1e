package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/groblegark/commtrack/internal/client"
)

// ChannelState names the lifecycle states of the live event channel.
type ChannelState int

const (
	StateDisconnected ChannelState = iota
	StateConnecting
	StateConnected
	StateClosing
)

func (s ChannelState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Streamer is the slice of the API client the channel needs: the server-push
// event stream.
type Streamer interface {
	StreamEvents(ctx context.Context, topics []string, lastEventID string) (<-chan client.Notification, func(), error)
}

// Channel owns one live subscription to the server's event stream and feeds
// every inbound notification through a single dispatch function. It is an
// explicit state machine: Open moves Disconnected -> Connecting -> Connected,
// Close moves any state through Closing back to Disconnected. Close tears the
// subscription down and waits for the dispatch goroutine to exit, so no
// handler call can land after Close returns.
type Channel struct {
	streamer Streamer
	topics   []string
	handler  func(client.Notification)

	mu     sync.Mutex
	state  ChannelState
	cancel func()
	done   chan struct{}

	// lastEventID tracks the most recent notification so a reopen can ask
	// the server to replay what was missed.
	lastEventID string
}

// NewChannel builds a channel that subscribes to the given topics and calls
// handler for each notification. The handler runs on the channel's dispatch
// goroutine; it must not block for long.
func NewChannel(s Streamer, topics []string, handler func(client.Notification)) *Channel {
	return &Channel{streamer: s, topics: topics, handler: handler}
}

// State reports the current lifecycle state.
func (c *Channel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open establishes the subscription. Calling Open on a channel that is not
// disconnected is an error.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("channel: open in state %s", state)
	}
	c.state = StateConnecting
	lastID := c.lastEventID
	c.mu.Unlock()

	ch, cancel, err := c.streamer.StreamEvents(ctx, c.topics, lastID)
	if err != nil {
		c.mu.Lock()
		if c.state == StateConnecting {
			c.state = StateDisconnected
		}
		c.mu.Unlock()
		return fmt.Errorf("channel: connect: %w", err)
	}

	done := make(chan struct{})
	c.mu.Lock()
	if c.state != StateConnecting {
		// Close ran while the stream was being established; the connection
		// must not come up behind it.
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("channel: closed during connect")
	}
	c.state = StateConnected
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()
	slog.Debug("calendar channel connected", "topics", c.topics)

	go c.dispatch(ch, done)
	return nil
}

// dispatch is the single inbound-message loop. It exits when the stream
// channel closes, either because the server went away or because Close
// cancelled the subscription.
func (c *Channel) dispatch(ch <-chan client.Notification, done chan struct{}) {
	defer close(done)
	for n := range ch {
		c.mu.Lock()
		c.lastEventID = n.ID
		closing := c.state == StateClosing
		c.mu.Unlock()
		if closing {
			continue
		}
		c.handler(n)
	}

	c.mu.Lock()
	if c.state == StateConnected {
		// Server-side disconnect: no reconnection policy here, the owner
		// decides whether to reopen.
		c.state = StateDisconnected
		c.cancel = nil
		slog.Debug("calendar channel disconnected")
	}
	c.mu.Unlock()
}

// Close tears the subscription down unconditionally and blocks until the
// dispatch goroutine has exited. It is safe to call in any state, including
// repeatedly.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.state == StateDisconnected || c.state == StateClosing {
		c.mu.Unlock()
		return
	}
	c.state = StateClosing
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	c.mu.Lock()
	c.state = StateDisconnected
	c.mu.Unlock()
}

// LastEventID returns the ID of the most recently dispatched notification,
// usable to resume a stream after a disconnect.
func (c *Channel) LastEventID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastEventID
}
