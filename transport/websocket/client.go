package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gomoku-backend/internal/hub"
)

const (
	sendBuffer       = 64
	writeWait        = 10 * time.Second
	idlePingInterval = 30 * time.Second
	maxMessageSize   = 8 << 10
)

var ErrSlowClient = errors.New("client send buffer is full")

// client - one websocket connection. Only writePump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte

	mu          sync.Mutex
	participant string
	watches     map[string]*hub.Subscription
	closed      bool
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		watches: make(map[string]*hub.Subscription),
	}
}

func (that *client) participantID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.participant
}

func (that *client) setParticipant(id string) {
	that.mu.Lock()
	that.participant = id
	that.mu.Unlock()
}

// enqueue - queues a frame without blocking.
func (that *client) enqueue(frame []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return websocket.ErrCloseSent
	}

	select {
	case that.send <- frame:
		return nil
	default:
		return ErrSlowClient
	}
}

// watch - remembers subscription, returning the one it replaces.
func (that *client) watch(subscription *hub.Subscription) *hub.Subscription {
	that.mu.Lock()
	defer that.mu.Unlock()

	previous := that.watches[subscription.MatchID]
	that.watches[subscription.MatchID] = subscription

	return previous
}

func (that *client) unwatch(matchID string) *hub.Subscription {
	that.mu.Lock()
	defer that.mu.Unlock()

	subscription := that.watches[matchID]
	delete(that.watches, matchID)

	return subscription
}

// forget - drops subscription if it is still the current one for its match.
func (that *client) forget(subscription *hub.Subscription) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.watches[subscription.MatchID] == subscription {
		delete(that.watches, subscription.MatchID)
	}
}

// close - marks the client closed and returns its subscriptions.
func (that *client) close() []*hub.Subscription {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil
	}
	that.closed = true
	close(that.send)

	subscriptions := make([]*hub.Subscription, 0, len(that.watches))
	for matchID, subscription := range that.watches {
		subscriptions = append(subscriptions, subscription)
		delete(that.watches, matchID)
	}

	return subscriptions
}

// writePump - drains send, and pings the peer after idlePingInterval of silence.
func (that *client) writePump(pingPayload []byte) error {
	ticker := time.NewTicker(idlePingInterval)
	defer ticker.Stop()

	lastWrite := time.Now()

	for {
		select {
		case frame, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < idlePingInterval {
				continue
			}

			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := that.conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
