package server

import (
	"sync"

	"github.com/tandemboard/bughouse/pkg/wire"
)

// ClientID identifies a connected socket, independent of any seat it may
// later occupy in a contest.
type ClientID uint64

type clientHandle struct {
	id    ClientID
	logID string // peer address, for log lines only
	send  chan<- wire.ServerEvent
}

// Clients is the server's connection registry: the one piece of state
// touched from goroutines other than the single consumer task, so it is the
// one piece of state guarded by a mutex -- everything else stays
// single-threaded.
type Clients struct {
	mu   sync.Mutex
	next ClientID
	byID map[ClientID]*clientHandle
}

func NewClients() *Clients {
	return &Clients{byID: make(map[ClientID]*clientHandle)}
}

// AddClient registers a new connection and returns its ID.
func (c *Clients) AddClient(send chan<- wire.ServerEvent, logID string) ClientID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	id := c.next
	c.byID[id] = &clientHandle{id: id, logID: logID, send: send}
	return id
}

// RemoveClient unregisters id, returning its logID if it was still present
// (it won't be, if both the read and write goroutines raced to remove it).
func (c *Clients) RemoveClient(id ClientID) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.byID[id]
	if !ok {
		return "", false
	}
	delete(c.byID, id)
	return h.logID, true
}

// Send delivers msg to id's writer goroutine, silently dropping it if the
// client has since disconnected -- the read goroutine racing the removal is
// expected, not an error.
func (c *Clients) Send(id ClientID, msg wire.ServerEvent) {
	c.mu.Lock()
	h, ok := c.byID[id]
	c.mu.Unlock()
	if !ok {
		return
	}
	select {
	case h.send <- msg:
	default:
		// Writer goroutine's buffer is full; drop rather than block the
		// single-threaded consumer loop on a slow client.
	}
}

// Broadcast delivers msg to every currently registered client.
func (c *Clients) Broadcast(msg wire.ServerEvent) {
	c.mu.Lock()
	ids := make([]ClientID, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for _, id := range ids {
		c.Send(id, msg)
	}
}
