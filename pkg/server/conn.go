package server

import (
	"context"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/tandemboard/bughouse/pkg/wire"
)

// Conn is what wstransport.ServerConn (or any other transport) must supply:
// one blocking read of the next ClientEvent, one write of a ServerEvent,
// and a close. Kept minimal and transport-agnostic, per the "transport is
// an external collaborator" stance -- nothing in this package or in the
// rest of the rules core depends on websockets specifically.
type Conn interface {
	ReadEvent() (wire.ClientEvent, error)
	WriteEvent(wire.ServerEvent) error
	RemoteAddr() string
	Close() error
}

// HandleConn registers conn and spawns its read/write goroutines: a
// dedicated reader forwarding into the shared events channel, and a
// dedicated writer draining a per-client buffered channel. Both share a
// closer that each closes on exit, so a read error stops the writer and a
// write error (which also closes conn) ends the reader's pending read:
// otherwise the survivor would block forever on its channel select once the
// other side has stopped feeding or draining it. The reader only notices ctx
// being cancelled once its current read returns.
func HandleConn(ctx context.Context, conn Conn, clients *Clients, events chan<- IncomingEvent) {
	logw.Infof(ctx, "Client connected: %v", conn.RemoteAddr())

	send := make(chan wire.ServerEvent, 64)
	id := clients.AddClient(send, conn.RemoteAddr())
	closer := iox.NewAsyncCloser()

	go readLoop(ctx, conn, clients, id, events, closer)
	go writeLoop(ctx, conn, clients, id, send, closer)
}

func readLoop(ctx context.Context, conn Conn, clients *Clients, id ClientID, events chan<- IncomingEvent, closer iox.AsyncCloser) {
	defer closer.Close()

	for {
		ev, err := conn.ReadEvent()
		if err != nil {
			if logID, ok := clients.RemoveClient(id); ok {
				logw.Infof(ctx, "Client %v disconnected: %v", logID, err)
			}
			_ = conn.Close()
			return
		}
		select {
		case events <- networkEvent(id, ev):
		case <-ctx.Done():
			return
		case <-closer.Closed():
			return
		}
	}
}

func writeLoop(ctx context.Context, conn Conn, clients *Clients, id ClientID, send <-chan wire.ServerEvent, closer iox.AsyncCloser) {
	defer closer.Close()

	for {
		select {
		case ev, ok := <-send:
			if !ok {
				return
			}
			if err := conn.WriteEvent(ev); err != nil {
				if logID, ok := clients.RemoveClient(id); ok {
					logw.Warningf(ctx, "Client %v disconnected on write error: %v", logID, err)
				}
				_ = conn.Close()
				return
			}
		case <-ctx.Done():
			return
		case <-closer.Closed():
			return
		}
	}
}
