package server

import (
	"context"
	"net/http"
	"time"

	"github.com/seekerror/logw"
	"golang.org/x/sync/errgroup"

	"github.com/tandemboard/bughouse/pkg/wstransport"
)

// tickInterval is the tick producer's period.
const tickInterval = 100 * time.Millisecond

// RunTicker sends a TickEvent into events every tickInterval until ctx is
// cancelled.
func RunTicker(ctx context.Context, events chan<- IncomingEvent) {
	t := time.NewTicker(tickInterval)
	defer t.Stop()

	for {
		select {
		case now := <-t.C:
			select {
			case events <- tickEvent(now):
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Handler returns an http.Handler that upgrades every request to a
// WebSocket and hands it to HandleConn.
func Handler(clients *Clients, events chan<- IncomingEvent) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		conn, err := wstransport.Upgrade(w, r)
		if err != nil {
			logw.Warningf(ctx, "Upgrade failed: %v", err)
			return
		}
		HandleConn(context.Background(), conn, clients, events)
	})
}

// Serve wires the tick producer, the consumer task and the HTTP/WebSocket
// listener together and blocks until ctx is cancelled or the listener
// fails.
func Serve(ctx context.Context, addr string, state *ServerState) error {
	events := make(chan IncomingEvent, 256)
	clients := state.clients

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		RunTicker(ctx, events)
		return nil
	})
	g.Go(func() error {
		state.Run(ctx, events)
		return nil
	})
	g.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/ws", Handler(clients, events))

		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()

		logw.Infof(ctx, "Listening on %v", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	return g.Wait()
}
