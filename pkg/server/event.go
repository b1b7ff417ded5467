package server

import (
	"time"

	"github.com/tandemboard/bughouse/pkg/wire"
)

// IncomingEvent is the server's single event type: everything the
// authoritative state task reacts to arrives as one of these two kinds on
// one channel, so ServerState.ApplyEvent never has to worry about
// concurrent access to contest state.
type IncomingEvent struct {
	// Exactly one of Network or Tick is set.
	Network *NetworkEvent
	Tick     *TickEvent
}

// NetworkEvent is a ClientEvent received from a specific connection.
type NetworkEvent struct {
	Client ClientID
	Event  wire.ClientEvent
}

// TickEvent drives clock-flag adjudication; the tick producer sends one
// every 100ms per the concurrency model.
type TickEvent struct {
	Now time.Time
}

func networkEvent(id ClientID, ev wire.ClientEvent) IncomingEvent {
	return IncomingEvent{Network: &NetworkEvent{Client: id, Event: ev}}
}

func tickEvent(now time.Time) IncomingEvent {
	return IncomingEvent{Tick: &TickEvent{Now: now}}
}
