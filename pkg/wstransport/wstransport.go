// Package wstransport adapts gorilla/websocket to the wire package's typed
// client/server events: each Conn reads and writes exactly one JSON-encoded
// wire.ClientEvent or wire.ServerEvent per frame. It owns no protocol logic
// of its own -- wire defines the events, pkg/server and pkg/client decide
// what to do with them.
package wstransport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/tandemboard/bughouse/pkg/wire"
)

// envelope tags a wire event with its concrete kind so the opposite end can
// dispatch json.Unmarshal to the right Go type. Both ClientEvent and
// ServerEvent are closed sums, so a single string tag is enough.
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServerConn is a server-side connection: it reads ClientEvents and writes
// ServerEvents.
type ServerConn struct {
	ws *websocket.Conn
}

// Upgrade upgrades an incoming HTTP request to a WebSocket-backed ServerConn.
func Upgrade(w http.ResponseWriter, r *http.Request) (*ServerConn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}
	return &ServerConn{ws: ws}, nil
}

func (c *ServerConn) ReadEvent() (wire.ClientEvent, error) {
	var env envelope
	if err := c.ws.ReadJSON(&env); err != nil {
		return nil, err
	}
	return decodeClientEvent(env)
}

func (c *ServerConn) WriteEvent(ev wire.ServerEvent) error {
	env, err := encodeServerEvent(ev)
	if err != nil {
		return err
	}
	return c.ws.WriteJSON(env)
}

func (c *ServerConn) RemoteAddr() string { return c.ws.RemoteAddr().String() }

func (c *ServerConn) Close() error { return c.ws.Close() }

// ClientConn is a client-side connection: it reads ServerEvents and writes
// ClientEvents.
type ClientConn struct {
	ws *websocket.Conn
}

// Dial opens a ClientConn to a bughouse server at url (e.g. "ws://host:port/ws").
func Dial(url string) (*ClientConn, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", url, err)
	}
	return &ClientConn{ws: ws}, nil
}

func (c *ClientConn) ReadEvent() (wire.ServerEvent, error) {
	var env envelope
	if err := c.ws.ReadJSON(&env); err != nil {
		return nil, err
	}
	return decodeServerEvent(env)
}

func (c *ClientConn) WriteEvent(ev wire.ClientEvent) error {
	env, err := encodeClientEvent(ev)
	if err != nil {
		return err
	}
	return c.ws.WriteJSON(env)
}

func (c *ClientConn) Close() error { return c.ws.Close() }

func encodeClientEvent(ev wire.ClientEvent) (envelope, error) {
	kind := fmt.Sprintf("%T", ev)
	data, err := json.Marshal(ev)
	if err != nil {
		return envelope{}, fmt.Errorf("marshal %s: %w", kind, err)
	}
	return envelope{Kind: kind, Data: data}, nil
}

func encodeServerEvent(ev wire.ServerEvent) (envelope, error) {
	kind := fmt.Sprintf("%T", ev)
	data, err := json.Marshal(ev)
	if err != nil {
		return envelope{}, fmt.Errorf("marshal %s: %w", kind, err)
	}
	return envelope{Kind: kind, Data: data}, nil
}

func decodeClientEvent(env envelope) (wire.ClientEvent, error) {
	switch env.Kind {
	case "wire.JoinEvent":
		var ev wire.JoinEvent
		return ev, json.Unmarshal(env.Data, &ev)
	case "wire.MakeTurnEvent":
		var ev wire.MakeTurnEvent
		return ev, json.Unmarshal(env.Data, &ev)
	case "wire.ResignEvent":
		return wire.ResignEvent{}, nil
	case "wire.LeaveEvent":
		return wire.LeaveEvent{}, nil
	case "wire.NextGameEvent":
		return wire.NextGameEvent{}, nil
	case "wire.ResetEvent":
		return wire.ResetEvent{}, nil
	default:
		return nil, fmt.Errorf("unrecognized client event kind %q", env.Kind)
	}
}

func decodeServerEvent(env envelope) (wire.ServerEvent, error) {
	switch env.Kind {
	case "wire.ErrorEvent":
		var ev wire.ErrorEvent
		return ev, json.Unmarshal(env.Data, &ev)
	case "wire.LobbyUpdatedEvent":
		var ev wire.LobbyUpdatedEvent
		return ev, json.Unmarshal(env.Data, &ev)
	case "wire.GameStartedEvent":
		var ev wire.GameStartedEvent
		return ev, json.Unmarshal(env.Data, &ev)
	case "wire.TurnsMadeEvent":
		var ev wire.TurnsMadeEvent
		return ev, json.Unmarshal(env.Data, &ev)
	case "wire.GameOverEvent":
		var ev wire.GameOverEvent
		return ev, json.Unmarshal(env.Data, &ev)
	default:
		return nil, fmt.Errorf("unrecognized server event kind %q", env.Kind)
	}
}
