package wstransport_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/wire"
	"github.com/tandemboard/bughouse/pkg/wstransport"
)

func TestClientServerRoundTrip(t *testing.T) {
	var serverConn *wstransport.ServerConn
	done := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := wstransport.Upgrade(w, r)
		require.NoError(t, err)
		serverConn = conn
		close(done)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	client, err := wstransport.Dial(url)
	require.NoError(t, err)
	defer client.Close()

	<-done
	defer serverConn.Close()

	require.NoError(t, client.WriteEvent(wire.JoinEvent{PlayerName: "alice", Team: board.Red}))

	ev, err := serverConn.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, wire.JoinEvent{PlayerName: "alice", Team: board.Red}, ev)

	require.NoError(t, serverConn.WriteEvent(wire.LobbyUpdatedEvent{Players: []wire.Player{{Name: "alice", Team: board.Red}}}))

	reply, err := client.ReadEvent()
	require.NoError(t, err)
	lobby, ok := reply.(wire.LobbyUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, "alice", lobby.Players[0].Name)
}
