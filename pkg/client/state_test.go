package client_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/bughouse"
	"github.com/tandemboard/bughouse/pkg/client"
	"github.com/tandemboard/bughouse/pkg/wire"
)

func newTestSink() (func(wire.ClientEvent), *[]wire.ClientEvent) {
	var sent []wire.ClientEvent
	return func(ev wire.ClientEvent) { sent = append(sent, ev) }, &sent
}

func TestJoinSendsJoinEvent(t *testing.T) {
	send, sent := newTestSink()
	c := client.NewClientState("alice", board.Red, send)

	c.Join()

	require.Len(t, *sent, 1)
	assert.Equal(t, wire.JoinEvent{PlayerName: "alice", Team: board.Red}, (*sent)[0])
}

func TestMakeTurnBeforeGameStarted(t *testing.T) {
	send, _ := newTestSink()
	c := client.NewClientState("alice", board.Red, send)

	err := c.MakeTurn("e4", 0)
	require.Error(t, err)
	tce, ok := err.(*client.TurnCommandError)
	require.True(t, ok)
	assert.True(t, tce.NoGameInProgress)
}

func TestLobbyUpdatedEvent(t *testing.T) {
	send, _ := newTestSink()
	c := client.NewClientState("alice", board.Red, send)

	players := []wire.Player{{Name: "alice", Team: board.Red}, {Name: "bob", Team: board.Blue}}
	notable, err := c.ProcessServerEvent(wire.LobbyUpdatedEvent{Players: players})
	require.NoError(t, err)
	assert.Equal(t, client.NoNotableEvent, notable)
	assert.Equal(t, players, c.Contest().LobbyPlayers)
	assert.Equal(t, client.InLobby, c.Contest().Kind)
}

func gameStartedEvent(players []wire.SeatedPlayer) wire.GameStartedEvent {
	grid := board.GenerateStartingGrid(board.Classic, rand.New(rand.NewSource(1)))
	return wire.GameStartedEvent{
		ChessRules:    board.ChessRules{StartingPosition: board.Classic},
		BughouseRules: board.BughouseRules{MinPawnDropRow: board.NewSubjectiveRow(2), MaxPawnDropRow: board.NewSubjectiveRow(7), DropAggression: board.MateAllowed},
		Scores:        []wire.TeamScore{{Team: board.Red, Score: 0}, {Team: board.Blue, Score: 0}},
		StartingGrid:  grid,
		Players:       players,
		Time:          0,
	}
}

func seatedPlayers() []wire.SeatedPlayer {
	return []wire.SeatedPlayer{
		{Player: wire.Player{Name: "alice", Team: board.Red}, BoardIdx: bughouse.BoardA, Force: board.White},
		{Player: wire.Player{Name: "bob", Team: board.Blue}, BoardIdx: bughouse.BoardA, Force: board.Black},
		{Player: wire.Player{Name: "carol", Team: board.Blue}, BoardIdx: bughouse.BoardB, Force: board.White},
		{Player: wire.Player{Name: "dave", Team: board.Red}, BoardIdx: bughouse.BoardB, Force: board.Black},
	}
}

func TestGameStartedSeatsLocalPlayer(t *testing.T) {
	send, _ := newTestSink()
	c := client.NewClientState("bob", board.Blue, send)

	notable, err := c.ProcessServerEvent(gameStartedEvent(seatedPlayers()))
	require.NoError(t, err)
	assert.Equal(t, client.GameStartedEvent, notable)
	assert.Equal(t, client.InGame, c.Contest().Kind)
	assert.Equal(t, bughouse.BughousePlayerId{BoardIdx: bughouse.BoardA, Force: board.Black}, c.Contest().AltGame.MyId())
}

func TestGameStartedRejectsUnseatedPlayer(t *testing.T) {
	send, _ := newTestSink()
	c := client.NewClientState("eve", board.Red, send)

	_, err := c.ProcessServerEvent(gameStartedEvent(seatedPlayers()))
	require.Error(t, err)
}

func TestMakeTurnSpeculatesThenSends(t *testing.T) {
	send, sent := newTestSink()
	c := client.NewClientState("alice", board.Red, send)
	_, err := c.ProcessServerEvent(gameStartedEvent(seatedPlayers()))
	require.NoError(t, err)

	require.NoError(t, c.MakeTurn("e4", 0))

	require.Len(t, *sent, 1)
	assert.Equal(t, wire.MakeTurnEvent{TurnAlgebraic: "e4"}, (*sent)[0])

	alice := bughouse.BughousePlayerId{BoardIdx: bughouse.BoardA, Force: board.White}
	local := c.Contest().AltGame.LocalGame()
	require.Len(t, local.TurnLog, 1)
	assert.Equal(t, alice, local.TurnLog[0].PlayerId)
}

func TestTurnsMadeEventAppliesOpponentMove(t *testing.T) {
	send, _ := newTestSink()
	c := client.NewClientState("bob", board.Blue, send)
	_, err := c.ProcessServerEvent(gameStartedEvent(seatedPlayers()))
	require.NoError(t, err)

	alice := bughouse.BughousePlayerId{BoardIdx: bughouse.BoardA, Force: board.White}
	notable, err := c.ProcessServerEvent(wire.TurnsMadeEvent{
		Turns: []wire.TurnRecord{{PlayerId: alice, TurnAlgebraic: "e4", Time: 0, Status: board.Active()}},
	})
	require.NoError(t, err)
	assert.Equal(t, client.OpponentTurnMadeEvent, notable)
}

func TestGameOverResetsLocalChanges(t *testing.T) {
	send, _ := newTestSink()
	c := client.NewClientState("alice", board.Red, send)
	_, err := c.ProcessServerEvent(gameStartedEvent(seatedPlayers()))
	require.NoError(t, err)
	require.NoError(t, c.MakeTurn("e4", 0))

	status := board.Victory(board.Red, board.Checkmate)
	notable, err := c.ProcessServerEvent(wire.GameOverEvent{
		Time:   0,
		Status: status,
		Scores: []wire.TeamScore{{Team: board.Red, Score: 1}, {Team: board.Blue, Score: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, client.NoNotableEvent, notable)
	assert.Equal(t, status, c.Contest().AltGame.Status())
	assert.Equal(t, uint32(1), c.Contest().Scores[board.Red])

	local := c.Contest().AltGame.LocalGame()
	assert.Empty(t, local.TurnLog)
}
