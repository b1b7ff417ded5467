package bughouse_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/bughouse"
	"github.com/tandemboard/bughouse/pkg/clock"
)

func newGame() *bughouse.BughouseGame {
	rules := board.ChessRules{StartingPosition: board.Classic}
	bhRules := board.BughouseRules{
		MinPawnDropRow: board.NewSubjectiveRow(2),
		MaxPawnDropRow: board.NewSubjectiveRow(7),
		DropAggression: board.MateAllowed,
	}
	return bughouse.NewBughouseGame(rules, bhRules, 5*time.Minute, rand.New(rand.NewSource(1)))
}

func TestBughousePlayerIdTeamAssignment(t *testing.T) {
	assert.Equal(t, board.Red, bughouse.BughousePlayerId{BoardIdx: bughouse.BoardA, Force: board.White}.Team())
	assert.Equal(t, board.Red, bughouse.BughousePlayerId{BoardIdx: bughouse.BoardB, Force: board.Black}.Team())
	assert.Equal(t, board.Blue, bughouse.BughousePlayerId{BoardIdx: bughouse.BoardB, Force: board.White}.Team())
	assert.Equal(t, board.Blue, bughouse.BughousePlayerId{BoardIdx: bughouse.BoardA, Force: board.Black}.Team())
}

func TestTryTurnRoutesCaptureToPartnerBoard(t *testing.T) {
	g := newGame()

	// Open up a capture on board A: 1.e4 d5 2.exd5.
	require.NoError(t, g.TryTurn(bughouse.BughousePlayerId{BoardIdx: bughouse.BoardA, Force: board.White},
		board.MakeMoveTurn(board.Move{From: board.NewCoord(1, 4), To: board.NewCoord(3, 4)}), 0))
	require.NoError(t, g.TryTurn(bughouse.BughousePlayerId{BoardIdx: bughouse.BoardA, Force: board.Black},
		board.MakeMoveTurn(board.Move{From: board.NewCoord(6, 3), To: board.NewCoord(4, 3)}), 0))
	require.NoError(t, g.TryTurn(bughouse.BughousePlayerId{BoardIdx: bughouse.BoardA, Force: board.White},
		board.MakeMoveTurn(board.Move{From: board.NewCoord(3, 4), To: board.NewCoord(4, 3)}), 0))

	assert.Equal(t, uint8(1), g.Boards[bughouse.BoardB].Reserve(board.Black).Count(board.Pawn))
	assert.Len(t, g.TurnLog, 3)
	assert.Equal(t, "exd5", g.TurnLog[2].Algebraic)
}

func TestCheckFlagsSimultaneous(t *testing.T) {
	g := newGame()
	start := time.Now()
	g.Clocks[bughouse.BoardA].Start(board.White, start)
	g.Clocks[bughouse.BoardB].Start(board.White, start)

	// Replace both clocks with zero-time clocks: every force on both boards,
	// and so both teams, is flagged on the same tick.
	g.Clocks[bughouse.BoardA] = clock.NewClock(0)
	g.Clocks[bughouse.BoardA].Start(board.White, start)
	g.Clocks[bughouse.BoardB] = clock.NewClock(0)
	g.Clocks[bughouse.BoardB].Start(board.Black, start)

	g.CheckFlags(start.Add(time.Millisecond))
	assert.Equal(t, board.DrawStatus(board.SimultaneousFlag), g.Status)
}
