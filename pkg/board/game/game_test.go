package game_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/board/game"
)

func newClassicGame() *game.ChessGame {
	return game.NewChessGame(board.ChessRules{StartingPosition: board.Classic}, rand.New(rand.NewSource(1)))
}

func TestTryTurnFromAlgebraic(t *testing.T) {
	g := newClassicGame()
	require.NoError(t, g.TryTurnFromAlgebraic("e4"))
	assert.Equal(t, board.Black, g.Board().ActiveForce())
}

func TestTryReplayLogFoolsMate(t *testing.T) {
	g := newClassicGame()
	require.NoError(t, g.TryReplayLog("1.f3 e5 2.g4 Qh4#"))
	assert.Equal(t, board.Victory(board.Blue, board.Checkmate), g.Status())
}

func TestTryReplayLogToleratesMoveNumbersAndWhitespace(t *testing.T) {
	g := newClassicGame()
	require.NoError(t, g.TryReplayLog("  1. e4   e5  2.Nf3   "))
	assert.True(t, g.Status().IsActive())
}

func TestTryReplayLogStopsOnIllegalMove(t *testing.T) {
	g := newClassicGame()
	err := g.TryReplayLog("e4 e5 Qh5 Nc6 Bc4 Nf6 Qxf8")
	require.Error(t, err)
}
