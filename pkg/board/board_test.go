package board_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tandemboard/bughouse/pkg/board"
)

func classicStart() *board.Board {
	grid := board.GenerateStartingGrid(board.Classic, rand.New(rand.NewSource(7)))
	rules := board.ChessRules{StartingPosition: board.Classic}
	return board.NewBoard(&rules, nil, grid)
}

func TestTryTurnAlternatesActiveForce(t *testing.T) {
	b := classicStart()
	require.Equal(t, board.White, b.ActiveForce())

	_, err := b.TryTurn(board.MakeMoveTurn(board.Move{From: board.NewCoord(1, 4), To: board.NewCoord(3, 4)}))
	require.NoError(t, err)
	assert.Equal(t, board.Black, b.ActiveForce())
}

func TestTryTurnRejectsWrongTurnOrder(t *testing.T) {
	b := classicStart()
	_, err := b.TryTurn(board.MakeMoveTurn(board.Move{From: board.NewCoord(6, 4), To: board.NewCoord(4, 4)}))
	assert.Equal(t, board.WrongTurnOrder, err)
}

func TestTryTurnAsIgnoresActiveForce(t *testing.T) {
	b := classicStart()
	require.Equal(t, board.White, b.ActiveForce())

	_, err := b.TryTurnAs(board.Black, board.MakeMoveTurn(board.Move{From: board.NewCoord(6, 4), To: board.NewCoord(4, 4)}))
	require.NoError(t, err)
	assert.Equal(t, board.White, b.ActiveForce())
}

func TestTryTurnAsRestoresActiveForceOnFailure(t *testing.T) {
	b := classicStart()
	_, err := b.TryTurnAs(board.Black, board.MakeMoveTurn(board.Move{From: board.NewCoord(6, 4), To: board.NewCoord(3, 4)}))
	assert.Equal(t, board.Unreachable, err)
	assert.Equal(t, board.White, b.ActiveForce())
}

func TestAsForceLeavesOriginalUntouched(t *testing.T) {
	b := classicStart()
	view := b.AsForce(board.Black)
	assert.Equal(t, board.Black, view.ActiveForce())
	assert.Equal(t, board.White, b.ActiveForce())
}

func TestTryTurnRejectsSelfCheck(t *testing.T) {
	g := board.NewGrid()
	king := board.NewPiece(board.King, board.Innate, board.White)
	rook := board.NewPiece(board.Rook, board.Innate, board.Black)
	pinnedKnight := board.NewPiece(board.Knight, board.Innate, board.White)
	g.Set(board.NewCoord(0, 4), &king)
	g.Set(board.NewCoord(7, 4), &rook)
	g.Set(board.NewCoord(3, 4), &pinnedKnight)

	rules := board.ChessRules{StartingPosition: board.Classic}
	b := board.NewBoard(&rules, nil, g)

	_, err := b.TryTurn(board.MakeMoveTurn(board.Move{From: board.NewCoord(3, 4), To: board.NewCoord(5, 5)}))
	assert.Equal(t, board.UnprotectedKing, err)
}

func TestTryTurnCastlingHSide(t *testing.T) {
	g := board.NewGrid()
	king := board.NewPiece(board.King, board.Innate, board.White)
	rook := board.NewCastlingRook(board.Innate, board.White, board.HSide)
	g.Set(board.NewCoord(0, 4), &king)
	g.Set(board.NewCoord(0, 7), &rook)

	rules := board.ChessRules{StartingPosition: board.Classic}
	b := board.NewBoard(&rules, nil, g)

	_, err := b.TryTurn(board.MakeCastleTurn(board.HSide))
	require.NoError(t, err)

	assert.Equal(t, board.King, b.Grid().At(board.NewCoord(0, 6)).Kind)
	assert.Equal(t, board.Rook, b.Grid().At(board.NewCoord(0, 5)).Kind)
	assert.True(t, b.Grid().IsEmpty(board.NewCoord(0, 4)))
	assert.True(t, b.Grid().IsEmpty(board.NewCoord(0, 7)))
}

func TestTryTurnCastlingForbiddenThroughCheck(t *testing.T) {
	g := board.NewGrid()
	king := board.NewPiece(board.King, board.Innate, board.White)
	rook := board.NewCastlingRook(board.Innate, board.White, board.HSide)
	attacker := board.NewPiece(board.Rook, board.Innate, board.Black)
	g.Set(board.NewCoord(0, 4), &king)
	g.Set(board.NewCoord(0, 7), &rook)
	g.Set(board.NewCoord(7, 5), &attacker) // attacks f1, the king's transit square

	rules := board.ChessRules{StartingPosition: board.Classic}
	b := board.NewBoard(&rules, nil, g)

	_, err := b.TryTurn(board.MakeCastleTurn(board.HSide))
	assert.Equal(t, board.UnprotectedKing, err)
}

func bughouseBoard(g board.Grid, reserve board.Reserve) *board.Board {
	rules := board.ChessRules{StartingPosition: board.Classic}
	bhRules := board.BughouseRules{
		MinPawnDropRow: board.NewSubjectiveRow(2),
		MaxPawnDropRow: board.NewSubjectiveRow(7),
		DropAggression: board.MateAllowed,
	}
	b := board.NewBoard(&rules, &bhRules, g)
	*b.Reserve(board.White) = reserve
	return b
}

func TestTryTurnDropRequiresReserve(t *testing.T) {
	g := board.NewGrid()
	king := board.NewPiece(board.King, board.Innate, board.White)
	g.Set(board.NewCoord(0, 4), &king)
	b := bughouseBoard(g, board.NewReserve())

	_, err := b.TryTurn(board.MakeDropTurn(board.Drop{PieceKind: board.Knight, To: board.NewCoord(3, 3)}))
	assert.Equal(t, board.DropPieceMissing, err)
}

func TestTryTurnDropSucceedsAndDecrementsReserve(t *testing.T) {
	g := board.NewGrid()
	king := board.NewPiece(board.King, board.Innate, board.White)
	g.Set(board.NewCoord(0, 4), &king)
	reserve := board.NewReserve()
	reserve.Add(board.Knight, 1)
	b := bughouseBoard(g, reserve)

	_, err := b.TryTurn(board.MakeDropTurn(board.Drop{PieceKind: board.Knight, To: board.NewCoord(3, 3)}))
	require.NoError(t, err)
	assert.Equal(t, board.Knight, b.Grid().At(board.NewCoord(3, 3)).Kind)
	assert.Equal(t, uint8(0), b.Reserve(board.White).Count(board.Knight))
}

func TestTryTurnDropPawnOutsideAllowedRowsRejected(t *testing.T) {
	g := board.NewGrid()
	king := board.NewPiece(board.King, board.Innate, board.White)
	g.Set(board.NewCoord(0, 4), &king)
	reserve := board.NewReserve()
	reserve.Add(board.Pawn, 1)
	b := bughouseBoard(g, reserve)

	_, err := b.TryTurn(board.MakeDropTurn(board.Drop{PieceKind: board.Pawn, To: board.NewCoord(0, 3)}))
	assert.Equal(t, board.DropPosition, err)
}

func TestTryTurnPromotionRequiresPromotionPieceOnBackRank(t *testing.T) {
	g := board.NewGrid()
	king := board.NewPiece(board.King, board.Innate, board.White)
	blackKing := board.NewPiece(board.King, board.Innate, board.Black)
	pawn := board.NewPiece(board.Pawn, board.Innate, board.White)
	g.Set(board.NewCoord(0, 0), &king)
	g.Set(board.NewCoord(7, 7), &blackKing)
	g.Set(board.NewCoord(6, 4), &pawn)

	rules := board.ChessRules{StartingPosition: board.Classic}
	b := board.NewBoard(&rules, nil, g)

	_, err := b.TryTurn(board.MakeMoveTurn(board.Move{From: board.NewCoord(6, 4), To: board.NewCoord(7, 4)}))
	assert.Equal(t, board.BadPromotion, err)

	_, err = b.TryTurn(board.MakeMoveTurn(board.Move{From: board.NewCoord(6, 4), To: board.NewCoord(7, 4), PromoteTo: board.Queen}))
	require.NoError(t, err)
	assert.Equal(t, board.Queen, b.Grid().At(board.NewCoord(7, 4)).Kind)
	assert.Equal(t, board.Pawn, b.Grid().At(board.NewCoord(7, 4)).EffectiveKind())
}
