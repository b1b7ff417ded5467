// Package stress implements fuzz-style load harnesses for the two busiest
// layers of the engine -- raw BughouseGame turn application and the
// AlteredGame speculation overlay -- generating random (frequently illegal)
// actions and checking only that nothing panics.
package stress

import (
	"math/rand"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/bughouse"
)

const dropRatio = 0.2
const promotionRatio = 0.2

func randomCoord(rng *rand.Rand) board.Coord {
	return board.Coord{Row: board.Row(rng.Intn(8)), Col: board.Col(rng.Intn(8))}
}

var pieceKinds = []board.PieceKind{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King}

func randomPieceKind(rng *rand.Rand) board.PieceKind {
	return pieceKinds[rng.Intn(len(pieceKinds))]
}

func randomForce(rng *rand.Rand) board.Force {
	if rng.Intn(2) == 0 {
		return board.White
	}
	return board.Black
}

func randomBoardIdx(rng *rand.Rand) bughouse.BughouseBoard {
	if rng.Intn(2) == 0 {
		return bughouse.BoardA
	}
	return bughouse.BoardB
}

// randomTurn generates a random Move or Drop turn. Most generated moves are
// illegal; that is the point -- Board.TryTurn must reject them cleanly
// rather than panic.
func randomTurn(rng *rand.Rand) board.Turn {
	if rng.Float64() < dropRatio {
		return board.MakeDropTurn(board.Drop{PieceKind: randomPieceKind(rng), To: randomCoord(rng)})
	}

	from := randomCoord(rng)
	to := randomCoord(rng)
	var promoteTo board.PieceKind
	if (to.Row == 0 || to.Row == 7) && rng.Float64() < promotionRatio {
		promoteTo = randomPieceKind(rng)
	}
	return board.MakeMoveTurn(board.Move{From: from, To: to, PromoteTo: promoteTo})
}
