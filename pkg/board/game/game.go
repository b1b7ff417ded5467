// Package game provides a standalone single-board (non-bughouse) game, a
// thin convenience wrapper over package board for the CLI and for tests,
// wiring in the algebraic notation parser that package board itself cannot
// import without a dependency cycle.
package game

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/board/algebraic"
)

// ChessGame is a plain chess game on a single board.
type ChessGame struct {
	board *board.Board
}

func NewChessGame(rules board.ChessRules, rng *rand.Rand) *ChessGame {
	grid := board.GenerateStartingGrid(rules.StartingPosition, rng)
	return &ChessGame{board: board.NewBoard(&rules, nil, grid)}
}

func (g *ChessGame) Board() *board.Board {
	return g.board
}

func (g *ChessGame) Status() board.GameStatus {
	return g.board.Status()
}

func (g *ChessGame) TryTurn(turn board.Turn) error {
	_, err := g.board.TryTurn(turn)
	return err
}

func (g *ChessGame) TryTurnFromAlgebraic(notation string) error {
	turn, err := algebraic.Parse(g.board, notation)
	if err != nil {
		return err
	}
	return g.TryTurn(turn)
}

var turnNumberRE = regexp.MustCompile(`^(?:\d+[A-Za-z]?\.)?(.*)$`)

// TryReplayLog replays a whitespace-separated algebraic turn log, tolerating
// an optional leading move number (e.g. "41.Kc1" or "12A.").
func (g *ChessGame) TryReplayLog(log string) error {
	for _, tok := range strings.Fields(log) {
		notation := tok
		if m := turnNumberRE.FindStringSubmatch(tok); m != nil {
			notation = m[1]
		}
		if notation == "" {
			continue
		}
		if err := g.TryTurnFromAlgebraic(notation); err != nil {
			return fmt.Errorf("replay %q: %w", tok, err)
		}
	}
	return nil
}
