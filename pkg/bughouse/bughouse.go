// Package bughouse couples two chess boards into a single four-player
// bughouse game: shared rules, seat assignment, capture routing between
// reserves, per-board clocks and aggregate game status.
package bughouse

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/board/algebraic"
	"github.com/tandemboard/bughouse/pkg/clock"
)

// BughouseBoard identifies one of the two boards of a game.
type BughouseBoard uint8

const (
	BoardA BughouseBoard = iota
	BoardB
)

func (b BughouseBoard) Other() BughouseBoard {
	if b == BoardA {
		return BoardB
	}
	return BoardA
}

func (b BughouseBoard) String() string {
	if b == BoardA {
		return "A"
	}
	return "B"
}

// BughousePlayerId identifies one of the four seats in a game.
type BughousePlayerId struct {
	BoardIdx BughouseBoard
	Force    board.Force
}

// Team maps a seat to its fixed team: White-A pairs with Black-B (Red);
// White-B pairs with Black-A (Blue).
func (id BughousePlayerId) Team() board.Team {
	if (id.BoardIdx == BoardA) == (id.Force == board.White) {
		return board.Red
	}
	return board.Blue
}

func (id BughousePlayerId) String() string {
	return fmt.Sprintf("%v-%v", id.Force, id.BoardIdx)
}

// TurnRecord is one entry in the game's turn log: the total order in which
// the authoritative server confirmed turns across both boards.
type TurnRecord struct {
	PlayerId   BughousePlayerId
	Turn       board.Turn
	Algebraic  string
	Time       clock.GameInstant
	Status     board.GameStatus
}

// BughouseGame pairs two boards sharing chess rules and a starting grid
// (cloned independently per board so captures and drops on one board never
// alias the other's grid), with per-board clocks and a turn log in server
// confirmation order.
type BughouseGame struct {
	Boards  [2]*board.Board
	Clocks  [2]*clock.Clock
	Status  board.GameStatus
	TurnLog []TurnRecord

	StartingPosition board.StartingPosition
}

// NewBughouseGame creates a fresh game: both boards start from the same
// random (or classic) starting grid, sharing chess rules but not grid
// storage, each with its own countdown clock starting at startingTime.
func NewBughouseGame(rules board.ChessRules, bughouseRules board.BughouseRules, startingTime time.Duration, rng *rand.Rand) *BughouseGame {
	grid := board.GenerateStartingGrid(rules.StartingPosition, rng)
	return &BughouseGame{
		Boards: [2]*board.Board{
			board.NewBoard(&rules, &bughouseRules, grid.Clone()),
			board.NewBoard(&rules, &bughouseRules, grid.Clone()),
		},
		Clocks: [2]*clock.Clock{
			clock.NewClock(startingTime),
			clock.NewClock(startingTime),
		},
		Status:           board.Active(),
		StartingPosition: rules.StartingPosition,
	}
}

// TryTurn applies turn as playerId's seat on its board, requiring it to
// genuinely be that seat's turn. On success, a capture is routed to the
// partner board's reserve and the turn is appended to the log; a mate on
// the board ends the game as a Victory for the mating seat's team. Flag
// outcomes are adjudicated separately by CheckFlags. This is the
// authoritative path: the server always applies confirmed turns this way.
func (g *BughouseGame) TryTurn(playerId BughousePlayerId, turn board.Turn, now clock.GameInstant) error {
	return g.tryTurn(playerId, turn, now, func(b *board.Board) (*board.Capture, error) {
		if b.ActiveForce() != playerId.Force {
			return nil, board.WrongTurnOrder
		}
		return b.TryTurn(turn)
	})
}

// TryTurnAs applies turn as playerId's seat regardless of whose turn the
// board itself currently thinks it is. Used only by a client-side
// speculative overlay to validate a player's own local turn or preturn,
// which may be queued before it is genuinely that player's turn.
func (g *BughouseGame) TryTurnAs(playerId BughousePlayerId, turn board.Turn, now clock.GameInstant) error {
	return g.tryTurn(playerId, turn, now, func(b *board.Board) (*board.Capture, error) {
		return b.TryTurnAs(playerId.Force, turn)
	})
}

func (g *BughouseGame) tryTurn(playerId BughousePlayerId, turn board.Turn, now clock.GameInstant, apply func(*board.Board) (*board.Capture, error)) error {
	if !g.Status.IsActive() {
		return board.GameOver
	}
	idx := playerId.BoardIdx
	b := g.Boards[idx]

	grid := b.Grid()
	notation := algebraic.Format(grid, turn)

	capture, err := apply(b)
	if err != nil {
		return err
	}
	if capture != nil {
		g.Boards[idx.Other()].Reserve(capture.Force).Add(capture.Kind, 1)
	}

	if status := b.Status(); !status.IsActive() {
		// The board reports a mate as a win for its White or Black force;
		// which team that force belongs to depends on the board.
		if status.Outcome == board.OutcomeRedWins || status.Outcome == board.OutcomeBlueWins {
			winner := board.White
			if status.Outcome == board.OutcomeBlueWins {
				winner = board.Black
			}
			status = board.Victory(BughousePlayerId{BoardIdx: idx, Force: winner}.Team(), status.Reason)
		}
		g.Status = status
	}

	g.TurnLog = append(g.TurnLog, TurnRecord{
		PlayerId:  playerId,
		Turn:      turn,
		Algebraic: notation,
		Time:      now,
		Status:    g.Status,
	})
	return nil
}

// Clone returns an independent game: both boards and the turn log are
// copied so the clone can be mutated (e.g. by AlteredGame's speculative
// overlay) without affecting the original. Clocks are shared by reference:
// nothing in the speculative overlay needs its own clock.
func (g *BughouseGame) Clone() *BughouseGame {
	clone := *g
	clone.Boards = [2]*board.Board{g.Boards[BoardA].Clone(), g.Boards[BoardB].Clone()}
	clone.TurnLog = append([]TurnRecord(nil), g.TurnLog...)
	return &clone
}

// CheckFlags evaluates both boards' clocks at the given wall time and
// adjudicates flag/simultaneous-flag outcomes. It is the tick-driven
// counterpart of TryTurn's mate-driven status updates; the server's tick
// producer calls this once per 100ms tick per the concurrency model.
func (g *BughouseGame) CheckFlags(wall time.Time) {
	if !g.Status.IsActive() {
		return
	}
	var flagged [2][board.NumForces]bool
	for i, c := range g.Clocks {
		flagged[i][board.White], flagged[i][board.Black] = c.CheckFlag(wall)
	}

	anyFlagged := false
	for i := range g.Clocks {
		if flagged[i][board.White] || flagged[i][board.Black] {
			anyFlagged = true
		}
	}
	if !anyFlagged {
		return
	}

	// A flagged force on either board loses for its team unless the
	// opposing team also flagged on the same tick.
	redFlagged := flagged[BoardA][board.White] || flagged[BoardB][board.Black]
	blueFlagged := flagged[BoardA][board.Black] || flagged[BoardB][board.White]

	switch {
	case redFlagged && blueFlagged:
		g.Status = board.DrawStatus(board.SimultaneousFlag)
	case redFlagged:
		g.Status = board.Victory(board.Blue, board.Flag)
	case blueFlagged:
		g.Status = board.Victory(board.Red, board.Flag)
	}
}
