package client

import (
	"time"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/board/algebraic"
	"github.com/tandemboard/bughouse/pkg/bughouse"
	"github.com/tandemboard/bughouse/pkg/clock"
)

// AlteredGame overlays a server-confirmed BughouseGame with at most one
// local turn and one preturn (a turn queued before it is legal, applied
// automatically once it becomes so), plus in-progress drag state. The
// overlay is always derivable and re-derivable from gameConfirmed: no
// speculative state is load-bearing beyond what LocalGame() reconstructs.
type AlteredGame struct {
	myId          bughouse.BughousePlayerId
	gameConfirmed *bughouse.BughouseGame

	localTurn *board.Turn
	preturn   *board.Turn
	drag      *DragState
}

func NewAlteredGame(myId bughouse.BughousePlayerId, confirmed *bughouse.BughouseGame) *AlteredGame {
	return &AlteredGame{myId: myId, gameConfirmed: confirmed}
}

func (a *AlteredGame) Status() board.GameStatus {
	return a.gameConfirmed.Status
}

// MyId returns the seat this AlteredGame speculates on behalf of.
func (a *AlteredGame) MyId() bughouse.BughousePlayerId {
	return a.myId
}

// GameConfirmed returns the server-confirmed game underlying the overlay.
// Callers must treat it as read-only -- mutating it bypasses the overlay
// entirely.
func (a *AlteredGame) GameConfirmed() *bughouse.BughouseGame {
	return a.gameConfirmed
}

// SetStatus force-sets the confirmed game's status, e.g. on GameOver.
func (a *AlteredGame) SetStatus(status board.GameStatus) {
	a.gameConfirmed.Status = status
}

// ResetLocalChanges drops any local turn, preturn and drag, e.g. on game
// over: the speculative overlay no longer means anything once the server
// has the final word.
func (a *AlteredGame) ResetLocalChanges() {
	a.localTurn = nil
	a.preturn = nil
	a.drag = nil
}

func (a *AlteredGame) CanMakeLocalTurn() bool {
	return a.localTurn == nil
}

func (a *AlteredGame) myBoard() *board.Board {
	return a.gameConfirmed.Boards[a.myId.BoardIdx]
}

// LocalGame derives the game as the local player currently sees it:
// gameConfirmed with localTurn and then preturn speculatively applied. Pure
// and side-effect-free -- callers may call it on every render.
func (a *AlteredGame) LocalGame() *bughouse.BughouseGame {
	g := a.gameConfirmed.Clone()
	if a.localTurn != nil {
		_ = g.TryTurnAs(a.myId, *a.localTurn, 0)
	}
	if a.preturn != nil {
		_ = g.TryTurnAs(a.myId, *a.preturn, 0)
	}
	return g
}

// TryLocalTurn attempts turn as the local player's next speculative action:
// if there is no outstanding local turn, turn becomes it; if there is one
// already and no preturn yet, turn becomes the preturn; otherwise
// PreturnLimitReached. Legality is checked against the appropriate
// speculative position as the local player's force, regardless of whose
// turn it is on the board; the server additionally enforces turn order.
func (a *AlteredGame) TryLocalTurn(turn board.Turn, now clock.GameInstant) error {
	if a.localTurn == nil {
		scratch := a.myBoard().Clone()
		if _, err := scratch.TryTurnAs(a.myId.Force, turn); err != nil {
			return err
		}
		a.localTurn = &turn
		return nil
	}
	if a.preturn == nil {
		scratch := a.myBoard().Clone()
		if _, err := scratch.TryTurnAs(a.myId.Force, *a.localTurn); err != nil {
			return err
		}
		if _, err := scratch.TryTurnAs(a.myId.Force, turn); err != nil {
			return err
		}
		a.preturn = &turn
		return nil
	}
	return board.PreturnLimitReached
}

func (a *AlteredGame) TryLocalTurnAlgebraic(notation string, now clock.GameInstant) error {
	turn, err := algebraic.Parse(a.scratchForParsing(), notation)
	if err != nil {
		return err
	}
	return a.TryLocalTurn(turn, now)
}

// scratchForParsing gives the algebraic parser the board it should resolve
// disambiguation against: the position as of the outstanding local turn (if
// any), matching what the player actually sees when typing a second turn,
// viewed as the local player's own force regardless of whose turn it
// genuinely is in the confirmed game.
func (a *AlteredGame) scratchForParsing() *board.Board {
	scratch := a.myBoard().Clone()
	if a.localTurn != nil {
		_, _ = scratch.TryTurnAs(a.myId.Force, *a.localTurn)
	}
	return scratch.AsForce(a.myId.Force)
}

// ApplyRemoteTurn commits turn to the confirmed game on behalf of playerId,
// then reconciles the speculative overlay against the new confirmed state.
// Returns whether the turn was made by someone other than the local
// player.
func (a *AlteredGame) ApplyRemoteTurn(playerId bughouse.BughousePlayerId, turn board.Turn, now clock.GameInstant) (bool, error) {
	if !a.gameConfirmed.Status.IsActive() {
		return false, &EventError{CannotApplyEvent: "game is already over"}
	}
	if err := a.gameConfirmed.TryTurn(playerId, turn, now); err != nil {
		return false, &EventError{CannotApplyEvent: err.Error()}
	}

	if playerId == a.myId {
		a.localTurn = nil
		if a.preturn != nil {
			scratch := a.myBoard().Clone()
			if _, err := scratch.TryTurnAs(a.myId.Force, *a.preturn); err == nil {
				a.localTurn = a.preturn
			}
			a.preturn = nil
		}
		return false, nil
	}

	if a.localTurn != nil {
		scratch := a.myBoard().Clone()
		if _, err := scratch.TryTurnAs(a.myId.Force, *a.localTurn); err != nil {
			a.localTurn = nil
			a.preturn = nil
		} else if a.preturn != nil {
			if _, err := scratch.TryTurnAs(a.myId.Force, *a.preturn); err != nil {
				a.preturn = nil
			}
		}
	}
	return true, nil
}

func (a *AlteredGame) ApplyRemoteTurnAlgebraic(playerId bughouse.BughousePlayerId, notation string, now clock.GameInstant) (bool, error) {
	turn, err := algebraic.Parse(a.gameConfirmed.Boards[playerId.BoardIdx], notation)
	if err != nil {
		return false, &EventError{CannotApplyEvent: err.Error()}
	}
	return a.ApplyRemoteTurn(playerId, turn, now)
}

// StartDragPiece records the start of a drag from source.
func (a *AlteredGame) StartDragPiece(source DragSource, now time.Time) {
	kind := source.Piece
	if source.Kind == DragFromBoard {
		if p := a.LocalGame().Boards[a.myId.BoardIdx].Grid().At(source.Coord); p != nil {
			kind = p.Kind
		}
	}
	a.drag = &DragState{Source: source, PieceKind: kind, StartedAt: now}
}

func (a *AlteredGame) AbortDragPiece() {
	a.drag = nil
}

func (a *AlteredGame) Drag() *DragState {
	return a.drag
}

// DragPieceDrop converts the in-progress drag into a local turn attempt at
// dest. If the drag's source square no longer holds the piece it started
// with (e.g. a reverted preturn removed it), it fails with
// DragNoLongerPossible rather than silently moving the wrong piece.
func (a *AlteredGame) DragPieceDrop(dest board.Coord, promoteTo board.PieceKind, now clock.GameInstant) (board.Turn, error) {
	if a.drag == nil {
		return board.Turn{}, &PieceDragError{Kind: NoDragInProgress}
	}
	drag := a.drag
	a.drag = nil

	var turn board.Turn
	switch drag.Source.Kind {
	case DragFromBoard:
		current := a.LocalGame().Boards[a.myId.BoardIdx].Grid().At(drag.Source.Coord)
		if current == nil || current.Kind != drag.PieceKind || current.Force != a.myId.Force {
			return board.Turn{}, &PieceDragError{Kind: DragNoLongerPossible}
		}
		turn = board.MakeMoveTurn(board.Move{From: drag.Source.Coord, To: dest, PromoteTo: promoteTo})
	case DragFromReserve:
		turn = board.MakeDropTurn(board.Drop{PieceKind: drag.Source.Piece, To: dest})
	}

	if err := a.TryLocalTurn(turn, now); err != nil {
		return board.Turn{}, &PieceDragError{Kind: DragIllegalDestination, Cause: err}
	}
	return turn, nil
}
