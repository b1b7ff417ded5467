// Package client implements the client-side speculation layer: AlteredGame
// (a server-confirmed game overlaid with at most one local turn and one
// preturn), drag-and-drop state, and the Join/Lobby/Game client state
// machine that turns server events into a notable-event stream for a UI.
package client

import (
	"fmt"

	"github.com/tandemboard/bughouse/pkg/board"
)

// TurnCommandError wraps a rejected MakeTurn request.
type TurnCommandError struct {
	IllegalTurn     board.TurnError
	NoGameInProgress bool
}

func (e *TurnCommandError) Error() string {
	if e.NoGameInProgress {
		return "no game in progress"
	}
	return fmt.Sprintf("illegal turn: %v", e.IllegalTurn)
}

// PieceDragErrorKind discriminates PieceDragError.
type PieceDragErrorKind uint8

const (
	DragNoLongerPossible PieceDragErrorKind = iota
	NoDragInProgress
	DragIllegalDestination
)

// PieceDragError is returned by AlteredGame.DragPieceDrop.
type PieceDragError struct {
	Kind  PieceDragErrorKind
	Cause error // set only for DragIllegalDestination, the underlying TurnError
}

func (e *PieceDragError) Error() string {
	switch e.Kind {
	case DragNoLongerPossible:
		return "dragged piece is no longer where the drag began"
	case NoDragInProgress:
		return "no drag in progress"
	case DragIllegalDestination:
		return fmt.Sprintf("illegal drag destination: %v", e.Cause)
	default:
		return "piece drag error"
	}
}

// EventError is returned by ClientState.ProcessServerEvent.
type EventError struct {
	ServerReturnedError string
	CannotApplyEvent    string
}

func (e *EventError) Error() string {
	if e.ServerReturnedError != "" {
		return fmt.Sprintf("server error: %s", e.ServerReturnedError)
	}
	return fmt.Sprintf("cannot apply event: %s", e.CannotApplyEvent)
}

// IsFatal reports whether the error indicates state divergence between
// client and server, which per the error taxonomy is fatal to the client
// session (as opposed to a recoverable rules violation).
func (e *EventError) IsFatal() bool {
	return e.CannotApplyEvent != ""
}
