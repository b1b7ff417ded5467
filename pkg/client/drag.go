package client

import (
	"time"

	"github.com/tandemboard/bughouse/pkg/board"
)

// DragSourceKind discriminates DragSource.
type DragSourceKind uint8

const (
	DragFromBoard DragSourceKind = iota
	DragFromReserve
)

// DragSource is where a drag began: a board square or a reserve piece kind.
type DragSource struct {
	Kind  DragSourceKind
	Coord board.Coord     // meaningful iff Kind == DragFromBoard
	Piece board.PieceKind // meaningful iff Kind == DragFromReserve
}

func FromBoard(c board.Coord) DragSource {
	return DragSource{Kind: DragFromBoard, Coord: c}
}

func FromReserve(kind board.PieceKind) DragSource {
	return DragSource{Kind: DragFromReserve, Piece: kind}
}

// DragState is an in-progress piece drag on one board.
type DragState struct {
	Source    DragSource
	PieceKind board.PieceKind
	StartedAt time.Time

	hover      board.Coord
	hoverValid bool
}

// DragOverPiece updates the current hover destination, or clears it when c
// is nil.
func (d *DragState) DragOverPiece(c *board.Coord) {
	if c == nil {
		d.hoverValid = false
		return
	}
	d.hover, d.hoverValid = *c, true
}

// Hover returns the current hover destination, if any.
func (d *DragState) Hover() (board.Coord, bool) {
	return d.hover, d.hoverValid
}
