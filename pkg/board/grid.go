package board

import "strings"

// Grid is a total mapping from Coord to an optional PieceOnBoard. Go arrays
// are value types, so Grid is cheap to copy wholesale, which is how
// Board.candidateGrid builds a candidate grid before committing it.
type Grid [NumRows][NumCols]*PieceOnBoard

func NewGrid() Grid {
	return Grid{}
}

func (g *Grid) At(c Coord) *PieceOnBoard {
	return g[c.Row][c.Col]
}

func (g *Grid) IsEmpty(c Coord) bool {
	return g[c.Row][c.Col] == nil
}

func (g *Grid) Set(c Coord, p *PieceOnBoard) {
	g[c.Row][c.Col] = p
}

// ScopedSet sets the square to p and returns a restore function that puts the
// prior occupant back. Callers must defer the restore (or call it on every
// exit path) so speculative mutation never leaks into the caller's grid.
func (g *Grid) ScopedSet(c Coord, p *PieceOnBoard) func() {
	prior := g[c.Row][c.Col]
	g[c.Row][c.Col] = p
	return func() {
		g[c.Row][c.Col] = prior
	}
}

// ScopedMove speculatively relocates the piece at from to to (which must
// currently hold the piece being moved), returning a restore function. It is
// a convenience composing two ScopedSet calls, used by the mate-escape search.
func (g *Grid) ScopedMove(from, to Coord, piece *PieceOnBoard) func() {
	restoreTo := g.ScopedSet(to, piece)
	restoreFrom := g.ScopedSet(from, nil)
	return func() {
		restoreFrom()
		restoreTo()
	}
}

// Clone returns an independent copy of the grid. Since Grid is a value type
// of pointers to immutable PieceOnBoard values, a shallow array copy suffices.
func (g Grid) Clone() Grid {
	return g
}

func (g *Grid) String() string {
	var sb strings.Builder
	for r := NumRows - 1; r >= 0; r-- {
		for c := ZeroCol; c < NumCols; c++ {
			if p := g[r][c]; p != nil {
				sb.WriteString(p.String())
			} else {
				sb.WriteRune('.')
			}
		}
		if r != 0 {
			sb.WriteRune('/')
		}
	}
	return sb.String()
}
