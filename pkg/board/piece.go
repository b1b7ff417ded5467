package board

import "github.com/seekerror/stdlib/pkg/lang"

// PieceKind represents a chess piece kind, colorless.
type PieceKind uint8

const (
	NoPieceKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func ParsePieceKind(r rune) (PieceKind, bool) {
	switch r {
	case 'P':
		return Pawn, true
	case 'N':
		return Knight, true
	case 'B':
		return Bishop, true
	case 'R':
		return Rook, true
	case 'Q':
		return Queen, true
	case 'K':
		return King, true
	default:
		return NoPieceKind, false
	}
}

func (p PieceKind) IsValid() bool {
	return Pawn <= p && p <= King
}

// CanPromoteTo reports whether a pawn may promote to this kind.
func (p PieceKind) CanPromoteTo() bool {
	switch p {
	case Knight, Bishop, Rook, Queen:
		return true
	default:
		return false
	}
}

func (p PieceKind) String() string {
	switch p {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return "?"
	}
}

// PieceOrigin tells how a piece on board came to be where it is, which
// determines what it reverts to when captured into a bughouse reserve.
type PieceOrigin uint8

const (
	Innate PieceOrigin = iota
	Promoted
	Dropped
)

func (o PieceOrigin) String() string {
	switch o {
	case Innate:
		return "innate"
	case Promoted:
		return "promoted"
	case Dropped:
		return "dropped"
	default:
		return "?"
	}
}

// CastleDirection is a semantic castling side, independent of starting file,
// so that Chess960 rooks (which need not start on a/h) can be tagged.
type CastleDirection uint8

const (
	ASide CastleDirection = iota // queenside in Classic
	HSide                        // kingside in Classic
)

func (d CastleDirection) String() string {
	switch d {
	case ASide:
		return "ASide"
	case HSide:
		return "HSide"
	default:
		return "?"
	}
}

// PieceOnBoard is a piece sitting on a square: kind, origin, force and (for
// rooks only) which castling side it participates in.
type PieceOnBoard struct {
	Kind         PieceKind
	Origin       PieceOrigin
	Force        Force
	RookCastling lang.Optional[CastleDirection]
}

func NewPiece(kind PieceKind, origin PieceOrigin, force Force) PieceOnBoard {
	return PieceOnBoard{Kind: kind, Origin: origin, Force: force}
}

func NewCastlingRook(origin PieceOrigin, force Force, dir CastleDirection) PieceOnBoard {
	return PieceOnBoard{Kind: Rook, Origin: origin, Force: force, RookCastling: lang.Some(dir)}
}

// EffectiveKind is the kind a piece reverts to when captured into a reserve:
// a captured promoted piece demotes to a Pawn, everything else keeps its kind.
func (p PieceOnBoard) EffectiveKind() PieceKind {
	if p.Origin == Promoted {
		return Pawn
	}
	return p.Kind
}

func printPiece(force Force, kind PieceKind) string {
	if force == White {
		return kind.String()
	}
	lower := []rune(kind.String())
	lower[0] = lower[0] + ('a' - 'A')
	return string(lower)
}

func (p PieceOnBoard) String() string {
	return printPiece(p.Force, p.Kind)
}
