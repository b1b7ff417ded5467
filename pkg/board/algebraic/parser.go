// Package algebraic parses and formats the algebraic notation used for
// turns: standard moves and captures, piece drops ("N@f3") and castling
// ("O-O"/"O-O-O", with the "0-0"/"0-0-0" digit-zero spelling also accepted).
package algebraic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tandemboard/bughouse/pkg/board"
)

var (
	moveRE = regexp.MustCompile(
		`^([PNBRQK]?)([a-h]?)([1-8]?)([x×:]?)([a-h][1-8])(?:[=/]?([PNBRQK]))?([+†#‡]?)$`)
	dropRE       = regexp.MustCompile(`^([PNBRQK])@([a-h][1-8])$`)
	aCastlingRE  = regexp.MustCompile(`^(?:0-0-0|O-O-O)$`)
	hCastlingRE  = regexp.MustCompile(`^(?:0-0|O-O)$`)
)

// Parse resolves notation against the board's current grid and active
// force, disambiguating by origin-square constraints and reachability. It
// does not itself apply the turn -- the caller still runs it through
// Board.TryTurn, which is what actually checks king safety, drop
// aggression and turn legality end to end.
func Parse(b *board.Board, notation string) (board.Turn, error) {
	notation = strings.TrimSpace(notation)
	force := b.ActiveForce()
	grid := b.Grid()

	if m := moveRE.FindStringSubmatch(notation); m != nil {
		pieceKind := board.Pawn
		if m[1] != "" {
			pieceKind, _ = board.ParsePieceKind([]rune(m[1])[0])
		}
		var fromCol *board.Col
		if m[2] != "" {
			c, _ := board.ParseCol([]rune(m[2])[0])
			fromCol = &c
		}
		var fromRow *board.Row
		if m[3] != "" {
			r, _ := board.ParseRow([]rune(m[3])[0])
			fromRow = &r
		}
		capturing := m[4] != ""
		to, err := board.ParseCoord(m[5])
		if err != nil {
			return board.Turn{}, board.InvalidNotation
		}
		var promoteTo board.PieceKind
		if m[6] != "" {
			promoteTo, _ = board.ParsePieceKind([]rune(m[6])[0])
		}

		if (promoteTo != board.NoPieceKind) != shouldPromote(force, pieceKind, to) {
			return board.Turn{}, board.BadPromotion
		}

		var found *board.Coord
		for _, from := range board.AllCoords() {
			piece := grid.At(from)
			if piece == nil || piece.Force != force || piece.Kind != pieceKind {
				continue
			}
			if fromCol != nil && *fromCol != from.Col {
				continue
			}
			if fromRow != nil && *fromRow != from.Row {
				continue
			}
			if !board.IsReachable(grid, from, to, capturing) {
				continue
			}
			if found != nil {
				return board.Turn{}, board.AmbiguousNotation
			}
			f := from
			found = &f
		}
		if found == nil {
			return board.Turn{}, board.Unreachable
		}
		if capturing {
			if _, isCapture := board.GetCapture(grid, *found, to, b.LastTurn()); !isCapture {
				return board.Turn{}, board.CaptureNotationRequiresCapture
			}
		}
		return board.MakeMoveTurn(board.Move{From: *found, To: to, PromoteTo: promoteTo}), nil
	}

	if m := dropRE.FindStringSubmatch(notation); m != nil {
		kind, _ := board.ParsePieceKind([]rune(m[1])[0])
		to, err := board.ParseCoord(m[2])
		if err != nil {
			return board.Turn{}, board.InvalidNotation
		}
		return board.MakeDropTurn(board.Drop{PieceKind: kind, To: to}), nil
	}

	if aCastlingRE.MatchString(notation) {
		return board.MakeCastleTurn(board.ASide), nil
	}
	if hCastlingRE.MatchString(notation) {
		return board.MakeCastleTurn(board.HSide), nil
	}

	return board.Turn{}, board.InvalidNotation
}

func shouldPromote(force board.Force, kind board.PieceKind, to board.Coord) bool {
	return kind == board.Pawn && to.Row == board.SubjectiveRow(8).ToRow(force)
}

// Format renders turn in the same notation Parse accepts, preferring the
// unabbreviated piece letter and '=' promotion marker, with no
// disambiguation (the caller is expected to want the canonical, not the
// minimal, form -- e.g. for logs and replay round-tripping).
func Format(grid *board.Grid, turn board.Turn) string {
	switch turn.Kind {
	case board.MoveTurn:
		mv := turn.Move
		piece := grid.At(mv.From)
		isPawn := piece != nil && piece.Kind == board.Pawn
		var b strings.Builder
		if piece != nil && !isPawn {
			b.WriteString(piece.Kind.String())
		}
		// A diagonal pawn move is always a capture, en passant included.
		if !grid.IsEmpty(mv.To) || (isPawn && mv.From.Col != mv.To.Col) {
			if isPawn {
				b.WriteString(mv.From.Col.String())
			}
			b.WriteString("x")
		}
		fmt.Fprintf(&b, "%v", mv.To)
		if mv.PromoteTo != board.NoPieceKind {
			fmt.Fprintf(&b, "=%v", mv.PromoteTo)
		}
		return b.String()
	case board.DropTurn:
		return turn.Drop.String()
	case board.CastleTurn:
		if turn.Castle == board.ASide {
			return "O-O-O"
		}
		return "O-O"
	default:
		return "?"
	}
}
