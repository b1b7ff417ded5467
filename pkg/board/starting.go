package board

import "math/rand"

// GenerateStartingGrid builds a starting position for the given variant.
// For FischerRandom, rng selects the random back-rank permutation; pass a
// seeded *rand.Rand for reproducible tests, or rand.New(rand.NewSource(seed))
// for a fresh game.
func GenerateStartingGrid(position StartingPosition, rng *rand.Rand) Grid {
	var g Grid

	for c := ZeroCol; c < NumCols; c++ {
		pawn := NewPiece(Pawn, Innate, White)
		g.Set(NewCoord(1, c), &pawn)
	}

	switch position {
	case Classic:
		placeClassicBackRank(&g)
	case FischerRandom:
		placeFischerRandomBackRank(&g, rng)
	}

	for c := ZeroCol; c < NumCols; c++ {
		if white := g.At(NewCoord(1, c)); white != nil {
			black := mirrorToBlack(*white)
			g.Set(NewCoord(6, c), &black)
		}
		if white := g.At(NewCoord(0, c)); white != nil {
			black := mirrorToBlack(*white)
			g.Set(NewCoord(7, c), &black)
		}
	}
	return g
}

func mirrorToBlack(p PieceOnBoard) PieceOnBoard {
	p.Force = Black
	return p
}

func placeClassicBackRank(g *Grid) {
	row := Row(0)
	place := func(col Col, kind PieceKind) {
		piece := NewPiece(kind, Innate, White)
		g.Set(NewCoord(row, col), &piece)
	}
	aRook := NewCastlingRook(Innate, White, ASide)
	hRook := NewCastlingRook(Innate, White, HSide)
	g.Set(NewCoord(row, 0), &aRook)
	place(1, Knight)
	place(2, Bishop)
	place(3, Queen)
	place(4, King)
	place(5, Bishop)
	place(6, Knight)
	g.Set(NewCoord(row, 7), &hRook)
}

// placeFischerRandomBackRank generates a random Chess960 back rank: bishops
// on opposite color squares (one even column, one odd), queen and the two
// knights randomly filling three of the remaining six squares, the other
// three reserved for the king flanked by the two rooks.
func placeFischerRandomBackRank(g *Grid, rng *rand.Rand) {
	row := Row(0)
	occupied := [NumCols]bool{}

	evenCols := []Col{0, 2, 4, 6}
	oddCols := []Col{1, 3, 5, 7}
	bishop1 := evenCols[rng.Intn(len(evenCols))]
	bishop2 := oddCols[rng.Intn(len(oddCols))]
	occupied[bishop1] = true
	occupied[bishop2] = true

	var remaining []Col
	for c := ZeroCol; c < NumCols; c++ {
		if !occupied[c] {
			remaining = append(remaining, c)
		}
	}
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	kingAndRookCols := append([]Col{}, remaining[:3]...)
	queenAndKnightCols := append([]Col{}, remaining[3:]...)
	sortCols(kingAndRookCols)

	leftRook, kingCol, rightRook := kingAndRookCols[0], kingAndRookCols[1], kingAndRookCols[2]
	queenCol, knight1, knight2 := queenAndKnightCols[0], queenAndKnightCols[1], queenAndKnightCols[2]

	place := func(col Col, kind PieceKind) {
		piece := NewPiece(kind, Innate, White)
		g.Set(NewCoord(row, col), &piece)
	}
	aRook := NewCastlingRook(Innate, White, ASide)
	hRook := NewCastlingRook(Innate, White, HSide)

	g.Set(NewCoord(row, bishop1), bishopPiece())
	g.Set(NewCoord(row, bishop2), bishopPiece())
	g.Set(NewCoord(row, leftRook), &aRook)
	place(kingCol, King)
	g.Set(NewCoord(row, rightRook), &hRook)
	place(queenCol, Queen)
	place(knight1, Knight)
	place(knight2, Knight)
}

func bishopPiece() *PieceOnBoard {
	p := NewPiece(Bishop, Innate, White)
	return &p
}

func sortCols(cols []Col) {
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && cols[j-1] > cols[j]; j-- {
			cols[j-1], cols[j] = cols[j], cols[j-1]
		}
	}
}
