package stress

import (
	"math/rand"
	"time"

	"github.com/tandemboard/bughouse/pkg/bughouse"
	"github.com/tandemboard/bughouse/pkg/client"
	"github.com/tandemboard/bughouse/pkg/clock"
)

// AlteredGameStats aggregates one batch of pkg/client speculation-layer
// load.
type AlteredGameStats struct {
	Games         int
	FinishedGames int
	Elapsed       time.Duration
}

type AlteredGameConfig struct {
	Games             int
	ActionsPerGame    int
	QuitInactiveRatio float64
}

func DefaultAlteredGameConfig() AlteredGameConfig {
	return AlteredGameConfig{Games: 100, ActionsPerGame: 10_000, QuitInactiveRatio: 0.1}
}

type actionKind uint8

const (
	actionApplyRemoteTurn actionKind = iota
	actionLocalTurn
	actionStartDragPiece
	actionDragOverPiece
	actionAbortDragPiece
	actionDragPieceDrop
)

// RunAlteredGameBatch drives cfg.Games independent AlteredGame sessions
// through random sequences of remote turns, local turns and drag
// transitions. The only pass/fail signal is whether anything panics --
// every individual action is allowed (expected) to be rejected as illegal.
func RunAlteredGameBatch(rng *rand.Rand, cfg AlteredGameConfig) AlteredGameStats {
	start := time.Now()
	var stats AlteredGameStats
	stats.Games = cfg.Games

	for i := 0; i < cfg.Games; i++ {
		myID := bughouse.BughousePlayerId{BoardIdx: randomBoardIdx(rng), Force: randomForce(rng)}
		alt := client.NewAlteredGame(myID, newStressGame(rng))

		for a := 0; a < cfg.ActionsPerGame; a++ {
			applyRandomAction(alt, rng)

			// Exercise the overlay-reconciliation path even when its result
			// is unused.
			_ = alt.LocalGame()

			if !alt.Status().IsActive() && rng.Float64() < cfg.QuitInactiveRatio {
				break
			}
		}
		if !alt.Status().IsActive() {
			stats.FinishedGames++
		}
	}

	stats.Elapsed = time.Since(start)
	return stats
}

func applyRandomAction(alt *client.AlteredGame, rng *rand.Rand) {
	switch actionKind(rng.Intn(6)) {
	case actionApplyRemoteTurn:
		applyRandomRemoteTurn(alt, rng)
	case actionLocalTurn:
		_ = alt.TryLocalTurn(randomTurn(rng), clock.GameInstant(0))
	case actionStartDragPiece:
		if rng.Float64() < 0.3 {
			alt.StartDragPiece(client.FromReserve(randomPieceKind(rng)), time.Now())
		} else {
			alt.StartDragPiece(client.FromBoard(randomCoord(rng)), time.Now())
		}
	case actionDragOverPiece:
		if d := alt.Drag(); d != nil {
			c := randomCoord(rng)
			d.DragOverPiece(&c)
		}
	case actionAbortDragPiece:
		alt.AbortDragPiece()
	case actionDragPieceDrop:
		_, _ = alt.DragPieceDrop(randomCoord(rng), randomPieceKind(rng), clock.GameInstant(0))
	}
}

// applyRandomRemoteTurn tries, a bounded number of times, to find a legal
// turn for some seat other than myID on the confirmed game, so that the
// vast majority of "remote turn" actions actually exercise
// ApplyRemoteTurn's reconciliation logic rather than just its error path.
func applyRandomRemoteTurn(alt *client.AlteredGame, rng *rand.Rand) {
	const maxAttempts = 1000
	for attempt := 0; attempt < maxAttempts; attempt++ {
		boardIdx := randomBoardIdx(rng)
		game := alt.GameConfirmed().Clone()
		force := game.Boards[boardIdx].ActiveForce()
		playerID := bughouse.BughousePlayerId{BoardIdx: boardIdx, Force: force}
		if playerID == alt.MyId() {
			continue // never confirm a turn as though it were our own
		}

		turn := randomTurn(rng)
		if err := game.TryTurn(playerID, turn, 0); err != nil {
			continue
		}

		rec := game.TurnLog[len(game.TurnLog)-1]
		_, _ = alt.ApplyRemoteTurn(playerID, turn, rec.Time)
		return
	}
}
