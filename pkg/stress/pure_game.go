package stress

import (
	"math/rand"
	"time"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/bughouse"
)

// PureGameStats aggregates one batch of pkg/bughouse-only load.
type PureGameStats struct {
	Games           int
	FinishedGames   int
	TotalTurns      int
	SuccessfulTurns int
	Elapsed         time.Duration
}

// PureGameConfig bounds one batch.
type PureGameConfig struct {
	Games         int
	TurnsPerGame  int
	QuitInactiveRatio float64 // probability of abandoning an already-finished game early
}

func DefaultPureGameConfig() PureGameConfig {
	return PureGameConfig{Games: 100, TurnsPerGame: 100_000, QuitInactiveRatio: 0.1}
}

func newStressGame(rng *rand.Rand) *bughouse.BughouseGame {
	rules := board.ChessRules{StartingPosition: board.Classic}
	bhRules := board.BughouseRules{
		MinPawnDropRow: board.NewSubjectiveRow(2),
		MaxPawnDropRow: board.NewSubjectiveRow(7),
		DropAggression: board.NoBughouseMate,
	}
	return bughouse.NewBughouseGame(rules, bhRules, 5*time.Minute, rng)
}

// RunPureGameBatch plays cfg.Games independent games of random (often
// illegal) turns directly against pkg/bughouse, with no server or
// speculation layer involved -- this is the cheapest, highest-throughput
// fuzz target, exercising Board.TryTurn's reachability/check/mate/castle/
// drop logic under load.
func RunPureGameBatch(rng *rand.Rand, cfg PureGameConfig) PureGameStats {
	start := time.Now()
	var stats PureGameStats
	stats.Games = cfg.Games

	for i := 0; i < cfg.Games; i++ {
		game := newStressGame(rng)
		for t := 0; t < cfg.TurnsPerGame; t++ {
			playerID := bughouse.BughousePlayerId{BoardIdx: randomBoardIdx(rng)}
			playerID.Force = game.Boards[playerID.BoardIdx].ActiveForce()

			stats.TotalTurns++
			if err := game.TryTurn(playerID, randomTurn(rng), 0); err == nil {
				stats.SuccessfulTurns++
			}

			if !game.Status.IsActive() && rng.Float64() < cfg.QuitInactiveRatio {
				break
			}
		}
		if !game.Status.IsActive() {
			stats.FinishedGames++
		}
	}

	stats.Elapsed = time.Since(start)
	return stats
}
