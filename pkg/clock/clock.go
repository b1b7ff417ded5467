// Package clock implements the per-board chess clock: a per-color countdown
// from a single starting time, turn-start timestamps, and flag detection.
// Time odds (unequal starting times per color) are out of scope per the
// Non-goals; both colors always start from the same duration.
package clock

import (
	"time"

	"github.com/tandemboard/bughouse/pkg/board"
)

// GameInstant is a point in game time: elapsed wall-clock duration since the
// game's creation, as tracked by the authoritative server. Clients never
// invent their own game time; they only ever read it from a WallGameTimePair
// anchor and extrapolate against their own wall clock.
type GameInstant time.Duration

// WallGameTimePair anchors a GameInstant to the wall-clock time at which it
// was observed, letting a client estimate the current GameInstant without
// clock synchronization (NTP sync of client/server clocks is explicitly
// unspecified -- see the open question in the glossary).
type WallGameTimePair struct {
	Wall time.Time
	Game GameInstant
}

// Now extrapolates the current GameInstant from the anchor and the given
// wall-clock time.
func (p WallGameTimePair) Now(wall time.Time) GameInstant {
	return p.Game + GameInstant(wall.Sub(p.Wall))
}

// Clock is a per-color countdown clock for one board. Not thread-safe --
// like Board, all access is confined to a single owning task (the server's
// state task, or a client's AlteredGame owner).
type Clock struct {
	remaining [board.NumForces]time.Duration
	turnStart time.Time
	active    board.Force
	running   bool
}

// NewClock creates a clock with both colors starting from d, not yet
// running (Start must be called once the game begins).
func NewClock(d time.Duration) *Clock {
	return &Clock{remaining: [board.NumForces]time.Duration{d, d}}
}

// Start begins the countdown for active as of now.
func (c *Clock) Start(active board.Force, now time.Time) {
	c.active = active
	c.turnStart = now
	c.running = true
}

// Flip commits the elapsed time since the last Start/Flip to the force that
// was just active, then starts the countdown for next.
func (c *Clock) Flip(now time.Time, next board.Force) {
	if c.running {
		c.remaining[c.active] -= now.Sub(c.turnStart)
	}
	c.Start(next, now)
}

// Stop freezes the clock, e.g. on game over.
func (c *Clock) Stop(now time.Time) {
	if c.running {
		c.remaining[c.active] -= now.Sub(c.turnStart)
	}
	c.running = false
}

// Remaining reports the time left for force as of now.
func (c *Clock) Remaining(force board.Force, now time.Time) time.Duration {
	if c.running && force == c.active {
		return c.remaining[force] - now.Sub(c.turnStart)
	}
	return c.remaining[force]
}

// Flagged reports whether force's clock has expired as of now.
func (c *Clock) Flagged(force board.Force, now time.Time) bool {
	return c.Remaining(force, now) <= 0
}

// CheckFlag is the tick-driven flag detector: it reports whether either
// color has flagged, and if both have (detected on the same tick), that is
// a simultaneous flag. Called at each 100ms server tick per the
// concurrency model; the caller (BughouseGame.CheckFlags) turns flagged
// results into a team board.Victory with board.Flag, or
// board.DrawStatus(board.SimultaneousFlag) when both teams flagged.
func (c *Clock) CheckFlag(now time.Time) (white, black bool) {
	return c.Flagged(board.White, now), c.Flagged(board.Black, now)
}
