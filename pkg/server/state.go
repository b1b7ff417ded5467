// Package server is the authoritative contest driver: a connection
// registry plus a single-consumer state machine that applies inbound
// network and tick events to a bughouse.BughouseGame and broadcasts the
// resulting wire.ServerEvents. Events arrive serially on one channel fed
// by the per-connection readers and a tick producer, so the state machine
// itself never needs locking.
//
// Seating here is intentionally minimal -- the first two joiners of each team
// fill the four seats -- since anything more (matchmaking,
// ranked queues, rebalancing) is explicitly out of this engine's scope; the
// point of this package is to exercise the rules core and wire protocol
// under a real concurrency model, not to implement a lobby product.
package server

import (
	"context"
	"math/rand"
	"time"

	"github.com/seekerror/logw"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/board/algebraic"
	"github.com/tandemboard/bughouse/pkg/bughouse"
	"github.com/tandemboard/bughouse/pkg/clock"
	"github.com/tandemboard/bughouse/pkg/wire"
)

// seats lists the four BughousePlayerId slots in fixed assignment order:
// two per team, in the team order Red, Blue, Blue, Red.
var seats = [4]bughouse.BughousePlayerId{
	{BoardIdx: bughouse.BoardA, Force: board.White}, // Red
	{BoardIdx: bughouse.BoardA, Force: board.Black}, // Blue
	{BoardIdx: bughouse.BoardB, Force: board.White}, // Blue
	{BoardIdx: bughouse.BoardB, Force: board.Black}, // Red
}

type participant struct {
	client ClientID
	name   string
	team   board.Team
	seat   bughouse.BughousePlayerId
}

// ServerState owns everything touched by the consumer task: the lobby
// roster, the active game (if any), per-seat client mapping and running
// scores. Not thread-safe by design -- only ApplyEvent, called serially
// from Run, may touch it.
type ServerState struct {
	clients *Clients

	rules         board.ChessRules
	bughouseRules board.BughouseRules
	startingTime  time.Duration
	rng           *rand.Rand

	lobby []participant // join order, pre-game

	game      *bughouse.BughouseGame
	gameStart time.Time // wall-clock anchor for GameInstant <-> Clock conversion
	seated    []participant // the four participants of the current/last game
	scores    map[board.Team]uint32
}

// NewServerState creates an empty lobby, ready to accept joins.
func NewServerState(clients *Clients, rules board.ChessRules, bughouseRules board.BughouseRules, startingTime time.Duration, rng *rand.Rand) *ServerState {
	return &ServerState{
		clients:       clients,
		rules:         rules,
		bughouseRules: bughouseRules,
		startingTime:  startingTime,
		rng:           rng,
		scores:        make(map[board.Team]uint32),
	}
}

// Run consumes events serially until ctx is cancelled or events closes.
func (s *ServerState) Run(ctx context.Context, events <-chan IncomingEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				logw.Infof(ctx, "Event stream closed, server state task exiting")
				return
			}
			s.ApplyEvent(ctx, ev)
		case <-ctx.Done():
			logw.Infof(ctx, "Server state task cancelled")
			return
		}
	}
}

// ApplyEvent applies one IncomingEvent. Exported so tests can drive the
// state machine without a running event loop.
func (s *ServerState) ApplyEvent(ctx context.Context, ev IncomingEvent) {
	switch {
	case ev.Network != nil:
		s.applyNetworkEvent(ctx, ev.Network)
	case ev.Tick != nil:
		s.applyTick(ev.Tick.Now)
	}
}

func (s *ServerState) applyNetworkEvent(ctx context.Context, ev *NetworkEvent) {
	switch cev := ev.Event.(type) {
	case wire.JoinEvent:
		s.join(ctx, ev.Client, cev.PlayerName, cev.Team)
	case wire.MakeTurnEvent:
		s.makeTurn(ctx, ev.Client, cev.TurnAlgebraic)
	case wire.ResignEvent:
		s.resign(ctx, ev.Client)
	case wire.LeaveEvent:
		s.leave(ctx, ev.Client)
	case wire.NextGameEvent:
		s.nextGame(ctx)
	case wire.ResetEvent:
		s.reset(ctx)
	default:
		logw.Warningf(ctx, "Client %v: unrecognized event %T", ev.Client, ev.Event)
	}
}

func (s *ServerState) join(ctx context.Context, id ClientID, name string, team board.Team) {
	if s.game != nil {
		s.clients.Send(id, wire.ErrorEvent{Message: "a game is already in progress"})
		return
	}
	for _, p := range s.lobby {
		if p.client == id {
			return // already joined
		}
	}
	s.lobby = append(s.lobby, participant{client: id, name: name, team: team})
	s.broadcastLobby()

	if len(s.lobby) >= 4 {
		s.startGame(ctx)
	}
}

func (s *ServerState) broadcastLobby() {
	players := make([]wire.Player, len(s.lobby))
	for i, p := range s.lobby {
		players[i] = wire.Player{Name: p.name, Team: p.team}
	}
	s.clients.Broadcast(wire.LobbyUpdatedEvent{Players: players})
}

// startGame seats the first two Red and the first two Blue lobby joiners
// (Red, Blue, Blue, Red, in the order of `seats`) and deals a fresh
// BughouseGame. It does nothing while either team has fewer than two joiners.
func (s *ServerState) startGame(ctx context.Context) {
	red := make([]participant, 0, 2)
	blue := make([]participant, 0, 2)
	for _, p := range s.lobby {
		if p.team == board.Red && len(red) < 2 {
			red = append(red, p)
		} else if p.team == board.Blue && len(blue) < 2 {
			blue = append(blue, p)
		}
	}
	if len(red) < 2 || len(blue) < 2 {
		return // not enough players per team yet
	}

	seated := []participant{red[0], blue[0], blue[1], red[1]}
	for i := range seated {
		seated[i].seat = seats[i]
	}
	s.seated = seated
	s.lobby = nil

	s.game = bughouse.NewBughouseGame(s.rules, s.bughouseRules, s.startingTime, s.rng)
	s.gameStart = time.Now()
	for _, c := range s.game.Clocks {
		c.Start(board.White, s.gameStart)
	}

	logw.Infof(ctx, "Game started: %v", s.seated)
	s.clients.Broadcast(s.gameStartedEvent())
}

func (s *ServerState) gameStartedEvent() wire.GameStartedEvent {
	players := make([]wire.SeatedPlayer, len(s.seated))
	for i, p := range s.seated {
		players[i] = wire.SeatedPlayer{
			Player:   wire.Player{Name: p.name, Team: p.team},
			BoardIdx: p.seat.BoardIdx,
			Force:    p.seat.Force,
		}
	}
	return wire.GameStartedEvent{
		ChessRules:    s.rules,
		BughouseRules: s.bughouseRules,
		Scores:        s.scoresSnapshot(),
		StartingGrid:  *s.game.Boards[bughouse.BoardA].Grid(),
		Players:       players,
		Time:          s.startingTime,
	}
}

func (s *ServerState) scoresSnapshot() []wire.TeamScore {
	return []wire.TeamScore{
		{Team: board.Red, Score: s.scores[board.Red]},
		{Team: board.Blue, Score: s.scores[board.Blue]},
	}
}

func (s *ServerState) seatOf(id ClientID) (bughouse.BughousePlayerId, bool) {
	for _, p := range s.seated {
		if p.client == id {
			return p.seat, true
		}
	}
	return bughouse.BughousePlayerId{}, false
}

func (s *ServerState) makeTurn(ctx context.Context, id ClientID, notation string) {
	if s.game == nil {
		s.clients.Send(id, wire.ErrorEvent{Message: "no game in progress"})
		return
	}
	playerID, ok := s.seatOf(id)
	if !ok {
		s.clients.Send(id, wire.ErrorEvent{Message: "not seated in the current game"})
		return
	}

	b := s.game.Boards[playerID.BoardIdx]
	if b.ActiveForce() != playerID.Force {
		s.clients.Send(id, wire.ErrorEvent{Message: "not your turn"})
		return
	}

	turn, err := algebraic.Parse(b, notation)
	if err != nil {
		s.clients.Send(id, wire.ErrorEvent{Message: err.Error()})
		return
	}

	now := s.gameInstant(time.Now())
	if err := s.game.TryTurn(playerID, turn, now); err != nil {
		s.clients.Send(id, wire.ErrorEvent{Message: err.Error()})
		return
	}

	s.game.Clocks[playerID.BoardIdx].Flip(time.Now(), b.ActiveForce())

	rec := s.game.TurnLog[len(s.game.TurnLog)-1]
	s.clients.Broadcast(wire.TurnsMadeEvent{Turns: []wire.TurnRecord{{
		PlayerId:      rec.PlayerId,
		TurnAlgebraic: rec.Algebraic,
		Time:          rec.Time,
		Status:        rec.Status,
	}}})

	if !s.game.Status.IsActive() {
		s.endGame(ctx)
	}
}

func (s *ServerState) gameInstant(wall time.Time) clock.GameInstant {
	return clock.GameInstant(wall.Sub(s.gameStart))
}

func (s *ServerState) resign(ctx context.Context, id ClientID) {
	if s.game == nil || !s.game.Status.IsActive() {
		return
	}
	playerID, ok := s.seatOf(id)
	if !ok {
		return
	}
	s.game.Status = board.Victory(playerID.Team().Opponent(), board.Resignation)
	s.endGame(ctx)
}

func (s *ServerState) leave(ctx context.Context, id ClientID) {
	for i, p := range s.lobby {
		if p.client == id {
			s.lobby = append(s.lobby[:i], s.lobby[i+1:]...)
			s.broadcastLobby()
			return
		}
	}
	s.resign(ctx, id)
}

func (s *ServerState) endGame(ctx context.Context) {
	for _, c := range s.game.Clocks {
		c.Stop(time.Now())
	}
	if outcome := s.game.Status.Outcome; outcome == board.OutcomeRedWins {
		s.scores[board.Red]++
	} else if outcome == board.OutcomeBlueWins {
		s.scores[board.Blue]++
	}

	logw.Infof(ctx, "Game over: %v", s.game.Status)
	s.clients.Broadcast(wire.GameOverEvent{
		Time:   s.gameInstant(time.Now()),
		Status: s.game.Status,
		Scores: s.scoresSnapshot(),
	})
}

// nextGame re-deals with the same four seated players, keeping scores.
func (s *ServerState) nextGame(ctx context.Context) {
	if s.game == nil || s.game.Status.IsActive() || len(s.seated) != 4 {
		return
	}
	s.game = bughouse.NewBughouseGame(s.rules, s.bughouseRules, s.startingTime, s.rng)
	s.gameStart = time.Now()
	for _, c := range s.game.Clocks {
		c.Start(board.White, s.gameStart)
	}
	logw.Infof(ctx, "Next game started")
	s.clients.Broadcast(s.gameStartedEvent())
}

// reset clears scores and returns everyone to the lobby.
func (s *ServerState) reset(ctx context.Context) {
	s.game = nil
	s.scores = make(map[board.Team]uint32)
	s.lobby = s.seated
	s.seated = nil
	logw.Infof(ctx, "Contest reset")
	s.broadcastLobby()
}

func (s *ServerState) applyTick(now time.Time) {
	if s.game == nil || !s.game.Status.IsActive() {
		return
	}
	s.game.CheckFlags(now)
	if !s.game.Status.IsActive() {
		s.endGame(context.Background())
	}
}
