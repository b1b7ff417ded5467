package client

import (
	"fmt"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/bughouse"
	"github.com/tandemboard/bughouse/pkg/clock"
	"github.com/tandemboard/bughouse/pkg/wire"
)

// NotableEvent is what ClientState.ProcessServerEvent distills a raw server
// event down to, for a UI layer to react to without reading state directly.
type NotableEvent uint8

const (
	NoNotableEvent NotableEvent = iota
	GameStartedEvent
	OpponentTurnMadeEvent
)

// ContestStateKind discriminates ContestState.
type ContestStateKind uint8

const (
	Uninitialized ContestStateKind = iota
	InLobby
	InGame
)

// ContestState is the client's view of the contest lifecycle: no contest
// joined yet, seated in the lobby, or playing (or having just played) a
// game.
type ContestState struct {
	Kind ContestStateKind

	LobbyPlayers []wire.Player

	Scores   map[board.Team]uint32
	AltGame  *AlteredGame
	TimePair lang.Optional[clock.WallGameTimePair] // unset until the first turn is made
}

// ClientState drives the Uninitialized -> Lobby -> Game state machine from
// inbound server events, and emits outbound client events on an injected
// sink (normally a channel feeding the network writer thread).
type ClientState struct {
	myName string
	myTeam board.Team

	send func(wire.ClientEvent)

	contest ContestState
}

func NewClientState(myName string, myTeam board.Team, send func(wire.ClientEvent)) *ClientState {
	return &ClientState{myName: myName, myTeam: myTeam, send: send, contest: ContestState{Kind: Uninitialized}}
}

func (c *ClientState) MyName() string          { return c.myName }
func (c *ClientState) MyTeam() board.Team      { return c.myTeam }
func (c *ClientState) Contest() *ContestState  { return &c.contest }

func (c *ClientState) Join() {
	c.send(wire.JoinEvent{PlayerName: c.myName, Team: c.myTeam})
}

func (c *ClientState) Resign() { c.send(wire.ResignEvent{}) }
func (c *ClientState) Leave()  { c.send(wire.LeaveEvent{}) }
func (c *ClientState) NextGame() { c.send(wire.NextGameEvent{}) }
func (c *ClientState) Reset()  { c.send(wire.ResetEvent{}) }

// MakeTurn validates and speculatively applies turnAlgebraic locally before
// sending it to the server. The local check ignores whose turn it is, so a
// turn accepted here can still be rejected by the server.
func (c *ClientState) MakeTurn(turnAlgebraic string, now clock.GameInstant) error {
	if c.contest.Kind != InGame {
		return &TurnCommandError{NoGameInProgress: true}
	}
	if !c.contest.AltGame.Status().IsActive() {
		return &TurnCommandError{IllegalTurn: board.GameOver}
	}
	if err := c.contest.AltGame.TryLocalTurnAlgebraic(turnAlgebraic, now); err != nil {
		if te, ok := err.(board.TurnError); ok {
			return &TurnCommandError{IllegalTurn: te}
		}
		return &TurnCommandError{IllegalTurn: board.InvalidNotation}
	}
	c.send(wire.MakeTurnEvent{TurnAlgebraic: turnAlgebraic})
	return nil
}

// ProcessServerEvent applies one inbound server event, updating ContestState
// and returning a NotableEvent for the UI to react to.
func (c *ClientState) ProcessServerEvent(event wire.ServerEvent) (NotableEvent, error) {
	switch ev := event.(type) {
	case wire.ErrorEvent:
		return NoNotableEvent, &EventError{ServerReturnedError: ev.Message}

	case wire.LobbyUpdatedEvent:
		if c.contest.Kind == InLobby {
			c.contest.LobbyPlayers = ev.Players
		} else {
			c.contest = ContestState{Kind: InLobby, LobbyPlayers: ev.Players}
		}
		return NoNotableEvent, nil

	case wire.GameStartedEvent:
		game := startedGameWithGrid(ev)

		myId, ok := seatOf(ev.Players, c.myName)
		if !ok {
			return NoNotableEvent, &EventError{CannotApplyEvent: fmt.Sprintf("player %q not seated in GameStarted", c.myName)}
		}

		scores := map[board.Team]uint32{}
		for _, s := range ev.Scores {
			scores[s.Team] = s.Score
		}

		c.contest = ContestState{
			Kind:    InGame,
			Scores:  scores,
			AltGame: NewAlteredGame(myId, game),
		}

		for _, rec := range ev.TurnLog {
			if _, err := c.applyRemoteTurn(rec); err != nil {
				return NoNotableEvent, err
			}
		}
		return GameStartedEvent, nil

	case wire.TurnsMadeEvent:
		opponent := false
		for _, rec := range ev.Turns {
			isOpp, err := c.applyRemoteTurn(rec)
			if err != nil {
				return NoNotableEvent, err
			}
			opponent = opponent || isOpp
		}
		if opponent {
			return OpponentTurnMadeEvent, nil
		}
		return NoNotableEvent, nil

	case wire.GameOverEvent:
		if c.contest.Kind != InGame {
			return NoNotableEvent, &EventError{CannotApplyEvent: "cannot record game result: no game in progress"}
		}
		c.contest.AltGame.ResetLocalChanges()
		c.contest.AltGame.SetStatus(ev.Status)
		scores := map[board.Team]uint32{}
		for _, s := range ev.Scores {
			scores[s.Team] = s.Score
		}
		c.contest.Scores = scores
		return NoNotableEvent, nil

	default:
		return NoNotableEvent, &EventError{CannotApplyEvent: "unrecognized server event"}
	}
}

func (c *ClientState) applyRemoteTurn(rec wire.TurnRecord) (bool, error) {
	if c.contest.Kind != InGame {
		return false, &EventError{CannotApplyEvent: "cannot make turn: no game in progress"}
	}
	if !c.contest.AltGame.Status().IsActive() {
		return false, &EventError{CannotApplyEvent: fmt.Sprintf("cannot make turn %s: game over", rec.TurnAlgebraic)}
	}
	if _, ok := c.contest.TimePair.V(); !ok {
		c.contest.TimePair = lang.Some(clock.WallGameTimePair{Wall: time.Now(), Game: rec.Time})
	}

	isOpponent, err := c.contest.AltGame.ApplyRemoteTurnAlgebraic(rec.PlayerId, rec.TurnAlgebraic, rec.Time)
	if err != nil {
		return false, err
	}
	if rec.Status != c.contest.AltGame.Status() {
		return false, &EventError{CannotApplyEvent: fmt.Sprintf("expected game status %v, actual %v", rec.Status, c.contest.AltGame.Status())}
	}
	return isOpponent, nil
}

func seatOf(players []wire.SeatedPlayer, name string) (bughouse.BughousePlayerId, bool) {
	for _, p := range players {
		if p.Player.Name == name {
			return bughouse.BughousePlayerId{BoardIdx: p.BoardIdx, Force: p.Force}, true
		}
	}
	return bughouse.BughousePlayerId{}, false
}

// startedGameWithGrid rebuilds a BughouseGame from a GameStarted event's
// explicit starting grid, rather than generating a fresh one: the server is
// authoritative for Chess960 randomization, so the client must use exactly
// the grid it was sent, not regenerate its own.
func startedGameWithGrid(ev wire.GameStartedEvent) *bughouse.BughouseGame {
	rules := ev.ChessRules
	bhRules := ev.BughouseRules
	return &bughouse.BughouseGame{
		Boards: [2]*board.Board{
			board.NewBoard(&rules, &bhRules, ev.StartingGrid.Clone()),
			board.NewBoard(&rules, &bhRules, ev.StartingGrid.Clone()),
		},
		Clocks: [2]*clock.Clock{
			clock.NewClock(ev.Time),
			clock.NewClock(ev.Time),
		},
		Status:           board.Active(),
		StartingPosition: rules.StartingPosition,
	}
}
