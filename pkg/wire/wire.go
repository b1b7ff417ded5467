// Package wire defines the client<->server event protocol: a bidirectional
// stream of typed events exchanged over a transport (WebSocket in
// production; package wstransport adapts gorilla/websocket to package
// server's Conn interface). JSON-tagged so the transport can marshal them
// directly -- a closed set of commands, one struct per kind.
package wire

import (
	"time"

	"github.com/tandemboard/bughouse/pkg/board"
	"github.com/tandemboard/bughouse/pkg/bughouse"
	"github.com/tandemboard/bughouse/pkg/clock"
)

// Player is a participant's identity and score-relevant metadata, shared by
// the lobby roster and the seated-player list of GameStarted.
type Player struct {
	Name string     `json:"name"`
	Team board.Team `json:"team"`
}

// SeatedPlayer assigns a Player to one of the four bughouse seats.
type SeatedPlayer struct {
	Player   Player              `json:"player"`
	BoardIdx bughouse.BughouseBoard `json:"boardIdx"`
	Force    board.Force         `json:"force"`
}

// TeamScore is one team's running match score, in whole points (wins count
// 1, draws are not halved here -- BPGN export, not modeled in this
// package, is responsible for the 1/2-1/2 notation).
type TeamScore struct {
	Team  board.Team `json:"team"`
	Score uint32     `json:"score"`
}

// TurnRecord is a confirmed turn as broadcast to clients: who made it, in
// what notation, when (game time), and the resulting aggregate status --
// enough for a client to both replay the turn and cross-check its
// own derived state against the server's.
type TurnRecord struct {
	PlayerId      bughouse.BughousePlayerId `json:"playerId"`
	TurnAlgebraic string                    `json:"turnAlgebraic"`
	Time          clock.GameInstant         `json:"time"`
	Status        board.GameStatus          `json:"status"`
}

// ClientEvent is the sum type of client->server messages.
type ClientEvent interface{ isClientEvent() }

type JoinEvent struct {
	PlayerName string     `json:"playerName"`
	Team       board.Team `json:"team"`
}

type MakeTurnEvent struct {
	TurnAlgebraic string `json:"turnAlgebraic"`
}

type ResignEvent struct{}
type LeaveEvent struct{}
type NextGameEvent struct{}
type ResetEvent struct{}

func (JoinEvent) isClientEvent()     {}
func (MakeTurnEvent) isClientEvent() {}
func (ResignEvent) isClientEvent()   {}
func (LeaveEvent) isClientEvent()    {}
func (NextGameEvent) isClientEvent() {}
func (ResetEvent) isClientEvent()    {}

// ServerEvent is the sum type of server->client messages.
type ServerEvent interface{ isServerEvent() }

type ErrorEvent struct {
	Message string `json:"message"`
}

type LobbyUpdatedEvent struct {
	Players []Player `json:"players"`
}

type GameStartedEvent struct {
	ChessRules    board.ChessRules     `json:"chessRules"`
	BughouseRules board.BughouseRules  `json:"bughouseRules"`
	Scores        []TeamScore          `json:"scores"`
	StartingGrid  board.Grid           `json:"startingGrid"`
	Players       []SeatedPlayer       `json:"players"`
	Time          time.Duration        `json:"time"`
	TurnLog       []TurnRecord         `json:"turnLog"`
}

type TurnsMadeEvent struct {
	Turns []TurnRecord `json:"turns"`
}

type GameOverEvent struct {
	Time   clock.GameInstant `json:"time"`
	Status board.GameStatus  `json:"status"`
	Scores []TeamScore       `json:"scores"`
}

func (ErrorEvent) isServerEvent()        {}
func (LobbyUpdatedEvent) isServerEvent() {}
func (GameStartedEvent) isServerEvent()  {}
func (TurnsMadeEvent) isServerEvent()    {}
func (GameOverEvent) isServerEvent()     {}
