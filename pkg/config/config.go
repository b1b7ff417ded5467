// Package config holds the TOML-file configuration for the server and
// client binaries: starting time, chess/bughouse rule variants and network
// addressing, loaded with github.com/BurntSushi/toml the same way the
// pack's FrankyGo engine loads its search/eval tuning from config.toml.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tandemboard/bughouse/pkg/board"
)

// ServerConfig configures a running bughouse server.
type ServerConfig struct {
	Listen string `toml:"listen"`

	StartingPosition string        `toml:"starting_position"` // "classic" or "fischer_random"
	StartingTime     time.Duration `toml:"starting_time"`

	MinPawnDropRow int    `toml:"min_pawn_drop_row"`
	MaxPawnDropRow int    `toml:"max_pawn_drop_row"`
	DropAggression string `toml:"drop_aggression"` // "no_check", "no_chess_mate", "no_bughouse_mate", "mate_allowed"
}

// DefaultServerConfig mirrors chess.com-style bughouse rules: drops may not
// deliver bughouse-mate, standard pawn drop rows, five-minute starting
// time.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Listen:           ":8080",
		StartingPosition: "classic",
		StartingTime:     5 * time.Minute,
		MinPawnDropRow:   2,
		MaxPawnDropRow:   7,
		DropAggression:   "no_bughouse_mate",
	}
}

// LoadServerConfig reads path as TOML over DefaultServerConfig, so a config
// file only needs to override the fields it cares about.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("load server config %s: %w", path, err)
	}
	return cfg, nil
}

// ChessRules resolves the string-keyed TOML fields into board.ChessRules.
func (c ServerConfig) ChessRules() (board.ChessRules, error) {
	switch c.StartingPosition {
	case "classic", "":
		return board.ChessRules{StartingPosition: board.Classic}, nil
	case "fischer_random":
		return board.ChessRules{StartingPosition: board.FischerRandom}, nil
	default:
		return board.ChessRules{}, fmt.Errorf("unknown starting_position %q", c.StartingPosition)
	}
}

// BughouseRules resolves the string-keyed TOML fields into board.BughouseRules.
func (c ServerConfig) BughouseRules() (board.BughouseRules, error) {
	aggression, err := parseDropAggression(c.DropAggression)
	if err != nil {
		return board.BughouseRules{}, err
	}
	return board.BughouseRules{
		MinPawnDropRow: board.NewSubjectiveRow(c.MinPawnDropRow),
		MaxPawnDropRow: board.NewSubjectiveRow(c.MaxPawnDropRow),
		DropAggression: aggression,
	}, nil
}

func parseDropAggression(s string) (board.DropAggression, error) {
	switch s {
	case "no_check":
		return board.NoCheck, nil
	case "no_chess_mate":
		return board.NoChessMate, nil
	case "no_bughouse_mate", "":
		return board.NoBughouseMate, nil
	case "mate_allowed":
		return board.MateAllowed, nil
	default:
		return 0, fmt.Errorf("unknown drop_aggression %q", s)
	}
}

// ClientConfig configures a client binary connecting to a server.
type ClientConfig struct {
	ServerURL  string `toml:"server_url"`
	PlayerName string `toml:"player_name"`
	Team       string `toml:"team"` // "red" or "blue"
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{ServerURL: "ws://localhost:8080/ws"}
}

func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("load client config %s: %w", path, err)
	}
	return cfg, nil
}

func (c ClientConfig) BoardTeam() (board.Team, error) {
	switch c.Team {
	case "red", "":
		return board.Red, nil
	case "blue":
		return board.Blue, nil
	default:
		return 0, fmt.Errorf("unknown team %q", c.Team)
	}
}
