// bughouse is the CLI entrypoint for the engine: "server" runs an
// authoritative bughouse server, "client" connects a terminal client to
// one, and "stress-test" runs the pure-game/altered-game fuzz harnesses.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/tandemboard/bughouse/pkg/client"
	"github.com/tandemboard/bughouse/pkg/config"
	"github.com/tandemboard/bughouse/pkg/server"
	"github.com/tandemboard/bughouse/pkg/stress"
	"github.com/tandemboard/bughouse/pkg/wire"
	"github.com/tandemboard/bughouse/pkg/wstransport"
)

var version = build.NewVersion(0, 1, 0)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: bughouse <command> [options]

BUGHOUSE is an authoritative two-board, four-player bughouse chess server
and client.

Commands:
  server       run an authoritative bughouse server
  client       connect a terminal client to a server
  stress-test  run a fuzz-style load harness

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)

	switch cmd {
	case "server":
		runServer(ctx)
	case "client":
		runClient(ctx)
	case "stress-test":
		runStressTest(ctx)
	default:
		flag.Usage()
		logw.Exitf(ctx, "Unknown command %q", cmd)
	}
}

func runServer(ctx context.Context) {
	confPath := flag.String("config", "", "Path to a server TOML config file (defaults if absent)")
	flag.Parse()

	cfg := config.DefaultServerConfig()
	if *confPath != "" {
		loaded, err := config.LoadServerConfig(*confPath)
		if err != nil {
			logw.Exitf(ctx, "Load config: %v", err)
		}
		cfg = loaded
	}

	rules, err := cfg.ChessRules()
	if err != nil {
		logw.Exitf(ctx, "Chess rules: %v", err)
	}
	bhRules, err := cfg.BughouseRules()
	if err != nil {
		logw.Exitf(ctx, "Bughouse rules: %v", err)
	}

	clients := server.NewClients()
	state := server.NewServerState(clients, rules, bhRules, cfg.StartingTime, rand.New(rand.NewSource(time.Now().UnixNano())))

	logw.Infof(ctx, "Starting bughouse server version %v...", version)
	if err := server.Serve(ctx, cfg.Listen, state); err != nil {
		logw.Exitf(ctx, "Serve: %v", err)
	}
}

func runClient(ctx context.Context) {
	confPath := flag.String("config", "", "Path to a client TOML config file (defaults if absent)")
	flag.Parse()

	cfg := config.DefaultClientConfig()
	if *confPath != "" {
		loaded, err := config.LoadClientConfig(*confPath)
		if err != nil {
			logw.Exitf(ctx, "Load config: %v", err)
		}
		cfg = loaded
	}
	team, err := cfg.BoardTeam()
	if err != nil {
		logw.Exitf(ctx, "Team: %v", err)
	}

	conn, err := wstransport.Dial(cfg.ServerURL)
	if err != nil {
		logw.Exitf(ctx, "Dial %v: %v", cfg.ServerURL, err)
	}
	defer conn.Close()

	cs := client.NewClientState(cfg.PlayerName, team, func(ev wire.ClientEvent) {
		if err := conn.WriteEvent(ev); err != nil {
			logw.Warningf(ctx, "Write event: %v", err)
		}
	})
	cs.Join()

	go func() {
		for {
			ev, err := conn.ReadEvent()
			if err != nil {
				logw.Infof(ctx, "Connection closed: %v", err)
				os.Exit(0)
			}
			if _, err := cs.ProcessServerEvent(ev); err != nil {
				logw.Warningf(ctx, "Process server event: %v", err)
			}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := cs.MakeTurn(line, 0); err != nil {
			fmt.Fprintf(os.Stderr, "illegal turn: %v\n", err)
		}
	}
}

func runStressTest(ctx context.Context) {
	target := flag.String("target", "pure-game", "Stress test target: pure-game or altered-game")
	profileCPU := flag.Bool("profile", false, "Enable CPU profiling (writes cpu.pprof to the working directory)")
	flag.Parse()

	if *profileCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	switch *target {
	case "pure-game":
		for {
			stats := stress.RunPureGameBatch(rng, stress.DefaultPureGameConfig())
			logw.Infof(ctx, "Ran %v games (%v finished), %v turns (%v successful) in %.2fs",
				stats.Games, stats.FinishedGames, stats.TotalTurns, stats.SuccessfulTurns, stats.Elapsed.Seconds())
		}
	case "altered-game":
		for {
			stats := stress.RunAlteredGameBatch(rng, stress.DefaultAlteredGameConfig())
			logw.Infof(ctx, "Ran %v games (%v finished) in %.2fs", stats.Games, stats.FinishedGames, stats.Elapsed.Seconds())
		}
	default:
		logw.Exitf(ctx, "Invalid stress test target: %v", *target)
	}
}
