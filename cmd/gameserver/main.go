// Package main provides the game server binary that accepts TCP clients
// speaking the JSON line protocol.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/JSW0303/Gomoku/internal/config"
	"github.com/JSW0303/Gomoku/internal/game/room"
	"github.com/JSW0303/Gomoku/internal/game/rules"
	"github.com/JSW0303/Gomoku/internal/gameserver"
	"github.com/JSW0303/Gomoku/internal/observability"
	"github.com/JSW0303/Gomoku/internal/server"
	"github.com/JSW0303/Gomoku/internal/transport"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	rulesPath := flag.String("rules", "", "path to rules YAML file; overrides the configured one")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("addr", cfg.Server.Addr()),
	)

	// Load game rules
	rulesFile := cfg.Rules.File
	if *rulesPath != "" {
		rulesFile = *rulesPath
	}
	gameRules := rules.Standard()
	if rulesFile != "" {
		gameRules, err = rules.LoadFromFile(rulesFile)
		if err != nil {
			logger.Fatal("loading rules", zap.String("file", rulesFile), zap.Error(err))
		}
	}
	logger.Info("rules loaded",
		zap.Int("board_size", gameRules.BoardSize),
		zap.Int("win_length", gameRules.WinLength),
	)

	registry := room.NewRegistry(gameRules, logger)
	srv := gameserver.NewServer(registry, logger)
	acceptor := transport.NewAcceptor(cfg.Server, srv, logger)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("tcp", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("addr", cfg.Server.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
