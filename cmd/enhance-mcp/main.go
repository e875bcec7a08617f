// Command enhance-mcp exposes venue listing, prompt composition, style
// validation and angle detection as MCP tools over stdio.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/bootstrap"
	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/logging"
	"github.com/fpang/venue-enhance/internal/mcpserver"
)

var version = "dev"

func main() {
	logging.Init()
	// stdout carries the protocol; logs must stay on stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	e, err := bootstrap.Build(ctx, cfg, bootstrap.Options{
		Name:     "enhance-mcp",
		LocalDir: cfg.OutputDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build engine")
	}
	if err := mcpserver.Run(ctx, e, version); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("MCP server stopped")
	}
}
