// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// snapshot reads one eye pose and writes the rendered snapshot as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/hmdview/internal/app"
	"github.com/relabs-tech/hmdview/internal/apperrors"
	"github.com/relabs-tech/hmdview/internal/config"
	"github.com/relabs-tech/hmdview/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (built-in defaults when empty)")
	out := flag.String("o", "", "output PNG (SNAPSHOT_PATH when empty)")
	whole := flag.Bool("window", false, "write the whole window instead of the snapshot alone")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
	cfg := config.Get()
	logger := logging.NewConsole(cfg.LogLevel)

	path := *out
	if path == "" {
		path = cfg.SnapshotPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunSnapshot(ctx, cfg, logger, path, *whole); err != nil {
		logger.Error().Err(err).Msg("fatal")
		stop()
		os.Exit(apperrors.ExitCode(err))
	}
}
