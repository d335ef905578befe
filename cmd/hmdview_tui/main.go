// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// hmdview_tui is hmdview with the snapshot pane drawn in the terminal.
// Press q to close.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
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
	logPath := flag.String("log", "", "write logs to this file (the terminal is taken by the viewer)")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
	cfg := config.Get()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(apperrors.ExitErrorGeneric)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(logOut, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunTerminalViewer(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("fatal")
		fmt.Fprintf(os.Stderr, "hmdview_tui: %v\n", err)
		stop()
		os.Exit(apperrors.ExitCode(err))
	}
}
