// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

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
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
	cfg := config.Get()
	logger := logging.NewConsole(cfg.LogLevel)
	logger.Info().Msg("starting hmdview eye pose producer (HMD → MQTT)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunEyePoseProducer(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("fatal")
		stop()
		os.Exit(apperrors.ExitCode(err))
	}
}
