// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Poller runs Task once after InitialDelay and then again Delay after
// each run completes. Runs never overlap and a slow task pushes the
// next run back instead of bunching runs up.
type Poller struct {
	InitialDelay time.Duration
	Delay        time.Duration
	Task         func(ctx context.Context) error

	// OnError is called with every task error. Polling continues.
	OnError func(error)
	Logger  zerolog.Logger
}

// Run polls until ctx is done. It returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	timer := time.NewTimer(p.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		if err := p.Task(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.Logger.Warn().Err(err).Msg("poll failed")
			if p.OnError != nil {
				p.OnError(err)
			}
		}

		timer.Reset(p.Delay)
	}
}
