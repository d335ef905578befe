// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_FixedDelay(t *testing.T) {
	const (
		initial = 30 * time.Millisecond
		delay   = 10 * time.Millisecond
		work    = 15 * time.Millisecond
	)

	var (
		mu     sync.Mutex
		starts []time.Time
		ends   []time.Time
	)
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		InitialDelay: initial,
		Delay:        delay,
		Logger:       zerolog.Nop(),
		Task: func(context.Context) error {
			mu.Lock()
			starts = append(starts, time.Now())
			n := len(starts)
			mu.Unlock()

			time.Sleep(work)

			mu.Lock()
			ends = append(ends, time.Now())
			mu.Unlock()
			if n == 4 {
				cancel()
			}
			return nil
		},
	}

	begin := time.Now()
	require.NoError(t, p.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, starts, 4)
	assert.GreaterOrEqual(t, starts[0].Sub(begin), initial)
	for i := 1; i < len(starts); i++ {
		// measured from the end of the previous run, not its start
		assert.GreaterOrEqual(t, starts[i].Sub(ends[i-1]), delay, "run %d", i)
	}
}

func TestPoller_ErrorsDoNotStopPolling(t *testing.T) {
	var runs, errs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	p := &Poller{
		InitialDelay: time.Millisecond,
		Delay:        time.Millisecond,
		Logger:       zerolog.Nop(),
		OnError:      func(error) { errs.Add(1) },
		Task: func(context.Context) error {
			if runs.Add(1) >= 5 {
				cancel()
			}
			return errors.New("no pose")
		},
	}

	require.NoError(t, p.Run(ctx))
	assert.Equal(t, int32(5), runs.Load())
	assert.Equal(t, int32(4), errs.Load(), "error from the cancelling run is not reported")
}

func TestPoller_StopsBeforeFirstRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Poller{
		InitialDelay: time.Hour,
		Logger:       zerolog.Nop(),
		Task: func(context.Context) error {
			t.Fatal("task ran after cancel")
			return nil
		},
	}
	assert.NoError(t, p.Run(ctx))
}
