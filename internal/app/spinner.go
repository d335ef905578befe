// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// withSpinner runs fn, showing a spinner on stderr while it blocks.
func withSpinner(enabled bool, suffix string, fn func() error) error {
	if !enabled {
		return fn()
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	s.Start()
	defer s.Stop()
	return fn()
}
