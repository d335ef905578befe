// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package apperrors holds the exit codes and typed errors the mains report.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorConfig   = 4
	ExitErrorDevice   = 5
	ExitErrorCanceled = 130
)

// ConfigError reports an unusable configuration.
type ConfigError struct {
	Err error
}

func (e ConfigError) Error() string { return "config: " + e.Err.Error() }
func (e ConfigError) Unwrap() error { return e.Err }

// DeviceError reports a headset startup failure. Op names the step
// ("initialize", "create", "configure tracking").
type DeviceError struct {
	Op  string
	Err error
}

func (e DeviceError) Error() string { return fmt.Sprintf("hmd %s: %v", e.Op, e.Err) }
func (e DeviceError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a Run* function to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr ConfigError
	var devErr DeviceError
	switch {
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &devErr):
		return ExitErrorDevice
	default:
		return ExitErrorGeneric
	}
}
