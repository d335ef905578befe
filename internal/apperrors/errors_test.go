// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", base, ExitErrorGeneric},
		{"config", ConfigError{Err: base}, ExitErrorConfig},
		{"wrapped device", fmt.Errorf("viewer: %w", DeviceError{Op: "create", Err: base}), ExitErrorDevice},
		{"canceled", fmt.Errorf("poll: %w", context.Canceled), ExitErrorCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestDeviceError_Unwrap(t *testing.T) {
	base := errors.New("unable to start the sensor")
	err := DeviceError{Op: "configure tracking", Err: base}

	assert.ErrorIs(t, err, base)
	assert.Equal(t, "hmd configure tracking: unable to start the sensor", err.Error())
	assert.Equal(t, "config: boom", ConfigError{Err: errors.New("boom")}.Error())
}
