// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/hmdview/internal/config"
	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/scene"
)

func TestFormatEyePoseMessage(t *testing.T) {
	payload, err := json.Marshal(hmd.Posef{Orientation: mgl64.QuatIdent(), Position: mgl64.Vec3{0.5, 0, -0.25}})
	require.NoError(t, err)

	line, err := formatEyePoseMessage(payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "[POSE] "))
	assert.Contains(t, line, "W= 1.000")
	assert.Contains(t, line, "P=( 0.500  0.000 -0.250)")

	_, err = formatEyePoseMessage([]byte("{"))
	assert.Error(t, err)
}

func TestFormatCameraMessage(t *testing.T) {
	payload, err := json.Marshal(CameraMessage{
		Seq:    7,
		Pose:   hmd.IdentityPose(),
		Camera: scene.State{Rotate: 30, RotationAxis: [3]float64{0, -1, 0}},
	})
	require.NoError(t, err)

	line, err := formatCameraMessage(payload)
	require.NoError(t, err)
	assert.Contains(t, line, "#7")
	assert.Contains(t, line, "ROT= 30.00°")
	assert.Contains(t, line, "AXIS=( 0.000 -1.000  0.000)")
}

func TestRunMockConsole(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	require.NoError(t, RunMockConsole(ctx, config.Defaults(), &out, 10*time.Millisecond))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.GreaterOrEqual(t, len(lines), 2)
	for _, line := range lines {
		assert.Contains(t, line, "ROT=")
	}
}

func TestRunEyePoseProducer_RejectsMQTTSource(t *testing.T) {
	cfg := config.Defaults()
	cfg.HMDSource = config.SourceMQTT
	assert.Error(t, RunEyePoseProducer(context.Background(), cfg, zerolog.Nop()))
}
