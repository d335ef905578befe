// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t0 time.Time) (func() time.Time, func(time.Duration)) {
	now := t0
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestDebugDevice_Tracking(t *testing.T) {
	now, _ := fixedClock(time.Unix(100, 0))
	dev, err := NewDebugDevice(TypeDK2, now)
	require.NoError(t, err)

	_, err = dev.EyePose(EyeLeft)
	assert.ErrorIs(t, err, ErrNotTracking)

	require.NoError(t, dev.ConfigureTracking(TrackingCapOrientation|TrackingCapPosition, 0))

	left, err := dev.EyePose(EyeLeft)
	require.NoError(t, err)
	right, err := dev.EyePose(EyeRight)
	require.NoError(t, err)

	assert.InDelta(t, DefaultIPD, right.Position.Sub(left.Position).Len(), 1e-12)
	assert.Equal(t, left.Orientation, right.Orientation)
}

func TestDebugDevice_DK1HasNoPosition(t *testing.T) {
	now, _ := fixedClock(time.Unix(0, 0))
	dev, err := NewDebugDevice(TypeDK1, now)
	require.NoError(t, err)

	err = dev.ConfigureTracking(TrackingCapOrientation, TrackingCapPosition)
	assert.ErrorContains(t, err, "missing required tracking caps position")

	require.NoError(t, dev.ConfigureTracking(TrackingCapOrientation|TrackingCapPosition, 0))
	left, err := dev.EyePose(EyeLeft)
	require.NoError(t, err)
	right, err := dev.EyePose(EyeRight)
	require.NoError(t, err)

	// Only the eye offset remains, symmetric around the origin.
	sum := left.Position.Add(right.Position)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, sum[:], 1e-12)
}

func TestDevice_DestroyIsIdempotent(t *testing.T) {
	now, _ := fixedClock(time.Unix(0, 0))
	dev, err := NewDebugDevice(TypeDK2, now)
	require.NoError(t, err)

	require.NoError(t, dev.Destroy())
	require.NoError(t, dev.Destroy())
	assert.ErrorIs(t, dev.ConfigureTracking(TrackingCapOrientation, 0), ErrDestroyed)
}

func TestEyePoseOffsetFollowsHead(t *testing.T) {
	head := Posef{Orientation: mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0})}
	left := eyePose(head, EyeLeft, 0.06)
	// Head turned left: its own +X now points to -Z, so the left eye sits at +Z.
	assert.InDeltaSlice(t, []float64{0, 0, 0.03}, left.Position[:], 1e-12)
}

func TestPosefJSON(t *testing.T) {
	p := Posef{
		Orientation: mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, -0.5, 0.5}},
		Position:    mgl64.Vec3{0.1, -0.2, 0.3},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"orientation":{"w":0.5,"x":0.5,"y":-0.5,"z":0.5},"position":{"x":0.1,"y":-0.2,"z":0.3}}`, string(data))

	var empty Posef
	require.NoError(t, json.Unmarshal([]byte(`{"position":{"x":1}}`), &empty))
	assert.Equal(t, mgl64.QuatIdent(), empty.Orientation)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, empty.Position)
}

func TestParseTypeAndCaps(t *testing.T) {
	typ, err := ParseType(" dk1 ")
	require.NoError(t, err)
	assert.Equal(t, TypeDK1, typ)
	_, err = ParseType("CV1")
	assert.Error(t, err)

	assert.Equal(t, "orientation|position", (TrackingCapOrientation | TrackingCapPosition).String())
	assert.Equal(t, "none", TrackingCaps(0).String())
	assert.Equal(t, "right", EyeRight.String())
}
