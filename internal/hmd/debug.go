// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/relabs-tech/hmdview/internal/orientation"
)

// debugTracker plays a synthetic head motion: the orientation mock
// source for rotation and a slow sway for position.
type debugTracker struct {
	src   orientation.Source
	now   func() time.Time
	epoch time.Time
}

// NewDebugDevice returns a synthetic headset. DK1 reports orientation
// only, DK2 adds positional tracking.
func NewDebugDevice(typ Type, now func() time.Time) (Device, error) {
	caps := TrackingCapOrientation | TrackingCapMagYawCorrection
	switch typ {
	case TypeDK1:
	case TypeDK2:
		caps |= TrackingCapPosition
	default:
		return nil, fmt.Errorf("debug HMD: unsupported type %s", typ)
	}
	t := &debugTracker{
		src:   orientation.NewMockSourceWithClock(now),
		now:   now,
		epoch: now(),
	}
	return newDevice("debug "+typ.String(), caps, DefaultIPD, t), nil
}

func (t *debugTracker) headPose() (Posef, error) {
	euler, err := t.src.Next()
	if err != nil {
		return Posef{}, err
	}
	s := t.now().Sub(t.epoch).Seconds()
	return Posef{
		Orientation: euler.Quat(),
		Position: mgl64.Vec3{
			0.02 * math.Sin(s*0.8),
			0.01 * math.Sin(s*1.1),
			0.015 * math.Sin(s*0.6),
		},
	}, nil
}

func (t *debugTracker) start() error { return nil }
func (t *debugTracker) close() error { return nil }
