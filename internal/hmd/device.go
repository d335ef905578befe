// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// tracker is what a backend has to provide: the current head pose.
type tracker interface {
	headPose() (Posef, error)
	start() error
	close() error
}

// device adapts a tracker to the Device contract: capability checks,
// eye offsets and an idempotent Destroy.
type device struct {
	name string
	caps TrackingCaps
	ipd  float64
	src  tracker

	mu        sync.Mutex
	tracking  TrackingCaps
	started   bool
	destroyed bool
}

func newDevice(name string, caps TrackingCaps, ipd float64, src tracker) *device {
	return &device{name: name, caps: caps, ipd: ipd, src: src}
}

func (d *device) Name() string       { return d.name }
func (d *device) Caps() TrackingCaps { return d.caps }

func (d *device) ConfigureTracking(supported, required TrackingCaps) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destroyed {
		return ErrDestroyed
	}
	if missing := required &^ d.caps; missing != 0 {
		return fmt.Errorf("%s: missing required tracking caps %s", d.name, missing)
	}
	if !d.started {
		if err := d.src.start(); err != nil {
			return fmt.Errorf("%s: start sensor: %w", d.name, err)
		}
		d.started = true
	}
	d.tracking = supported & d.caps
	return nil
}

func (d *device) EyePose(eye Eye) (Posef, error) {
	d.mu.Lock()
	destroyed, tracking := d.destroyed, d.tracking
	d.mu.Unlock()

	if destroyed {
		return Posef{}, ErrDestroyed
	}
	if tracking == 0 {
		return Posef{}, ErrNotTracking
	}

	head, err := d.src.headPose()
	if err != nil {
		return Posef{}, fmt.Errorf("%s: %w", d.name, err)
	}
	if tracking&TrackingCapPosition == 0 {
		head.Position = mgl64.Vec3{}
	}
	return eyePose(head, eye, d.ipd), nil
}

func (d *device) Destroy() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destroyed {
		return nil
	}
	d.destroyed = true
	d.tracking = 0
	return d.src.close()
}
