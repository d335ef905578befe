// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"github.com/relabs-tech/hmdview/internal/imu"
)

// Filter is a complementary filter: gyro rates are integrated every
// update and roll/pitch are pulled towards the accelerometer tilt with
// weight 1-Alpha. Yaw is gyro only and drifts.
type Filter struct {
	Alpha float64

	pose        Pose
	initialized bool
}

// NewFilter returns a filter with the given gyro weight in [0,1].
func NewFilter(alpha float64) *Filter {
	return &Filter{Alpha: alpha}
}

// Update folds one raw sample taken dt seconds after the previous one.
// The first sample seeds roll/pitch from the accelerometer.
func (f *Filter) Update(raw imu.IMURaw, dt float64) Pose {
	acc := ComputePoseFromAccel(float64(raw.Ax), float64(raw.Ay), float64(raw.Az))
	if !f.initialized {
		f.pose = acc
		f.initialized = true
		return f.pose
	}
	if dt < 0 {
		dt = 0
	}

	gx, gy, gz := raw.GyroDegS()
	roll := f.pose.Roll + gx*dt
	pitch := f.pose.Pitch + gy*dt

	f.pose = Pose{
		Roll:  WrapDegrees(roll + (1-f.Alpha)*WrapDegrees(acc.Roll-roll)),
		Pitch: WrapDegrees(pitch + (1-f.Alpha)*WrapDegrees(acc.Pitch-pitch)),
		Yaw:   WrapDegrees(f.pose.Yaw + gz*dt),
	}
	return f.pose
}

// Pose returns the last filtered pose.
func (f *Filter) Pose() Pose {
	return f.pose
}

// Reset forgets the filter state.
func (f *Filter) Reset() {
	f.pose = Pose{}
	f.initialized = false
}
