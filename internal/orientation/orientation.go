// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is an Euler orientation in degrees.
// Yaw turns about the vertical axis, pitch about the lateral axis and
// roll about the forward axis.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Source is anything that can provide poses over time.
type Source interface {
	Next() (Pose, error)
}

// ComputePoseFromAccel computes roll and pitch from accelerometer data only.
// Yaw is 0: gravity carries no heading information.
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func ComputePoseFromAccel(ax, ay, az float64) Pose {
	rollRad := math.Atan2(ay, az)
	pitchRad := math.Atan2(-ax, math.Sqrt(ay*ay+az*az))

	return Pose{
		Roll:  mgl64.RadToDeg(rollRad),
		Pitch: mgl64.RadToDeg(pitchRad),
		Yaw:   0,
	}
}

// Quat converts the pose to a unit quaternion in a right-handed, Y-up frame
// looking down -Z (the headset tracking frame): yaw about +Y, then pitch
// about +X, then roll about +Z.
func (p Pose) Quat() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(p.Yaw), mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(mgl64.DegToRad(p.Pitch), mgl64.Vec3{1, 0, 0})
	roll := mgl64.QuatRotate(mgl64.DegToRad(p.Roll), mgl64.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// WrapDegrees maps an angle into (-180, 180].
func WrapDegrees(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg <= 0 {
		deg += 360
	}
	return deg - 180
}
