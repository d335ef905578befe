// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// Default MPU9250 full-scale sensitivities (±2g, ±250°/s).
const (
	AccelCountsPerG   = 16384.0
	GyroCountsPerDegS = 131.0
)

// IMURaw represents a single raw IMU sample in sensor counts.
type IMURaw struct {
	Source string `json:"source"`

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

// GyroDegS returns the angular rates in degrees per second.
func (r IMURaw) GyroDegS() (gx, gy, gz float64) {
	return float64(r.Gx) / GyroCountsPerDegS,
		float64(r.Gy) / GyroCountsPerDegS,
		float64(r.Gz) / GyroCountsPerDegS
}
