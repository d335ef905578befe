// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/relabs-tech/hmdview/internal/orientation"
	"github.com/relabs-tech/hmdview/internal/sensors"
)

// imuTracker turns raw MPU9250 samples into a head orientation with a
// complementary filter. It has no positional tracking.
type imuTracker struct {
	reader sensors.IMURawReader
	now    func() time.Time

	mu     sync.Mutex
	filter *orientation.Filter
	last   time.Time
}

func newIMUDevice(name string, reader sensors.IMURawReader, alpha float64, now func() time.Time) Device {
	t := &imuTracker{reader: reader, now: now, filter: orientation.NewFilter(alpha)}
	return newDevice(name, TrackingCapOrientation, DefaultIPD, t)
}

// IMUProbe detects an MPU9250 on the given SPI device.
func IMUProbe(spiDev, csPin string, alpha float64, logger zerolog.Logger) Probe {
	return Probe{
		Name: "imu",
		Open: func(context.Context) (Device, error) {
			reader, err := sensors.NewIMUSource("head", spiDev, csPin, logger)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
			}
			return newIMUDevice("MPU9250 "+spiDev, reader, alpha, time.Now), nil
		},
	}
}

// start reads one sample so a dead bus fails tracking setup.
func (t *imuTracker) start() error {
	_, err := t.headPose()
	return err
}

func (t *imuTracker) headPose() (Posef, error) {
	raw, err := t.reader.ReadRaw()
	if err != nil {
		return Posef{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var dt float64
	if !t.last.IsZero() {
		dt = now.Sub(t.last).Seconds()
	}
	t.last = now

	euler := t.filter.Update(raw, dt)
	return Posef{Orientation: euler.Quat()}, nil
}

func (t *imuTracker) close() error { return nil }
