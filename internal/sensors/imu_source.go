// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/hmdview/internal/imu"
)

// IMURawReader defines the interface for reading raw IMU data.
type IMURawReader interface {
	ReadRaw() (imu.IMURaw, error)
}

type imuSource struct {
	name string
	imu  *mpu9250.MPU9250
}

// NewIMUSource initializes an MPU9250 on the given SPI device and chip
// select pin. Self-test and calibration failures are logged, not fatal.
func NewIMUSource(name, spiDev, csPin string, logger zerolog.Logger) (IMURawReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%s IMU: periph host init: %w", name, err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("%s IMU: CS pin %q not found", name, csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("%s IMU: SPI transport (%s): %w", name, spiDev, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("%s IMU: device creation: %w", name, err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("%s IMU: initialization: %w", name, err)
	}

	if res, err := dev.SelfTest(); err != nil {
		logger.Warn().Err(err).Str("imu", name).Msg("self-test failed")
	} else {
		logger.Info().Str("imu", name).
			Float64("accel_dev_x", float64(res.AccelDeviation.X)).
			Float64("accel_dev_y", float64(res.AccelDeviation.Y)).
			Float64("accel_dev_z", float64(res.AccelDeviation.Z)).
			Float64("gyro_dev_x", float64(res.GyroDeviation.X)).
			Float64("gyro_dev_y", float64(res.GyroDeviation.Y)).
			Float64("gyro_dev_z", float64(res.GyroDeviation.Z)).
			Msg("self-test passed")
	}

	if err := dev.Calibrate(); err != nil {
		logger.Warn().Err(err).Str("imu", name).Msg("calibration failed")
	} else {
		logger.Info().Str("imu", name).Msg("calibration complete")
	}

	return &imuSource{name: name, imu: dev}, nil
}

// ReadRaw reads accelerometer and gyroscope counts.
func (s *imuSource) ReadRaw() (imu.IMURaw, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel X: %w", s.name, err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel Y: %w", s.name, err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel Z: %w", s.name, err)
	}

	gx, err := s.imu.GetRotationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro X: %w", s.name, err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro Y: %w", s.name, err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro Z: %w", s.name, err)
	}

	return imu.IMURaw{
		Source: s.name,
		Ax:     ax,
		Ay:     ay,
		Az:     az,
		Gx:     gx,
		Gy:     gy,
		Gz:     gz,
	}, nil
}
