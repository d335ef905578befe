// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/relabs-tech/hmdview/internal/config"
)

// ProbesFromConfig returns the probes selected by HMD_SOURCE. "auto"
// looks for local hardware only (IMU, then serial tracker); "none"
// returns no probe so Setup always falls back to the debug headset.
func ProbesFromConfig(cfg *config.Config, logger zerolog.Logger) []Probe {
	imu := IMUProbe(cfg.IMUSPIDevice, cfg.IMUCSPin, cfg.IMUFilterAlpha, logger)
	ser := SerialProbe(cfg.SerialPort, cfg.SerialBaud, logger)

	switch cfg.HMDSource {
	case config.SourceIMU:
		return []Probe{imu}
	case config.SourceSerial:
		return []Probe{ser}
	case config.SourceMQTT:
		return []Probe{MQTTProbe(cfg.MQTTBroker, cfg.MQTTClientIDTracker, cfg.TopicEyePose, logger)}
	case config.SourceReplay:
		return []Probe{ReplayProbe(cfg.ReplayPath)}
	case config.SourceNone:
		return nil
	default:
		return []Probe{imu, ser}
	}
}

// RuntimeFromConfig builds a runtime with the configured settle delay and probes.
func RuntimeFromConfig(cfg *config.Config, logger zerolog.Logger) *Runtime {
	settle := time.Duration(cfg.HMDSettleMS) * time.Millisecond
	return NewRuntime(settle, logger, ProbesFromConfig(cfg, logger)...)
}
