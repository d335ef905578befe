// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/relabs-tech/hmdview/internal/config"
	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/logging"
)

// RunEyePoseProducer reads the local headset and publishes the eye pose
// on TOPIC_EYE_POSE every PRODUCER_INTERVAL_MS, for viewers running with
// HMD_SOURCE=mqtt.
func RunEyePoseProducer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.HMDSource == config.SourceMQTT {
		return errors.New("producer: HMD_SOURCE=mqtt would read its own output")
	}
	logger.Info().Msg("starting eye pose producer")

	debugType, err := hmd.ParseType(cfg.HMDDebugType)
	if err != nil {
		return err
	}
	rt := hmd.RuntimeFromConfig(cfg, logging.For(logger, "hmd"))
	dev, err := hmd.Setup(ctx, rt, cfg.HMDIndex, debugType)
	if err != nil {
		return err
	}
	defer func() {
		if err := hmd.Teardown(rt, dev); err != nil {
			logger.Warn().Err(err).Msg("HMD teardown")
		}
	}()

	client, err := connectMQTT(ctx, cfg.MQTTBroker, cfg.MQTTClientIDProducer, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	logger.Info().Str("device", dev.Name()).Str("topic", cfg.TopicEyePose).Msg("starting publish loop")

	eye := hmd.Eye(cfg.HMDEye)
	ticker := time.NewTicker(time.Duration(cfg.ProducerIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("producer shutting down")
			return nil
		case <-ticker.C:
		}

		pose, err := dev.EyePose(eye)
		if err != nil {
			logger.Warn().Err(err).Msg("eye pose read error")
			continue
		}
		if err := publishJSON(client, cfg.TopicEyePose, pose); err != nil {
			logger.Warn().Err(err).Msg("MQTT publish error (eye pose)")
		}
	}
}
