// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/relabs-tech/hmdview/internal/config"
	"github.com/relabs-tech/hmdview/internal/hmd"
)

// RunConsoleMQTT prints eye poses and camera placements seen on the
// broker until ctx is done.
func RunConsoleMQTT(ctx context.Context, cfg *config.Config, out io.Writer, logger zerolog.Logger) error {
	client, err := connectMQTT(ctx, cfg.MQTTBroker, cfg.MQTTClientIDConsole, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	handlers := map[string]mqtt.MessageHandler{
		cfg.TopicEyePose: func(_ mqtt.Client, msg mqtt.Message) {
			line, err := formatEyePoseMessage(msg.Payload())
			if err != nil {
				logger.Warn().Err(err).Msg("eye pose unmarshal error")
				return
			}
			fmt.Fprintln(out, line)
		},
		cfg.TopicCamera: func(_ mqtt.Client, msg mqtt.Message) {
			line, err := formatCameraMessage(msg.Payload())
			if err != nil {
				logger.Warn().Err(err).Msg("camera unmarshal error")
				return
			}
			fmt.Fprintln(out, line)
		},
	}

	for topic, handler := range handlers {
		token := client.Subscribe(topic, 0, handler)
		token.Wait()
		if token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		logger.Info().Str("topic", topic).Msg("subscribed")
	}

	<-ctx.Done()
	logger.Info().Msg("console shutting down")
	return nil
}

func formatEyePoseMessage(payload []byte) (string, error) {
	var p hmd.Posef
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", err
	}
	return "[POSE] " + formatPose(p), nil
}

func formatCameraMessage(payload []byte) (string, error) {
	var m CameraMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return "", err
	}
	c := m.Camera
	return fmt.Sprintf(
		"[CAM ] #%-6d T=(%6.3f %6.3f %6.3f)  ROT=%6.2f°  AXIS=(%6.3f %6.3f %6.3f)",
		m.Seq, c.Translate[0], c.Translate[1], c.Translate[2],
		c.Rotate, c.RotationAxis[0], c.RotationAxis[1], c.RotationAxis[2],
	), nil
}

func formatPose(p hmd.Posef) string {
	q := p.Orientation
	return fmt.Sprintf(
		"W=%6.3f X=%6.3f Y=%6.3f Z=%6.3f  P=(%6.3f %6.3f %6.3f)",
		q.W, q.V[0], q.V[1], q.V[2], p.Position[0], p.Position[1], p.Position[2],
	)
}
