// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/relabs-tech/hmdview/internal/hmd"
)

func connectMQTT(ctx context.Context, broker, clientID string, logger zerolog.Logger) (mqtt.Client, error) {
	client, err := hmd.ConnectMQTT(ctx, broker, clientID, logger)
	if err != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, err)
	}
	return client, nil
}

func publishJSON(client mqtt.Client, topic string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}
	token := client.Publish(topic, 0, false, b)
	token.Wait()
	return token.Error()
}

// mqttCameraPublisher publishes camera placements on one topic.
type mqttCameraPublisher struct {
	client mqtt.Client
	topic  string
}

func (p *mqttCameraPublisher) PublishCamera(msg CameraMessage) error {
	return publishJSON(p.client, p.topic, msg)
}
