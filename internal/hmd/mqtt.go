// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// MQTTConnectTimeout bounds a single broker connection attempt.
const MQTTConnectTimeout = 5 * time.Second

// ConnectMQTT connects a client to broker. It returns ctx.Err() as soon as
// ctx is done, even if the broker has not answered yet.
func ConnectMQTT(ctx context.Context, broker, clientID string, logger zerolog.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(MQTTConnectTimeout)

	client := mqtt.NewClient(opts)
	if err := waitToken(ctx, client.Connect()); err != nil {
		return nil, err
	}
	logger.Info().Str("broker", broker).Msg("connected to MQTT broker")
	return client, nil
}

func waitToken(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mqttTracker serves the latest eye pose published by a remote producer
// (see app.RunEyePoseProducer).
type mqttTracker struct {
	client mqtt.Client
	topic  string
	logger zerolog.Logger

	mu     sync.RWMutex
	latest Posef
}

// MQTTProbe connects to the broker and follows topic. A broker that
// refuses the connection means "not detected".
func MQTTProbe(broker, clientID, topic string, logger zerolog.Logger) Probe {
	return Probe{
		Name: "mqtt",
		Open: func(ctx context.Context) (Device, error) {
			client, err := ConnectMQTT(ctx, broker, clientID, logger)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				return nil, fmt.Errorf("%w: mqtt %s: %w", ErrNoDevice, broker, err)
			}

			t := &mqttTracker{client: client, topic: topic, logger: logger, latest: IdentityPose()}
			return newDevice("mqtt "+topic, TrackingCapOrientation|TrackingCapPosition, 0, t), nil
		},
	}
}

func (t *mqttTracker) start() error {
	token := t.client.Subscribe(t.topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		t.handle(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	t.logger.Info().Str("topic", t.topic).Msg("subscribed to eye pose topic")
	return nil
}

// handle stores a decoded pose. Malformed payloads and payloads without
// an orientation keep the previous pose.
func (t *mqttTracker) handle(payload []byte) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.logger.Warn().Err(err).Msg("eye pose unmarshal error")
		return
	}
	if _, ok := fields["orientation"]; !ok {
		t.logger.Warn().Msg("eye pose without orientation")
		return
	}
	var p Posef
	if err := json.Unmarshal(payload, &p); err != nil {
		t.logger.Warn().Err(err).Msg("eye pose unmarshal error")
		return
	}
	t.mu.Lock()
	t.latest = p
	t.mu.Unlock()
}

// headPose returns the last published pose. The producer already applied
// the eye offset, so this device is built with a zero IPD.
func (t *mqttTracker) headPose() (Posef, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest, nil
}

func (t *mqttTracker) close() error {
	if t.client.IsConnected() {
		t.client.Unsubscribe(t.topic).Wait()
		t.client.Disconnect(250)
	}
	return nil
}
