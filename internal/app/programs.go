// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/rs/zerolog"

	"github.com/relabs-tech/hmdview/internal/config"
	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/logging"
	"github.com/relabs-tech/hmdview/internal/render"
	"github.com/relabs-tech/hmdview/internal/tui"
	"github.com/relabs-tech/hmdview/internal/window"
)

// newConfiguredViewer builds a viewer with the MQTT camera publisher and
// the pose recorder wired as the configuration asks.
func newConfiguredViewer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, spinner bool) (*Viewer, func(), error) {
	opts := ViewerOptions{Config: cfg, Logger: logger, Spinner: spinner}
	cleanup := func() {}

	if cfg.MQTTPublishCamera {
		client, err := connectMQTT(ctx, cfg.MQTTBroker, cfg.MQTTClientIDViewer, logger)
		if err != nil {
			return nil, nil, err
		}
		opts.Publisher = &mqttCameraPublisher{client: client, topic: cfg.TopicCamera}
		cleanup = func() { client.Disconnect(250) }
	}

	if cfg.RecordPath != "" {
		rec, err := hmd.CreateRecorder(cfg.RecordPath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts.Recorder = rec
		logger.Info().Str("path", cfg.RecordPath).Msg("recording eye poses")
	}

	v, err := NewViewer(ctx, opts)
	if err != nil {
		if opts.Recorder != nil {
			_ = opts.Recorder.Close()
		}
		cleanup()
		return nil, nil, err
	}
	return v, cleanup, nil
}

// RunViewer shows the viewer window in the browser and, when enabled, on
// the OLED display. It returns once ctx is done.
func RunViewer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	v, cleanup, err := newConfiguredViewer(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer cleanup()

	web := window.NewWebServer(v.Window(), window.WebOptions{
		MaxFPS:       cfg.StreamMaxFPS,
		Gatherer:     v.Metrics().Registry,
		FramesServed: v.Metrics().FramesServed,
		Logger:       logging.For(logger, "web"),
	})
	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	sinks := []func(context.Context) error{
		func(ctx context.Context) error { return web.Run(ctx, addr) },
	}

	if cfg.OLEDEnabled {
		oled, err := window.OpenOLED(cfg.OLEDI2CBus, v.Window(), logging.For(logger, "oled"))
		if err != nil {
			// the display is optional
			logger.Warn().Err(err).Msg("OLED disabled")
		} else {
			defer oled.Close()
			sinks = append(sinks, oled.Run)
		}
	}

	return v.Run(ctx, sinks...)
}

// RunTerminalViewer shows the snapshot pane in the terminal. Quitting the
// terminal window closes the viewer.
func RunTerminalViewer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	v, cleanup, err := newConfiguredViewer(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer cleanup()

	return v.Run(ctx, func(ctx context.Context) error {
		return tui.Run(ctx, v.Window())
	})
}

// RunSnapshot reads one eye pose, renders it and writes a PNG to path:
// the snapshot alone, or the whole window when whole is set.
func RunSnapshot(ctx context.Context, cfg *config.Config, logger zerolog.Logger, path string, whole bool) error {
	v, err := NewViewer(ctx, ViewerOptions{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer v.Close()

	pose, err := v.Device().EyePose(v.eye)
	if err != nil {
		return fmt.Errorf("eye pose: %w", err)
	}
	frame := v.refresh(ctx, pose)

	var img *image.RGBA
	if whole {
		img = v.Window().Compose(color.White)
	} else {
		// the window keeps the frame; draw on a copy
		img = image.NewRGBA(frame.Snapshot.Bounds())
		copy(img.Pix, frame.Snapshot.Pix)
	}
	render.DrawHUD(img, image.Pt(4, 0), color.Black, []string{
		v.Device().Name(),
		formatPose(pose),
	})

	data, err := render.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	logger.Info().Str("path", path).Str("pose", pose.String()).Msg("snapshot written")
	return v.Close()
}
