// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/hmdview/internal/config"
	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/logging"
	"github.com/relabs-tech/hmdview/internal/render"
	"github.com/relabs-tech/hmdview/internal/scene"
	"github.com/relabs-tech/hmdview/internal/window"
)

const tracerName = "github.com/relabs-tech/hmdview/internal/app"

// CameraPublisher receives the camera placement after every update.
type CameraPublisher interface {
	PublishCamera(msg CameraMessage) error
}

// CameraMessage is the JSON published on TOPIC_CAMERA.
type CameraMessage struct {
	Seq    uint64      `json:"seq"`
	Eye    hmd.Eye     `json:"eye"`
	Pose   hmd.Posef   `json:"pose"`
	Camera scene.State `json:"camera"`
}

// ViewerOptions configures NewViewer. Only Config is required.
type ViewerOptions struct {
	Config *config.Config
	Logger zerolog.Logger

	// Runtime defaults to hmd.RuntimeFromConfig.
	Runtime *hmd.Runtime
	// Metrics defaults to a fresh NewMetrics.
	Metrics *Metrics
	// Publisher, when set, gets the camera placement after every update.
	Publisher CameraPublisher
	// Recorder, when set, gets every polled pose.
	Recorder *hmd.Recorder
	// Spinner shows a terminal spinner while the HMD settles.
	Spinner bool
}

// Viewer polls the headset and keeps a window showing the scene as seen
// from the tracked eye.
type Viewer struct {
	cfg     *config.Config
	log     zerolog.Logger
	rt      *hmd.Runtime
	dev     hmd.Device
	eye     hmd.Eye
	metrics *Metrics
	pub     CameraPublisher
	rec     *hmd.Recorder

	scene *scene.Group
	win   *window.Window

	// single slot: the newest pose replaces one the UI loop has not taken
	poses chan hmd.Posef

	closeOnce sync.Once
	closeErr  error
}

// NewViewer sets the headset up, builds the scene and the window and
// takes the first snapshot.
func NewViewer(ctx context.Context, opts ViewerOptions) (*Viewer, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("viewer: nil config")
	}
	logger := opts.Logger

	debugType, err := hmd.ParseType(cfg.HMDDebugType)
	if err != nil {
		return nil, err
	}

	rt := opts.Runtime
	if rt == nil {
		rt = hmd.RuntimeFromConfig(cfg, logging.For(logger, "hmd"))
	}

	var dev hmd.Device
	err = withSpinner(opts.Spinner, " waiting for the HMD to settle", func() error {
		var setupErr error
		dev, setupErr = hmd.Setup(ctx, rt, cfg.HMDIndex, debugType)
		return setupErr
	})
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("device", dev.Name()).
		Str("caps", dev.Caps().String()).
		Msg("HMD ready")

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	v := &Viewer{
		cfg:     cfg,
		log:     logger,
		rt:      rt,
		dev:     dev,
		eye:     hmd.Eye(cfg.HMDEye),
		metrics: metrics,
		pub:     opts.Publisher,
		rec:     opts.Recorder,
		scene:   scene.NewDemo(cfg),
		win:     window.New("hmdview", cfg.WindowWidth, cfg.WindowHeight),
		poses:   make(chan hmd.Posef, 1),
	}

	v.refresh(ctx, hmd.IdentityPose())
	return v, nil
}

// Window returns the viewer's window.
func (v *Viewer) Window() *window.Window { return v.win }

// Metrics returns the viewer's collectors.
func (v *Viewer) Metrics() *Metrics { return v.metrics }

// Device returns the headset in use.
func (v *Viewer) Device() hmd.Device { return v.dev }

// Run polls the headset and updates the window until ctx is done or the
// window is asked to close. Each sink runs alongside and must return
// when its context is done. The headset is released before Run returns.
func (v *Viewer) Run(ctx context.Context, sinks ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	// close request from a sink or the user
	g.Go(func() error {
		select {
		case <-v.win.CloseRequested():
			v.log.Info().Msg("close requested")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	poller := &Poller{
		InitialDelay: time.Duration(v.cfg.PollInitialDelayMS) * time.Millisecond,
		Delay:        time.Duration(v.cfg.PollDelayMS) * time.Millisecond,
		Task:         v.poll,
		OnError:      func(error) { v.metrics.PollErrors.Inc() },
		Logger:       v.log,
	}
	g.Go(func() error { return poller.Run(gctx) })
	g.Go(func() error { return v.uiLoop(gctx) })

	for _, sink := range sinks {
		g.Go(func() error { return sink(gctx) })
	}

	err := g.Wait()
	// the poller has stopped: the device can go
	return errors.Join(err, v.Close())
}

// Close releases the headset and the runtime. It is safe to call more
// than once.
func (v *Viewer) Close() error {
	v.closeOnce.Do(func() {
		v.closeErr = hmd.Teardown(v.rt, v.dev)
		if v.rec != nil {
			v.closeErr = errors.Join(v.closeErr, v.rec.Close())
		}
		v.log.Info().Msg("HMD shut down")
	})
	return v.closeErr
}

// poll reads the eye pose and hands it to the UI loop.
func (v *Viewer) poll(context.Context) error {
	v.metrics.Polls.Inc()
	pose, err := v.dev.EyePose(v.eye)
	if err != nil {
		return fmt.Errorf("eye pose: %w", err)
	}

	if v.rec != nil {
		if err := v.rec.Record(time.Now(), v.eye, pose); err != nil {
			v.log.Warn().Err(err).Msg("record failed")
		}
	}

	select {
	case v.poses <- pose:
		return nil
	default:
	}
	// slot full: drop the stale pose
	select {
	case <-v.poses:
		v.metrics.DroppedPoses.Inc()
	default:
	}
	select {
	case v.poses <- pose:
	default:
	}
	return nil
}

func (v *Viewer) uiLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case pose := <-v.poses:
			v.refresh(ctx, pose)
		}
	}
}

// refresh moves the camera to pose and redraws both views.
func (v *Viewer) refresh(ctx context.Context, pose hmd.Posef) window.Frame {
	cam := v.scene.Camera
	cam.ApplyEyePose(pose)

	live := render.Snapshot(v.scene, render.SnapshotParams{
		DepthBuffer: v.cfg.DepthBuffer,
		Viewport:    v.win.LiveBounds(),
	})
	v.win.SetLive(live)

	snap := v.snapshot(ctx, cam, v.win.LiveBounds())
	frame := v.win.SetSnapshot(snap, pose, cam.State())

	if v.pub != nil {
		msg := CameraMessage{Seq: frame.Seq, Eye: v.eye, Pose: pose, Camera: frame.Camera}
		if err := v.pub.PublishCamera(msg); err != nil {
			v.log.Warn().Err(err).Msg("camera publish failed")
		}
	}
	return frame
}

// snapshot renders the scene root through cam with depth testing.
func (v *Viewer) snapshot(ctx context.Context, cam *scene.PerspectiveCamera, viewport image.Rectangle) *image.RGBA {
	_, span := otel.Tracer(tracerName).Start(ctx, "snapshot")
	defer span.End()

	start := time.Now()
	img := render.Snapshot(v.scene, render.SnapshotParams{
		Camera:      cam,
		DepthBuffer: true,
		Viewport:    viewport,
	})
	elapsed := time.Since(start)

	v.metrics.SnapshotSeconds.Observe(elapsed.Seconds())
	span.SetAttributes(
		attribute.Int("viewport.width", viewport.Dx()),
		attribute.Int("viewport.height", viewport.Dy()),
		attribute.Float64("camera.rotate", cam.Rotate),
	)
	return img
}
