// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package hmd is the headset boundary: a runtime that detects devices,
// a Device interface serving eye poses, and the backends behind it.
package hmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/relabs-tech/hmdview/internal/apperrors"
)

var (
	ErrNotInitialized = errors.New("hmd runtime not initialized")
	ErrNoDevice       = errors.New("no HMD detected")
	ErrNotTracking    = errors.New("tracking not configured")
	ErrDestroyed      = errors.New("device destroyed")

	// Startup failures reported by Setup.
	ErrInitialize  = errors.New("unable to initialize HMD")
	ErrStartSensor = errors.New("unable to start the sensor")
)

//go:generate mockgen -destination=hmdmock/device.go -package=hmdmock github.com/relabs-tech/hmdview/internal/hmd Device

// Device is an opened headset.
type Device interface {
	Name() string
	Caps() TrackingCaps
	// ConfigureTracking starts the sensors. It fails when a required
	// capability is missing or the sensor cannot be started.
	ConfigureTracking(supported, required TrackingCaps) error
	EyePose(eye Eye) (Posef, error)
	Destroy() error
}

// Probe tries to open one kind of headset. It returns an error wrapping
// ErrNoDevice when nothing answers.
type Probe struct {
	Name string
	Open func(ctx context.Context) (Device, error)
}

// Runtime enumerates devices from its probes and owns what it opened.
type Runtime struct {
	settle time.Duration
	probes []Probe
	logger zerolog.Logger

	mu          sync.Mutex
	initialized bool
	open        []Device
}

// NewRuntime returns a runtime that waits settle after Initialize before
// devices are probed.
func NewRuntime(settle time.Duration, logger zerolog.Logger, probes ...Probe) *Runtime {
	return &Runtime{settle: settle, probes: probes, logger: logger}
}

// Initialize brings the runtime up and waits for the settle delay.
func (r *Runtime) Initialize(ctx context.Context) error {
	r.mu.Lock()
	r.initialized = true
	r.mu.Unlock()

	if r.settle <= 0 {
		return nil
	}
	timer := time.NewTimer(r.settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Create opens the index-th detected headset, counting across probes in
// order. Probe failures count as "not detected".
func (r *Runtime) Create(ctx context.Context, index int) (Device, error) {
	if !r.isInitialized() {
		return nil, ErrNotInitialized
	}
	if index < 0 {
		return nil, fmt.Errorf("index %d: %w", index, ErrNoDevice)
	}

	found := 0
	for _, p := range r.probes {
		dev, err := p.Open(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if !errors.Is(err, ErrNoDevice) {
				r.logger.Warn().Err(err).Str("probe", p.Name).Msg("probe failed")
			}
			continue
		}
		if found == index {
			r.track(dev)
			r.logger.Info().Str("probe", p.Name).Str("device", dev.Name()).Msg("HMD detected")
			return dev, nil
		}
		found++
		if err := dev.Destroy(); err != nil {
			r.logger.Warn().Err(err).Str("probe", p.Name).Msg("release skipped device")
		}
	}
	return nil, fmt.Errorf("index %d (%d detected): %w", index, found, ErrNoDevice)
}

// CreateDebug returns a synthetic headset of the given type.
func (r *Runtime) CreateDebug(typ Type) (Device, error) {
	if !r.isInitialized() {
		return nil, ErrNotInitialized
	}
	dev, err := NewDebugDevice(typ, time.Now)
	if err != nil {
		return nil, err
	}
	r.track(dev)
	r.logger.Info().Str("device", dev.Name()).Msg("using debug HMD")
	return dev, nil
}

// Destroy releases a device opened by this runtime.
func (r *Runtime) Destroy(dev Device) error {
	r.mu.Lock()
	for i, d := range r.open {
		if d == dev {
			r.open = append(r.open[:i], r.open[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	return dev.Destroy()
}

// Shutdown destroys any device still open and marks the runtime down.
// Calling it twice is harmless.
func (r *Runtime) Shutdown() error {
	r.mu.Lock()
	open := r.open
	r.open = nil
	r.initialized = false
	r.mu.Unlock()

	var errs []error
	for _, d := range open {
		if err := d.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("destroy %s: %w", d.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runtime) isInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

func (r *Runtime) track(dev Device) {
	r.mu.Lock()
	r.open = append(r.open, dev)
	r.mu.Unlock()
}

// Setup runs the startup sequence: initialize the runtime, open headset
// index (falling back to a debug headset of debugType when none is
// detected) and start orientation and position tracking. Any failure
// shuts the runtime down and aborts.
func Setup(ctx context.Context, rt *Runtime, index int, debugType Type) (Device, error) {
	if err := rt.Initialize(ctx); err != nil {
		_ = rt.Shutdown()
		return nil, apperrors.DeviceError{Op: "initialize", Err: err}
	}

	dev, err := rt.Create(ctx, index)
	if errors.Is(err, ErrNoDevice) {
		dev, err = rt.CreateDebug(debugType)
	}
	if err != nil {
		_ = rt.Shutdown()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.DeviceError{Op: "create", Err: fmt.Errorf("%w: %w", ErrInitialize, err)}
	}

	if err := dev.ConfigureTracking(TrackingCapOrientation|TrackingCapPosition, 0); err != nil {
		_ = rt.Shutdown()
		return nil, apperrors.DeviceError{Op: "configure tracking", Err: fmt.Errorf("%w: %w", ErrStartSensor, err)}
	}
	return dev, nil
}

// Teardown destroys the device and shuts the runtime down.
func Teardown(rt *Runtime, dev Device) error {
	var errs []error
	if dev != nil {
		errs = append(errs, rt.Destroy(dev))
	}
	errs = append(errs, rt.Shutdown())
	return errors.Join(errs...)
}
