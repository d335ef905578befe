// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// Sample is one recorded eye pose, T milliseconds after the recording started.
type Sample struct {
	T    int64 `json:"t_ms"`
	Eye  Eye   `json:"eye"`
	Pose Posef `json:"pose"`
}

// Recorder writes samples as JSON lines.
type Recorder struct {
	mu    sync.Mutex
	w     *bufio.Writer
	c     io.Closer
	epoch time.Time
}

// NewRecorder records to w. If w is an io.Closer, Close closes it.
func NewRecorder(w io.Writer, epoch time.Time) *Recorder {
	r := &Recorder{w: bufio.NewWriter(w), epoch: epoch}
	if c, ok := w.(io.Closer); ok {
		r.c = c
	}
	return r
}

// CreateRecorder truncates path and records to it.
func CreateRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return NewRecorder(f, time.Now()), nil
}

// Record appends one sample taken at t.
func (r *Recorder) Record(t time.Time, eye Eye, p Posef) error {
	line, err := json.Marshal(Sample{T: t.Sub(r.epoch).Milliseconds(), Eye: eye, Pose: p})
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.Write(line); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Close flushes and closes the underlying writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.w.Flush()
	if r.c != nil {
		err = errors.Join(err, r.c.Close())
	}
	return err
}

// ReadSamples decodes a JSON-lines recording, sorted by time.
func ReadSamples(rd io.Reader) ([]Sample, error) {
	var samples []Sample
	scanner := bufio.NewScanner(rd)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var s Sample
		if err := json.Unmarshal(scanner.Bytes(), &s); err != nil {
			return nil, fmt.Errorf("recording line %d: %w", lineNum, err)
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].T < samples[j].T })
	return samples, nil
}

// replayTracker loops over a recording against wall time.
type replayTracker struct {
	samples []Sample
	now     func() time.Time
	epoch   time.Time
}

func newReplayDevice(name string, samples []Sample, now func() time.Time) (Device, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty recording %s", ErrNoDevice, name)
	}
	t := &replayTracker{samples: samples, now: now}
	// Recorded poses already carry the eye offset.
	return newDevice("replay "+name, TrackingCapOrientation|TrackingCapPosition, 0, t), nil
}

// ReplayProbe opens a recording made by Recorder.
func ReplayProbe(path string) Probe {
	return Probe{
		Name: "replay",
		Open: func(context.Context) (Device, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
			}
			defer f.Close()
			samples, err := ReadSamples(f)
			if err != nil {
				return nil, err
			}
			return newReplayDevice(path, samples, time.Now)
		},
	}
}

func (t *replayTracker) start() error {
	t.epoch = t.now()
	return nil
}

func (t *replayTracker) headPose() (Posef, error) {
	elapsed := t.now().Sub(t.epoch).Milliseconds()
	if span := t.samples[len(t.samples)-1].T; span > 0 {
		elapsed %= span + 1
	}
	i := sort.Search(len(t.samples), func(i int) bool { return t.samples[i].T > elapsed })
	if i > 0 {
		i--
	}
	return t.samples[i].Pose, nil
}

func (t *replayTracker) close() error { return nil }
