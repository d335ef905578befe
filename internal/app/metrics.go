// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics are the viewer's Prometheus collectors, on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	Polls           prometheus.Counter
	PollErrors      prometheus.Counter
	DroppedPoses    prometheus.Counter
	SnapshotSeconds prometheus.Histogram
	FramesServed    prometheus.Counter
}

// NewMetrics registers the viewer collectors plus the Go runtime ones.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hmdview",
			Name:      "eye_pose_polls_total",
			Help:      "Eye pose reads attempted.",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hmdview",
			Name:      "eye_pose_poll_errors_total",
			Help:      "Eye pose reads that failed.",
		}),
		DroppedPoses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hmdview",
			Name:      "eye_poses_dropped_total",
			Help:      "Poses replaced by a newer one before the UI loop applied them.",
		}),
		SnapshotSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hmdview",
			Name:      "snapshot_render_seconds",
			Help:      "Time spent rendering one snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		FramesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hmdview",
			Name:      "frames_served_total",
			Help:      "PNG frames written to web clients.",
		}),
	}
	m.Registry.MustRegister(
		m.Polls,
		m.PollErrors,
		m.DroppedPoses,
		m.SnapshotSeconds,
		m.FramesServed,
		collectors.NewGoCollector(),
	)
	return m
}
