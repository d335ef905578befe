// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSourceWithClock creates a mock orientation source that generates
// a smooth "looking around" motion, small enough to keep a target in view.
// Time is read from now.
func NewMockSourceWithClock(now func() time.Time) Source {
	return &mockSource{start: now(), now: now}
}

func (m *mockSource) Next() (Pose, error) {
	elapsed := m.now().Sub(m.start).Seconds()

	return Pose{
		Roll:  5 * math.Sin(elapsed*0.9),
		Pitch: 10 * math.Cos(elapsed*0.7),
		Yaw:   20 * math.Sin(elapsed*0.5),
	}, nil
}
