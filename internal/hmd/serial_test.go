// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"fmt"
	"io"
	"testing"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withChecksum frames an NMEA body as "$body*hh".
func withChecksum(body string) string {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return fmt.Sprintf("$%s*%02X", body, cs)
}

func TestParseQTN(t *testing.T) {
	s, err := nmea.Parse(withChecksum("HTQTN,0.7071068,0,0.7071068,0,0.01,-0.02,0.5"))
	require.NoError(t, err)

	m, ok := s.(QTN)
	require.True(t, ok, "got %T", s)
	assert.Equal(t, TypeQTN, m.DataType())
	assert.InDelta(t, 0.7071068, m.W, 1e-9)
	assert.InDelta(t, 0.5, m.PZ, 1e-9)

	p := m.Pose()
	assert.InDelta(t, 1, p.Orientation.Len(), 1e-9)
	assert.Equal(t, mgl64.Vec3{0.01, -0.02, 0.5}, p.Position)
}

func TestParseQTN_Errors(t *testing.T) {
	_, err := nmea.Parse(withChecksum("HTQTN,1,0,0"))
	assert.Error(t, err)

	_, err = nmea.Parse(withChecksum("HTQTN,1,0,zero,0,0,0,0"))
	assert.Error(t, err)
}

func TestQTNPose_ZeroQuaternionIsIdentity(t *testing.T) {
	assert.Equal(t, mgl64.QuatIdent(), QTN{}.Pose().Orientation)
}

func TestSerialTracker_Stream(t *testing.T) {
	pr, pw := io.Pipe()
	tr := newSerialTracker(pr, zerolog.Nop())
	dev := newDevice("serial test", TrackingCapOrientation|TrackingCapPosition, 0, tr)
	require.NoError(t, dev.ConfigureTracking(TrackingCapOrientation|TrackingCapPosition, 0))

	pose, err := dev.EyePose(EyeLeft)
	require.NoError(t, err)
	assert.Equal(t, IdentityPose(), pose)

	go func() {
		fmt.Fprintln(pw, "garbage")
		fmt.Fprintln(pw, "$HTQTN,1,0,0,0,0,0,0*00") // bad checksum
		fmt.Fprintln(pw, withChecksum("HTQTN,0,1,0,0,0.1,0.2,0.3"))
	}()

	assert.Eventually(t, func() bool {
		p, err := dev.EyePose(EyeLeft)
		return err == nil && p.Position == mgl64.Vec3{0.1, 0.2, 0.3}
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, pw.Close())
	<-tr.done
	_, err = dev.EyePose(EyeLeft)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, dev.Destroy())
}
