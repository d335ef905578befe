// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/go-gl/mathgl/mgl64"
	serial "github.com/jacobsa/go-serial/serial"
	"github.com/rs/zerolog"
)

// TypeQTN is the sentence type streamed by serial head trackers:
//
//	$HTQTN,w,x,y,z,px,py,pz*hh
//
// carrying the orientation quaternion and the position in meters.
const TypeQTN = "QTN"

// QTN is a parsed head tracker sentence.
type QTN struct {
	nmea.BaseSentence
	W, X, Y, Z float64
	PX, PY, PZ float64
}

// Pose returns the normalized pose carried by the sentence.
func (s QTN) Pose() Posef {
	q := mgl64.Quat{W: s.W, V: mgl64.Vec3{s.X, s.Y, s.Z}}
	if q.Len() == 0 {
		q = mgl64.QuatIdent()
	}
	return Posef{Orientation: q.Normalize(), Position: mgl64.Vec3{s.PX, s.PY, s.PZ}}
}

func parseQTN(s nmea.BaseSentence) (nmea.Sentence, error) {
	p := nmea.NewParser(s)
	if len(s.Fields) != 7 {
		return nil, fmt.Errorf("nmea: %s expects 7 fields, got %d", TypeQTN, len(s.Fields))
	}
	m := QTN{
		BaseSentence: s,
		W:            p.Float64(0, "w"),
		X:            p.Float64(1, "x"),
		Y:            p.Float64(2, "y"),
		Z:            p.Float64(3, "z"),
		PX:           p.Float64(4, "px"),
		PY:           p.Float64(5, "py"),
		PZ:           p.Float64(6, "pz"),
	}
	return m, p.Err()
}

func init() {
	if err := nmea.RegisterParser(TypeQTN, parseQTN); err != nil {
		panic(err)
	}
}

// serialTracker keeps the latest pose read from a sentence stream.
type serialTracker struct {
	port   io.ReadCloser
	logger zerolog.Logger

	mu      sync.RWMutex
	latest  Posef
	readErr error
	done    chan struct{}
	once    sync.Once
}

func newSerialTracker(port io.ReadCloser, logger zerolog.Logger) *serialTracker {
	return &serialTracker{
		port:   port,
		logger: logger,
		latest: IdentityPose(),
		done:   make(chan struct{}),
	}
}

// SerialProbe opens a serial head tracker. A port that cannot be opened
// means "not detected".
func SerialProbe(portName string, baud int, logger zerolog.Logger) Probe {
	return Probe{
		Name: "serial",
		Open: func(context.Context) (Device, error) {
			port, err := serial.Open(serial.OpenOptions{
				PortName:              portName,
				BaudRate:              uint(baud),
				DataBits:              8,
				StopBits:              1,
				MinimumReadSize:       1,
				ParityMode:            serial.PARITY_NONE,
				InterCharacterTimeout: 0,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: serial %s: %w", ErrNoDevice, portName, err)
			}
			logger.Info().Str("port", portName).Int("baud", baud).Msg("serial head tracker opened")
			t := newSerialTracker(port, logger)
			return newDevice("serial "+portName, TrackingCapOrientation|TrackingCapPosition, DefaultIPD, t), nil
		},
	}
}

func (t *serialTracker) start() error {
	t.once.Do(func() { go t.readLoop() })
	return nil
}

func (t *serialTracker) readLoop() {
	defer close(t.done)

	reader := bufio.NewReader(t.port)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); strings.HasPrefix(line, "$") {
			t.handleLine(line)
		}
		if err != nil {
			if err != io.EOF {
				t.logger.Warn().Err(err).Msg("serial read error")
			}
			t.mu.Lock()
			t.readErr = err
			t.mu.Unlock()
			return
		}
	}
}

func (t *serialTracker) handleLine(line string) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		// partial lines are common right after the port opens
		t.logger.Debug().Err(err).Str("line", line).Msg("nmea parse error")
		return
	}
	m, ok := sentence.(QTN)
	if !ok {
		return
	}
	t.mu.Lock()
	t.latest = m.Pose()
	t.mu.Unlock()
}

// headPose returns identity until the first sentence arrives and an
// error once the stream has ended.
func (t *serialTracker) headPose() (Posef, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.readErr != nil {
		return Posef{}, fmt.Errorf("serial stream ended: %w", t.readErr)
	}
	return t.latest, nil
}

func (t *serialTracker) close() error {
	return t.port.Close()
}
