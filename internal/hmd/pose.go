// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultIPD is the interpupillary distance in meters used when a device
// does not report one.
const DefaultIPD = 0.064

// Posef is a tracked pose in the headset frame: right-handed, meters,
// +Y up, looking down -Z.
type Posef struct {
	Orientation mgl64.Quat
	Position    mgl64.Vec3
}

// IdentityPose is the pose of a headset at the tracking origin looking forward.
func IdentityPose() Posef {
	return Posef{Orientation: mgl64.QuatIdent()}
}

type quatJSON struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type vecJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type poseJSON struct {
	Orientation quatJSON `json:"orientation"`
	Position    vecJSON  `json:"position"`
}

func (p Posef) MarshalJSON() ([]byte, error) {
	return json.Marshal(poseJSON{
		Orientation: quatJSON{W: p.Orientation.W, X: p.Orientation.V[0], Y: p.Orientation.V[1], Z: p.Orientation.V[2]},
		Position:    vecJSON{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]},
	})
}

// UnmarshalJSON decodes a pose. A missing or all-zero orientation decodes
// as identity so half-filled payloads stay usable.
func (p *Posef) UnmarshalJSON(data []byte) error {
	var raw poseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q := mgl64.Quat{W: raw.Orientation.W, V: mgl64.Vec3{raw.Orientation.X, raw.Orientation.Y, raw.Orientation.Z}}
	if q.Len() == 0 {
		q = mgl64.QuatIdent()
	}
	p.Orientation = q
	p.Position = mgl64.Vec3{raw.Position.X, raw.Position.Y, raw.Position.Z}
	return nil
}

func (p Posef) String() string {
	q := p.Orientation
	return fmt.Sprintf("q=(%.4f, %.4f, %.4f, %.4f) p=(%.4f, %.4f, %.4f)",
		q.W, q.V[0], q.V[1], q.V[2], p.Position[0], p.Position[1], p.Position[2])
}

// Eye selects which eye pose to read.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
)

func (e Eye) String() string {
	if e == EyeRight {
		return "right"
	}
	return "left"
}

// eyePose offsets a head pose by half the IPD along the head's own X axis.
func eyePose(head Posef, eye Eye, ipd float64) Posef {
	offset := -ipd / 2
	if eye == EyeRight {
		offset = ipd / 2
	}
	shift := head.Orientation.Rotate(mgl64.Vec3{offset, 0, 0})
	return Posef{Orientation: head.Orientation, Position: head.Position.Add(shift)}
}

// TrackingCaps is a bit set of tracking capabilities.
type TrackingCaps uint32

const (
	TrackingCapOrientation      TrackingCaps = 0x0010
	TrackingCapMagYawCorrection TrackingCaps = 0x0020
	TrackingCapPosition         TrackingCaps = 0x0040
)

func (c TrackingCaps) String() string {
	var parts []string
	if c&TrackingCapOrientation != 0 {
		parts = append(parts, "orientation")
	}
	if c&TrackingCapMagYawCorrection != 0 {
		parts = append(parts, "mag_yaw_correction")
	}
	if c&TrackingCapPosition != 0 {
		parts = append(parts, "position")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Type is a headset model, used to pick the debug device profile.
type Type int

const (
	TypeDK1 Type = iota + 1
	TypeDK2
)

// ParseType accepts "DK1" or "DK2" in any case.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DK1":
		return TypeDK1, nil
	case "DK2":
		return TypeDK2, nil
	default:
		return 0, fmt.Errorf("unknown HMD type %q", s)
	}
}

func (t Type) String() string {
	switch t {
	case TypeDK1:
		return "DK1"
	case TypeDK2:
		return "DK2"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}
