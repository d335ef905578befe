// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package render rasterizes a scene.Group into an image, the way a
// snapshot of a 3D sub-scene is taken: an explicit camera, a viewport
// and a fill color.
package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/relabs-tech/hmdview/internal/scene"
)

// MinNearClip replaces a near clip distance of zero or less.
const MinNearClip = 1e-3

// SnapshotParams selects how Snapshot renders.
type SnapshotParams struct {
	// Camera overrides the group's camera when set.
	Camera *scene.PerspectiveCamera
	// DepthBuffer enables the z-buffer. Without it triangles are
	// painted back to front.
	DepthBuffer bool
	// Viewport is the output rectangle. The camera looks through its center.
	Viewport image.Rectangle
	// Fill is the background. Nil uses the group background.
	Fill color.Color
}

// Snapshot renders g into a new image covering params.Viewport.
func Snapshot(g *scene.Group, params SnapshotParams) *image.RGBA {
	img := image.NewRGBA(params.Viewport)
	if params.Viewport.Empty() {
		return img
	}

	fill := params.Fill
	if fill == nil {
		fill = g.Background
	}
	fillRGBA := color.RGBAModel.Convert(fill).(color.RGBA)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = fillRGBA.R
		img.Pix[i+1] = fillRGBA.G
		img.Pix[i+2] = fillRGBA.B
		img.Pix[i+3] = fillRGBA.A
	}

	cam := params.Camera
	if cam == nil {
		cam = g.Camera
	}
	if cam == nil {
		return img
	}

	r := newRasterizer(img, cam, params.DepthBuffer)
	for _, box := range g.Boxes {
		for _, tri := range box.Triangles() {
			r.add(tri, box.Material)
		}
	}
	r.flush()
	return img
}

// camTriangle is a triangle in camera space, already clipped.
type camTriangle struct {
	v      [3]mgl64.Vec3
	normal mgl64.Vec3
	mat    scene.PhongMaterial
}

type rasterizer struct {
	img    *image.RGBA
	view   mgl64.Mat4
	near   float64
	far    float64
	focal  float64
	cx, cy float64

	depth   []float64
	pending []camTriangle
}

func newRasterizer(img *image.RGBA, cam *scene.PerspectiveCamera, depthBuffer bool) *rasterizer {
	b := img.Bounds()
	near := cam.NearClip
	if near <= 0 {
		near = MinNearClip
	}
	fov := cam.FieldOfView
	if fov <= 0 || fov >= 180 {
		fov = 45
	}

	r := &rasterizer{
		img:   img,
		view:  cam.View(),
		near:  near,
		far:   cam.FarClip,
		focal: float64(b.Dy()) / 2 / math.Tan(mgl64.DegToRad(fov)/2),
		cx:    float64(b.Min.X) + float64(b.Dx())/2,
		cy:    float64(b.Min.Y) + float64(b.Dy())/2,
	}
	if r.far <= r.near {
		r.far = math.Inf(1)
	}
	if depthBuffer {
		r.depth = make([]float64, b.Dx()*b.Dy())
		for i := range r.depth {
			r.depth[i] = math.Inf(1)
		}
	}
	return r
}

func (r *rasterizer) add(tri scene.Triangle, mat scene.PhongMaterial) {
	var v [3]mgl64.Vec3
	for i, p := range tri.V {
		v[i] = r.view.Mul4x1(p.Vec4(1)).Vec3()
	}
	n := r.view.Mul4x1(tri.Normal.Vec4(0)).Vec3()

	// back faces: the eye sits at the camera origin
	if n.Dot(v[0]) >= 0 {
		return
	}

	poly := clip(v[:], func(p mgl64.Vec3) float64 { return p[2] - r.near })
	poly = clip(poly, func(p mgl64.Vec3) float64 { return r.far - p[2] })
	for i := 1; i+1 < len(poly); i++ {
		ct := camTriangle{v: [3]mgl64.Vec3{poly[0], poly[i], poly[i+1]}, normal: n, mat: mat}
		if r.depth != nil {
			r.draw(ct)
		} else {
			r.pending = append(r.pending, ct)
		}
	}
}

// flush paints deferred triangles farthest first.
func (r *rasterizer) flush() {
	sort.SliceStable(r.pending, func(i, j int) bool {
		return centroidZ(r.pending[i]) > centroidZ(r.pending[j])
	})
	for _, t := range r.pending {
		r.draw(t)
	}
	r.pending = nil
}

func centroidZ(t camTriangle) float64 {
	return (t.v[0][2] + t.v[1][2] + t.v[2][2]) / 3
}

// clip keeps the part of a convex polygon where inside(p) >= 0.
func clip(poly []mgl64.Vec3, inside func(mgl64.Vec3) float64) []mgl64.Vec3 {
	if len(poly) == 0 {
		return nil
	}
	out := make([]mgl64.Vec3, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	dPrev := inside(prev)
	for _, cur := range poly {
		dCur := inside(cur)
		if (dCur >= 0) != (dPrev >= 0) {
			t := dPrev / (dPrev - dCur)
			out = append(out, prev.Add(cur.Sub(prev).Mul(t)))
		}
		if dCur >= 0 {
			out = append(out, cur)
		}
		prev, dPrev = cur, dCur
	}
	return out
}

func (r *rasterizer) project(p mgl64.Vec3) (float64, float64) {
	return r.cx + r.focal*p[0]/p[2], r.cy + r.focal*p[1]/p[2]
}

func (r *rasterizer) draw(t camTriangle) {
	x0, y0 := r.project(t.v[0])
	x1, y1 := r.project(t.v[1])
	x2, y2 := r.project(t.v[2])

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}

	b := r.img.Bounds()
	minX := max(b.Min.X, int(math.Floor(min(x0, x1, x2))))
	maxX := min(b.Max.X-1, int(math.Ceil(max(x0, x1, x2))))
	minY := max(b.Min.Y, int(math.Floor(min(y0, y1, y2))))
	maxY := min(b.Max.Y-1, int(math.Ceil(max(y0, y1, y2))))

	iz0, iz1, iz2 := 1/t.v[0][2], 1/t.v[1][2], 1/t.v[2][2]
	normal := t.normal.Normalize()

	for py := minY; py <= maxY; py++ {
		sy := float64(py) + 0.5
		for px := minX; px <= maxX; px++ {
			sx := float64(px) + 0.5
			w0 := edge(x1, y1, x2, y2, sx, sy) / area
			w1 := edge(x2, y2, x0, y0, sx, sy) / area
			w2 := edge(x0, y0, x1, y1, sx, sy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := 1 / (w0*iz0 + w1*iz1 + w2*iz2)
			if r.depth != nil {
				i := (py-b.Min.Y)*b.Dx() + (px - b.Min.X)
				if z >= r.depth[i] {
					continue
				}
				r.depth[i] = z
			}

			pos := mgl64.Vec3{(sx - r.cx) * z / r.focal, (sy - r.cy) * z / r.focal, z}
			r.img.SetRGBA(px, py, shade(t.mat, normal, pos))
		}
	}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// Ambient is the light every surface receives regardless of orientation.
const Ambient = 0.15

// shade lights a camera-space point with a white point light at the eye.
func shade(mat scene.PhongMaterial, n, pos mgl64.Vec3) color.RGBA {
	toEye := pos.Mul(-1).Normalize()
	diffuse := math.Max(0, n.Dot(toEye))

	var highlight float64
	if mat.SpecularColor.A != 0 {
		reflect := n.Mul(2 * n.Dot(toEye)).Sub(toEye)
		highlight = math.Pow(math.Max(0, reflect.Dot(toEye)), mat.SpecularPower)
	}

	k := math.Min(1, Ambient+(1-Ambient)*diffuse)
	channel := func(d, s uint8) uint8 {
		v := float64(d)*k + float64(s)*highlight
		return uint8(math.Min(255, math.Round(v)))
	}
	return color.RGBA{
		R: channel(mat.DiffuseColor.R, mat.SpecularColor.R),
		G: channel(mat.DiffuseColor.G, mat.SpecularColor.G),
		B: channel(mat.DiffuseColor.B, mat.SpecularColor.B),
		A: 0xff,
	}
}
