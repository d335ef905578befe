// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package window

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/scene"
)

func newTestServer(t *testing.T, w *Window) (*httptest.Server, prometheus.Counter) {
	t.Helper()
	reg := prometheus.NewRegistry()
	served := prometheus.NewCounter(prometheus.CounterOpts{Name: "frames_served_total", Help: "test"})
	reg.MustRegister(served)

	srv := httptest.NewServer(NewWebServer(w, WebOptions{
		Gatherer:     reg,
		FramesServed: served,
		Logger:       zerolog.Nop(),
	}).Handler())
	t.Cleanup(srv.Close)
	return srv, served
}

func TestWeb_PoseBeforeFirstFrame(t *testing.T) {
	srv, _ := newTestServer(t, New("test", 16, 16))

	resp, err := http.Get(srv.URL + "/api/pose")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWeb_PoseAndCamera(t *testing.T) {
	w := New("test", 16, 16)
	srv, _ := newTestServer(t, w)

	pose := hmd.Posef{Orientation: mgl64.QuatIdent(), Position: mgl64.Vec3{0.1, 0.2, 0.3}}
	w.SetSnapshot(w.Snapshot(), pose, scene.State{Translate: [3]float64{0.1, -0.2, -0.3}, Rotate: 5, RotationAxis: [3]float64{0, 0, 1}})

	resp, err := http.Get(srv.URL + "/api/pose")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg PoseMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	assert.Equal(t, uint64(1), msg.Seq)
	assert.InDelta(t, 0.2, msg.Pose.Position[1], 1e-12)
	assert.Equal(t, 5.0, msg.Camera.Rotate)

	resp2, err := http.Get(srv.URL + "/api/camera")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var cam scene.State
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&cam))
	assert.Equal(t, [3]float64{0.1, -0.2, -0.3}, cam.Translate)
}

func TestWeb_Frames(t *testing.T) {
	w := New("test", 16, 8)
	srv, served := newTestServer(t, w)

	for path, size := range map[string][2]int{
		"/frame/live.png":     {8, 8},
		"/frame/snapshot.png": {8, 8},
		"/frame/window.png":   {16, 8},
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"), path)

		img, err := png.Decode(resp.Body)
		resp.Body.Close()
		require.NoError(t, err, path)
		assert.Equal(t, size[0], img.Bounds().Dx(), path)
		assert.Equal(t, size[1], img.Bounds().Dy(), path)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(served))
}

func TestWeb_IndexAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, New("test", 16, 16))

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body.String(), "/ws")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body.Reset()
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), "frames_served_total")
}

func TestWeb_Stream(t *testing.T) {
	w := New("test", 16, 16)
	srv, served := newTestServer(t, w)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the handler subscribes after the upgrade; keep publishing until a frame lands
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				w.SetSnapshot(solid(w.LiveBounds(), color.RGBA{B: 0xff, A: 0xff}), hmd.IdentityPose(), scene.State{})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	typ, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, typ)
	var msg PoseMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Positive(t, msg.Seq)

	typ, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, typ)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, w.LiveBounds(), img.Bounds())

	assert.Eventually(t, func() bool { return testutil.ToFloat64(served) >= 1 }, time.Second, 10*time.Millisecond)
}

func TestWeb_ServeEndsStreamsOnShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewWebServer(New("test", 16, 16), WebOptions{Logger: zerolog.Nop()})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	cancel()
	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	// the server side of the stream is gone
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "stream still open after shutdown")
	}
}
