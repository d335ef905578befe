// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package window

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/relabs-tech/hmdview/internal/hmd"
	"github.com/relabs-tech/hmdview/internal/render"
	"github.com/relabs-tech/hmdview/internal/scene"
)

//go:embed static
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // viewer runs on the local network
	},
}

// WebOptions configures a WebServer.
type WebOptions struct {
	// MaxFPS caps the frames pushed to each websocket client. Zero or
	// less means unlimited.
	MaxFPS float64
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// FramesServed counts PNG frames written to clients, if set.
	FramesServed prometheus.Counter
	Logger       zerolog.Logger
}

// WebServer exposes a Window over HTTP.
type WebServer struct {
	win  *Window
	opts WebOptions
	log  zerolog.Logger

	streams sync.WaitGroup
}

// NewWebServer returns a server for win.
func NewWebServer(win *Window, opts WebOptions) *WebServer {
	return &WebServer{win: win, opts: opts, log: opts.Logger}
}

// PoseMessage is the JSON body of /api/pose and of websocket text messages.
type PoseMessage struct {
	Seq    uint64      `json:"seq"`
	At     time.Time   `json:"at"`
	Pose   hmd.Posef   `json:"pose"`
	Camera scene.State `json:"camera"`
}

func poseMessage(f Frame) PoseMessage {
	return PoseMessage{Seq: f.Seq, At: f.At, Pose: f.Pose, Camera: f.Camera}
}

// Handler returns the HTTP routes.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /", http.FileServerFS(static))

	mux.HandleFunc("GET /api/pose", func(w http.ResponseWriter, r *http.Request) {
		f := s.win.Frame()
		if f.Seq == 0 {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		s.writeJSON(w, poseMessage(f))
	})

	mux.HandleFunc("GET /api/camera", func(w http.ResponseWriter, r *http.Request) {
		_, cam := s.win.Pose()
		s.writeJSON(w, cam)
	})

	mux.HandleFunc("GET /frame/live.png", func(w http.ResponseWriter, r *http.Request) {
		s.writePNG(w, s.win.Live())
	})
	mux.HandleFunc("GET /frame/snapshot.png", func(w http.ResponseWriter, r *http.Request) {
		s.writePNG(w, s.win.Snapshot())
	})
	mux.HandleFunc("GET /frame/window.png", func(w http.ResponseWriter, r *http.Request) {
		s.writePNG(w, s.win.Compose(image.White))
	})

	mux.HandleFunc("GET /ws", s.handleStream)

	if s.opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *WebServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("json encode error")
	}
}

func (s *WebServer) writePNG(w http.ResponseWriter, img image.Image) {
	data, err := render.EncodePNG(img)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		s.log.Debug().Err(err).Msg("png write error")
		return
	}
	s.countFrame()
}

func (s *WebServer) countFrame() {
	if s.opts.FramesServed != nil {
		s.opts.FramesServed.Inc()
	}
}

// handleStream pushes every new snapshot as a JSON text message followed
// by a binary PNG message.
func (s *WebServer) handleStream(w http.ResponseWriter, r *http.Request) {
	s.streams.Add(1)
	defer s.streams.Done()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}
	defer conn.Close()

	frames, cancel := s.win.Subscribe()
	defer cancel()

	limit := rate.Inf
	if s.opts.MaxFPS > 0 {
		limit = rate.Limit(s.opts.MaxFPS)
	}
	limiter := rate.NewLimiter(limit, 1)

	// the client never sends anything useful; reading detects the close.
	// r.Context() derives from the Serve context, so shutdown ends the stream
	// even though the connection is hijacked.
	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	go func() {
		defer stop()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.log.Info().Str("remote", r.RemoteAddr).Msg("stream client connected")
	defer s.log.Info().Str("remote", r.RemoteAddr).Msg("stream client disconnected")

	for {
		select {
		case <-ctx.Done():
			return
		case f := <-frames:
			if !limiter.Allow() {
				continue
			}
			if err := s.sendFrame(conn, f); err != nil {
				s.log.Debug().Err(err).Msg("stream write error")
				return
			}
		}
	}
}

func (s *WebServer) sendFrame(conn *websocket.Conn, f Frame) error {
	if err := conn.WriteJSON(poseMessage(f)); err != nil {
		return err
	}
	data, err := render.EncodePNG(f.Snapshot)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	s.countFrame()
	return nil
}

// Run serves on addr until ctx is done.
func (s *WebServer) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. It returns once every websocket
// stream has ended.
func (s *WebServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("web server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.streams.Wait()
	if err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}
