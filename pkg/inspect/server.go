// Package inspect serves a debug view of an engine over HTTP.
//
// Endpoints:
//
//	GET /healthz   liveness and the last seen generation
//	GET /tree      the current box as JSON
//	GET /script    the last commit's edit script as JSON
//	GET /metrics   Prometheus metrics, when a gatherer is configured
//	GET /stream    WebSocket of binary protocol frames: a tree frame on
//	               connect, then one script or error frame per commit
//
// The server never touches engine state. Attach converts every commit on the
// engine's goroutine and hands it to the server through a buffered channel.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/bento/pkg/protocol"
)

// DefaultBuffer is the default capacity of the commit hand-off channel.
const DefaultBuffer = 64

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("inspect: server closed")

// Snapshot is what the server publishes for one commit.
type Snapshot struct {
	Tree   *protocol.TreeMessage
	Script *protocol.ScriptMessage // nil for the initial snapshot
	Error  *protocol.ErrorMessage  // set when the surface was reloaded
}

type event struct {
	snap    *Snapshot
	flushed chan struct{}
}

// Server is the inspector.
type Server struct {
	mu     sync.RWMutex
	latest *Snapshot
	hub    *hub

	events chan event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	router   chi.Router
	gatherer prometheus.Gatherer
	requests *requestMetrics
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	logger   *slog.Logger
	buffer   int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithRequestMetrics counts and times inspector requests on reg under
// namespace.
func WithRequestMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(s *Server) {
		s.requests = newRequestMetrics(reg, namespace)
	}
}

// WithTracer traces every inspector request with tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithBuffer sets the capacity of the commit hand-off channel.
func WithBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// New creates a server and starts its publishing goroutine.
func New(opts ...Option) *Server {
	s := &Server{
		done:   make(chan struct{}),
		logger: slog.Default(),
		buffer: DefaultBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // debug tool, any origin
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = newHub(s.logger)
	s.events = make(chan event, s.buffer)
	s.router = s.routes()

	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.tracer != nil {
		r.Use(tracing(s.tracer))
	}
	if s.requests != nil {
		r.Use(s.requests.handler)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Get("/script", s.handleScript)
	r.Get("/stream", s.handleStream)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler of the inspector.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Publish hands a snapshot to the server. It blocks while the buffer is
// full.
func (s *Server) Publish(snap *Snapshot) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.events <- event{snap: snap}:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Flush waits until every snapshot published before the call is visible to
// clients.
func (s *Server) Flush(ctx context.Context) error {
	ev := event{flushed: make(chan struct{})}
	select {
	case s.events <- ev:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ev.flushed:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) loop() {
	defer s.wg.Done()
	for {
		select {
		case ev := <-s.events:
			if ev.flushed != nil {
				close(ev.flushed)
				continue
			}
			s.apply(ev.snap)
		case <-s.done:
			return
		}
	}
}

func (s *Server) apply(snap *Snapshot) {
	var frame *protocol.Frame
	var err error
	switch {
	case snap.Error != nil:
		frame, err = protocol.EncodeError(snap.Error)
	case snap.Script != nil:
		frame, err = protocol.EncodeScript(snap.Script)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap
	if frame == nil {
		if err != nil {
			s.logger.Warn("commit not streamed", "generation", snap.Tree.Generation, "error", err)
		}
		return
	}
	data, err := frame.Encode()
	if err != nil {
		s.logger.Warn("commit not streamed", "generation", snap.Tree.Generation, "error", err)
		return
	}
	s.hub.broadcast(data)
}

// Clients returns the number of connected stream clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub.len()
}

// Close stops the server and disconnects every stream client.
func (s *Server) Close() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.mu.Lock()
		s.hub.closeAll()
		s.mu.Unlock()
	})
}

// ListenAndServe serves the inspector on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves the inspector on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var generation uint64
	if snap := s.snapshot(); snap != nil {
		generation = snap.Tree.Generation
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "generation": generation})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeJSON(w, http.StatusOK, treeJSON{Sections: []sectionJSON{}})
		return
	}
	writeJSON(w, http.StatusOK, newTreeJSON(snap.Tree))
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil || snap.Script == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, newScriptJSON(snap.Script, snap.Error))
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("stream upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientSend)}

	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		conn.Close()
		return
	default:
	}
	if s.latest != nil {
		if frame, err := protocol.EncodeTree(s.latest.Tree); err != nil {
			s.logger.Warn("tree not streamed", "error", err)
		} else if data, err := frame.Encode(); err == nil {
			c.send <- data
		}
	}
	s.hub.add(c)
	s.mu.Unlock()

	go c.writePump(s.logger)
	c.readPump()

	s.mu.Lock()
	s.hub.remove(c)
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
