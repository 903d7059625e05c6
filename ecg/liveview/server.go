// Package liveview serves a browser view of a playback session. Every
// scheduler tick is pushed to connected clients over a websocket as a JSON
// frame, and clients drive the session with small JSON control messages.
package liveview

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-ecg/ecg/playback"
	"github.com/cwbudde/algo-ecg/ecg/session"
)

var (
	// ErrUnknownCommand reports a control message with an unrecognised cmd.
	ErrUnknownCommand = errors.New("liveview: unknown command")
	// ErrShuttingDown reports a request that arrived after Serve began to
	// shut down.
	ErrShuttingDown = errors.New("liveview: server shutting down")
)

const shutdownTimeout = 5 * time.Second

//go:embed index.html
var indexHTML []byte

// Server exposes a session over HTTP.
type Server struct {
	sess     *session.Session
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	base    context.Context
	closing bool

	// wg counts websocket handlers and filter applications. Add only
	// through track.
	wg sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAllowedOrigin accepts websocket upgrades whose Origin passes fn.
// Without it only same-origin requests are accepted.
func WithAllowedOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// NewServer returns a server for sess. hub must be the one registered as the
// session frame handler.
func NewServer(sess *session.Session, hub *Hub, opts ...Option) *Server {
	s := &Server{
		sess:   sess,
		hub:    hub,
		logger: zap.NewNop(),
		base:   context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the HTTP routes: the viewer page at /, the websocket at /ws
// and a JSON status snapshot at /status.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

// Run listens on addr until ctx ends.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("liveview: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends. Playback started by clients
// is tied to ctx. On return playback is stopped and every client is
// disconnected.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("live view listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		s.mu.Lock()
		s.closing = true
		s.mu.Unlock()

		s.sess.Stop()
		s.hub.closeAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.wg.Wait()
	return err
}

// track reserves a slot in s.wg unless shutdown has begun.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// Dispatch applies one control message and broadcasts the resulting state.
// apply returns once the application has started; its outcome is broadcast
// when it completes.
func (s *Server) Dispatch(ctl Control) error {
	var err error
	switch ctl.Cmd {
	case CmdStart:
		err = s.sess.Start(s.baseContext())
	case CmdStop:
		s.sess.Stop()
	case CmdSeek:
		s.sess.Seek(ctl.Value)
	case CmdSpeed:
		err = s.sess.SetSpeed(ctl.Value)
	case CmdWidth:
		err = s.sess.SetDisplayWidth(ctl.Value)
	case CmdYZoom:
		err = s.sess.SetYZoom(ctl.Value)
	case CmdApply:
		err = s.apply()
	case CmdReset:
		err = s.sess.Reset()
	case CmdStatus:
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, ctl.Cmd)
	}
	if err != nil {
		return err
	}

	s.PushState()
	return nil
}

func (s *Server) apply() error {
	if !s.track() {
		return ErrShuttingDown
	}
	done, err := s.sess.ApplyFilterCascadeAsync(s.baseContext())
	if err != nil {
		s.wg.Done()
		return err
	}

	go func() {
		defer s.wg.Done()
		if err := <-done; err != nil {
			s.logger.Warn("filter application failed", zap.Error(err))
			s.hub.Broadcast(ErrorMessage{Type: TypeError, Cmd: CmdApply, Error: err.Error()})
		}
		s.PushState()
	}()
	return nil
}

// PushState broadcasts the session status and, when a recording is loaded,
// the window at the cursor.
func (s *Server) PushState() {
	for _, msg := range s.state() {
		s.hub.Broadcast(msg)
	}
}

// status reports the session together with the number of connected viewers.
func (s *Server) status() (session.Status, StatusMessage) {
	st := s.sess.Status()
	msg := NewStatusMessage(st)
	msg.Clients = s.hub.Clients()
	return st, msg
}

func (s *Server) state() []any {
	st, msg := s.status()
	msgs := []any{msg}
	if !st.Loaded {
		return msgs
	}

	vf, err := s.sess.ComputeWindow()
	if err != nil {
		s.logger.Debug("window unavailable", zap.Error(err))
		return msgs
	}
	f := session.Frame{
		Playback: playback.Frame{Index: st.Index, Progress: st.Progress},
		View:     vf,
	}
	return append(msgs, NewFrameMessage(f, s.hub.maxPoints))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, msg := s.status()
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		s.logger.Warn("encode status", zap.Error(err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.track() {
		http.Error(w, ErrShuttingDown.Error(), http.StatusServiceUnavailable)
		return
	}
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c, ok := s.hub.add(conn)
	if !ok {
		return
	}
	go c.writePump()

	for _, msg := range s.state() {
		c.sendJSON(msg)
	}

	s.readPump(c)
}

func (s *Server) readPump(c *client) {
	defer s.hub.remove(c)

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", zap.Int64("client", c.id), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))

		var ctl Control
		if err := json.Unmarshal(data, &ctl); err != nil {
			c.sendJSON(ErrorMessage{Type: TypeError, Error: "malformed control message"})
			continue
		}

		if err := s.Dispatch(ctl); err != nil {
			s.logger.Debug("control rejected", zap.String("cmd", ctl.Cmd), zap.Error(err))
			c.sendJSON(ErrorMessage{Type: TypeError, Cmd: ctl.Cmd, Error: err.Error()})
		}
	}
}
