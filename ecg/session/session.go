// Package session is the control surface of the ECG viewer. It owns a signal
// buffer, a playback cursor with its scheduler and the view calculators, and
// serialises every call into them.
//
// Buffer mutations (load, reset, committing a filter result, ticks) take the
// write lock; window computation and export take the read lock. At most one
// filter application runs at a time. A filter result computed from a buffer
// that has since been reset or reloaded is discarded.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/ecg"
	"github.com/cwbudde/algo-ecg/ecg/cascade"
	"github.com/cwbudde/algo-ecg/ecg/playback"
	"github.com/cwbudde/algo-ecg/ecg/signalbuf"
	"github.com/cwbudde/algo-ecg/ecg/view"
)

// Frame is the display state after one playback tick.
type Frame struct {
	Playback playback.Frame
	View     view.Frame
}

// Status summarises the session for a UI.
type Status struct {
	Loaded           bool
	Samples          int
	Rate             float64
	ApplicationCount int
	Filtered         bool
	Applying         bool
	State            playback.State
	Index            int
	Progress         float64
	Speed            float64
	DisplayWidth     float64
	YZoom            float64
}

// Session is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	buf    *signalbuf.Buffer
	cursor *playback.Cursor
	yZoom  float64

	viewMu sync.Mutex
	views  view.Pair

	sched    *playback.Scheduler
	applying atomic.Bool
	wg       sync.WaitGroup

	logger  *zap.Logger
	onFrame func(Frame)
}

// New returns an empty session.
func New(opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := positive("y zoom", cfg.yZoom); err != nil {
		return nil, err
	}
	cursor, err := playback.NewCursor(cfg.playback...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		buf:     signalbuf.New(cfg.cascade...),
		cursor:  cursor,
		yZoom:   cfg.yZoom,
		logger:  cfg.logger,
		onFrame: cfg.onFrame,
	}
	s.sched = s.newScheduler()
	return s, nil
}

func (s *Session) newScheduler() *playback.Scheduler {
	// step and publish run on the scheduler goroutine, so last needs no lock.
	var last Frame
	step := func() (playback.Frame, bool) {
		f, ok := s.Tick()
		if ok {
			last = f
		}
		return f.Playback, ok
	}
	publish := func(pf playback.Frame) {
		last.Playback = pf
		if s.onFrame != nil {
			s.onFrame(last)
		}
	}
	sched := playback.NewScheduler(step, publish, s.cursor.TickInterval())
	sched.OnExpire(func() {
		s.mu.Lock()
		s.cursor.Stop()
		s.mu.Unlock()
		s.logger.Debug("playback stopped: context ended")
	})
	return sched
}

// Load replaces the recording. Playback stops and the cursor moves to 0.
// A rejected recording leaves the session unchanged.
func (s *Session) Load(samples []float64, rate float64) error {
	s.mu.Lock()
	if err := s.buf.Load(samples, rate); err != nil {
		s.mu.Unlock()
		s.logger.Warn("load rejected", zap.Int("samples", len(samples)), zap.Float64("rate", rate), zap.Error(err))
		return err
	}
	s.cursor.SetBuffer(len(samples), rate)

	s.viewMu.Lock()
	s.views.Reset()
	s.viewMu.Unlock()
	s.mu.Unlock()

	// The cursor is already stopped, so a tick racing with this is a no-op.
	s.sched.Stop()

	s.logger.Info("recording loaded", zap.Int("samples", len(samples)), zap.Float64("rate", rate))
	return nil
}

// Reset restores the original recording and discards any in-flight filter
// result.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.buf.Reset(); err != nil {
		return err
	}
	s.logger.Info("filter reset")
	return nil
}

// ApplyFilterCascade runs the cascade once over the current samples and
// waits for the result.
func (s *Session) ApplyFilterCascade() error {
	done, err := s.ApplyFilterCascadeAsync(context.Background())
	if err != nil {
		return err
	}
	return <-done
}

// ApplyFilterCascadeAsync starts one filter application in the background.
//
// It fails immediately with ecg.ErrNotLoaded on an empty session and with
// ecg.ErrConcurrentOperation while another application is running. Otherwise
// the returned channel delivers the outcome: nil once the result is
// committed, ecg.ErrStaleResult if the buffer was reset or reloaded in the
// meantime, the context error if ctx ended first, or a filter error.
func (s *Session) ApplyFilterCascadeAsync(ctx context.Context) (<-chan error, error) {
	if !s.applying.CompareAndSwap(false, true) {
		return nil, ecg.ErrConcurrentOperation
	}

	s.mu.RLock()
	snap, err := s.buf.Snapshot()
	opts := s.buf.Options()
	s.mu.RUnlock()
	if err != nil {
		s.applying.Store(false)
		return nil, err
	}

	done := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.filterAndCommit(ctx, snap, opts)
		s.applying.Store(false)
		done <- err
	}()

	return done, nil
}

func (s *Session) filterAndCommit(ctx context.Context, snap signalbuf.Snapshot, opts []cascade.Option) error {
	c, err := cascade.New(snap.Rate, opts...)
	if err != nil {
		s.logger.Warn("filter design failed", zap.Float64("rate", snap.Rate), zap.Error(err))
		return err
	}

	out, err := c.Apply(snap.Current)
	if err != nil {
		s.logger.Warn("filter application failed", zap.Int("samples", len(snap.Current)), zap.Error(err))
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("session: filter application abandoned: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.buf.Commit(snap.Generation, out); err != nil {
		s.logger.Debug("filter result discarded", zap.Uint64("generation", snap.Generation), zap.Error(err))
		return err
	}

	s.logger.Info("filter applied",
		zap.Int("applications", s.buf.ApplicationCount()),
		zap.Int("samples", len(out)),
	)
	return nil
}

// Start begins playback. On an empty session it returns ecg.ErrNoData and
// stays stopped.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	err := s.cursor.Start()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("playback not started", zap.Error(err))
		return err
	}

	s.sched.Start(ctx)
	s.logger.Info("playback started")
	return nil
}

// Stop ends playback. When Stop returns no further tick is applied.
func (s *Session) Stop() {
	s.mu.Lock()
	s.cursor.Stop()
	s.mu.Unlock()

	s.sched.Stop()
	s.logger.Debug("playback stopped")
}

// Tick advances playback by one step and returns the new frame. It reports
// false while stopped. The scheduler calls it; manual stepping is useful for
// tests and headless rendering.
func (s *Session) Tick() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, ok := s.cursor.Tick()
	if !ok {
		return Frame{}, false
	}

	vf, err := s.computeLocked()
	if err != nil {
		s.logger.Warn("window computation failed", zap.Error(err))
	}

	return Frame{
		Playback: playback.Frame{Index: s.cursor.Index(), Progress: progress},
		View:     vf,
	}, true
}

// Seek moves the cursor while stopped. It is ignored during playback.
func (s *Session) Seek(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Seek(fraction)
}

// SetSpeed sets the playback speed multiplier.
func (s *Session) SetSpeed(speed float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.SetSpeed(speed)
}

// SetDisplayWidth sets the visible window in seconds.
func (s *Session) SetDisplayWidth(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.SetDisplayWidth(seconds)
}

// SetYZoom sets the vertical zoom factor.
func (s *Session) SetYZoom(zoom float64) error {
	if err := positive("y zoom", zoom); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.yZoom = zoom
	return nil
}

// ComputeWindow returns the windows of the raw and current traces at the
// cursor.
func (s *Session) ComputeWindow() (view.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.buf.Loaded() {
		return view.Frame{}, ecg.ErrNotLoaded
	}
	return s.computeLocked()
}

// computeLocked requires s.mu to be held.
func (s *Session) computeLocked() (view.Frame, error) {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()

	return s.views.Compute(
		s.cursor.Index(),
		s.cursor.DisplayWidth(),
		s.buf.Rate(),
		s.yZoom,
		s.buf.OriginalView(),
		s.buf.CurrentView(),
	)
}

// Export returns the (time, original, filtered) table.
func (s *Session) Export() (signalbuf.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf.Export()
}

// Status returns a consistent summary of the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		Loaded:           s.buf.Loaded(),
		Samples:          s.buf.Len(),
		Rate:             s.buf.Rate(),
		ApplicationCount: s.buf.ApplicationCount(),
		Filtered:         s.buf.Filtered(),
		Applying:         s.applying.Load(),
		State:            s.cursor.State(),
		Index:            s.cursor.Index(),
		Progress:         s.cursor.Progress(),
		Speed:            s.cursor.Speed(),
		DisplayWidth:     s.cursor.DisplayWidth(),
		YZoom:            s.yZoom,
	}
}

// Close stops playback and waits for background filter applications.
func (s *Session) Close() {
	s.Stop()
	s.wg.Wait()
}

func positive(name string, v float64) error {
	if !(v > 0) || !core.IsFinite(v) {
		return fmt.Errorf("%w: %s must be > 0: %v", ecg.ErrInvalidInput, name, v)
	}
	return nil
}
