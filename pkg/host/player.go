// Package host drives a stimulus sequence in real time.
//
// A Player owns the render loop: one tick per display frame, one call to
// NextFrame per tick, and one delivery to every Sink. The sequence itself
// never sleeps; pacing lives here.
package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-pointlight/internal/log"
	"github.com/teslashibe/go-pointlight/pkg/protocol"
	"github.com/teslashibe/go-pointlight/pkg/stimulus"
)

// ErrStop is returned by a Sink to end the render loop cleanly
// (e.g., the viewer pressed q).
var ErrStop = errors.New("host: stop requested")

// DefaultFPS is the display rate used when none is configured.
const DefaultFPS = 30.0

// Sink consumes frames.
type Sink interface {
	WriteFrame(f *protocol.FrameData) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(f *protocol.FrameData) error

// WriteFrame calls fn(f).
func (fn SinkFunc) WriteFrame(f *protocol.FrameData) error {
	return fn(f)
}

// Player ticks a sequence at a fixed rate and fans frames out to sinks.
type Player struct {
	mu    sync.Mutex
	seq   *stimulus.Sequence
	sinks []Sink

	fps  float64
	rate time.Duration
	log  *slog.Logger

	running bool

	// Diagnostics
	tickCount  uint64
	errorCount uint64
}

// NewPlayer creates a player for seq. fps <= 0 uses DefaultFPS.
func NewPlayer(seq *stimulus.Sequence, fps float64, sinks ...Sink) *Player {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Player{
		seq:   seq,
		sinks: sinks,
		fps:   fps,
		rate:  time.Duration(float64(time.Second) / fps),
		log:   log.With("component", "player"),
	}
}

// WithLogger replaces the player logger.
func (p *Player) WithLogger(l *slog.Logger) *Player {
	p.log = l
	return p
}

// FPS returns the tick rate.
func (p *Player) FPS() float64 {
	return p.fps
}

// AddSink registers another frame consumer.
func (p *Player) AddSink(s Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sinks = append(p.sinks, s)
}

// Swap replaces the sequence being played and returns the old one.
func (p *Player) Swap(seq *stimulus.Sequence) *stimulus.Sequence {
	p.mu.Lock()
	defer p.mu.Unlock()
	old := p.seq
	p.seq = seq
	p.log.Info("sequence swapped", "action", seq.Name(), "session", seq.ID().String())
	return old
}

// Do runs fn with exclusive access to the current sequence, so control
// commands never interleave with a tick.
func (p *Player) Do(fn func(seq *stimulus.Sequence)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.seq)
}

// Status reports the current sequence state.
func (p *Player) Status() protocol.StatusData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return protocol.StatusData{
		Session: p.seq.ID().String(),
		Action:  p.seq.Name(),
		State:   p.seq.State().String(),
		Elapsed: p.seq.Elapsed(),
		Frames:  p.seq.Frames(),
		Markers: p.seq.Count(),
		Period:  p.seq.Period(),
	}
}

// Stats returns the tick and error counters.
func (p *Player) Stats() (ticks, failures uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tickCount, p.errorCount
}

// Running reports whether Run is active.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Run ticks until ctx is canceled or a sink returns ErrStop.
// It starts the sequence if it is idle.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.rate)
	defer ticker.Stop()

	p.mu.Lock()
	p.running = true
	p.seq.Start()
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	p.log.Info("player started", "fps", p.fps)

	for {
		select {
		case <-ctx.Done():
			ticks, failures := p.Stats()
			p.log.Info("player stopped", "ticks", ticks, "errors", failures)
			return nil
		case <-ticker.C:
			if _, err := p.Tick(); errors.Is(err, ErrStop) {
				ticks, _ := p.Stats()
				p.log.Info("player stopped by sink", "ticks", ticks)
				return nil
			}
		}
	}
}

// Tick advances one display frame and delivers it. Sink failures are
// logged and skipped. The error is ErrStop from a sink or the sequence's
// frame error. Tick must not be called while Run is active.
func (p *Player) Tick() (*protocol.FrameData, error) {
	p.mu.Lock()
	seq := p.seq
	frame, err := seq.NextFrame(1 / p.fps)
	var fd *protocol.FrameData
	if err == nil {
		fd = &protocol.FrameData{
			Session: seq.ID().String(),
			Seq:     seq.Frames(),
			Time:    seq.Elapsed(),
			Action:  seq.Name(),
			Points:  protocol.Points(frame),
		}
	}
	sinks := append([]Sink(nil), p.sinks...)
	p.tickCount++
	ticks := p.tickCount
	p.mu.Unlock()

	if err != nil {
		p.noteError("frame failed", err)
		return nil, err
	}

	for _, s := range sinks {
		if err := s.WriteFrame(fd); err != nil {
			if errors.Is(err, ErrStop) {
				return fd, ErrStop
			}
			p.noteError("sink failed", err)
		}
	}

	if ticks%300 == 0 {
		_, failures := p.Stats()
		p.log.Debug("player heartbeat", "ticks", ticks, "errors", failures, "t", fd.Time)
	}
	return fd, nil
}

// noteError logs the first and every hundredth error.
func (p *Player) noteError(msg string, err error) {
	p.mu.Lock()
	p.errorCount++
	n := p.errorCount
	p.mu.Unlock()
	if n%100 == 1 {
		p.log.Warn(msg, "error", err, "errors", n)
	}
}
