// Package playback supervises one video at a time: it picks how to play it, owns the
// player process, estimates the position from the wall clock and restarts the
// file until its repeat target is reached.
//
// A Supervisor is driven by a single owner. Tick is expected on a fixed period.
package playback

import (
	"context"
	"time"

	"github.com/reprise-cli/reprise/capability"
	"github.com/reprise-cli/reprise/log"
	"github.com/reprise-cli/reprise/player"
	"github.com/samber/mo"
)

type Detector interface {
	Detect(ctx context.Context) capability.Availability
}

type Prober interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
}

type Launcher interface {
	Start(path string, settings player.Settings, mode player.Mode) (player.Process, error)
}

// Supervisor is not safe for concurrent use.
type Supervisor struct {
	detector Detector
	prober   Prober
	launcher Launcher

	now    func() time.Time
	resume ResumePolicy
	forced mo.Option[player.Mode]
	repeat Repeat
	volume player.Volume

	session *session
}

// session is the state of the currently loaded file.
type session struct {
	path     string
	mode     player.Mode
	duration time.Duration

	state     State
	completed int

	// target is the repeat target in force for this run. It differs from the
	// supervisor's only when a lower target arrived mid-run.
	target Repeat

	// elapsed is the position at the last observation. While playing, the live
	// position is offset plus the time since startedAt.
	elapsed   time.Duration
	offset    time.Duration
	startedAt time.Time

	// process is non-nil exactly while state is Playing or Paused.
	process player.Process

	log log.Entry
}

func New(detector Detector, prober Prober, launcher Launcher, opts ...Option) *Supervisor {
	s := &Supervisor{
		detector: detector,
		prober:   prober,
		launcher: launcher,
		now:      time.Now,
		resume:   Respawn,
		forced:   mo.None[player.Mode](),
		repeat:   Once,
		volume:   player.Full,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Status is a snapshot of the supervisor for rendering.
type Status struct {
	Path      string
	Mode      player.Mode
	State     State
	Elapsed   time.Duration
	Duration  time.Duration
	Repeat    Repeat
	Completed int
	Volume    player.Volume
	Loaded    bool
}

// Progress returns the elapsed fraction of the current cycle in [0, 1].
func (s Status) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Elapsed) / float64(s.Duration)
}

// Cycle returns the 1-based number of the cycle being played.
func (s Status) Cycle() int {
	if s.Repeat.Exhausted(s.Completed) {
		return s.Completed
	}
	return s.Completed + 1
}

func (s *Supervisor) Status() Status {
	st := Status{State: Idle, Repeat: s.repeat, Volume: s.volume}

	ss := s.session
	if ss == nil {
		return st
	}

	st.Loaded = true
	st.Path = ss.path
	st.Mode = ss.mode
	st.State = ss.state
	st.Elapsed = s.estimate()
	st.Duration = ss.duration
	st.Completed = ss.completed
	st.Repeat = ss.target
	return st
}

// SetRepeat changes the target for the loaded file and the ones after it.
// Counts below one become Once. Lowering the target to or below the cycles already
// completed during a run lets the current cycle finish as the last one.
func (s *Supervisor) SetRepeat(r Repeat) {
	if !r.IsInfinite() && r < Once {
		r = Once
	}
	s.repeat = r

	ss := s.session
	if ss == nil {
		return
	}

	ss.target = r
	if ss.state.Active() && r.Exhausted(ss.completed) {
		ss.target = Repeat(ss.completed + 1)
		ss.log.Debugf("target %s reached mid run, finishing cycle %d", r, ss.target)
	}
}

func (s *Supervisor) Repeat() Repeat {
	return s.repeat
}

// Close terminates any player and forgets the loaded file.
func (s *Supervisor) Close() {
	s.teardown()
}

// estimate returns the current position clamped to the duration.
func (s *Supervisor) estimate() time.Duration {
	ss := s.session
	if ss.state != Playing {
		return ss.elapsed
	}

	e := ss.offset + s.now().Sub(ss.startedAt)
	switch {
	case e < 0:
		return 0
	case e > ss.duration:
		return ss.duration
	default:
		return e
	}
}
