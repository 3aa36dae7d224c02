package playback

import (
	"time"

	"github.com/reprise-cli/reprise/log"
	"github.com/reprise-cli/reprise/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Play starts the loaded file from its current position, replays a stopped one or
// resumes a paused one. Playing again while playing does nothing.
func (s *Supervisor) Play() error {
	ss := s.session
	if ss == nil {
		return ErrNoMedia
	}

	switch ss.state {
	case Playing:
		return nil
	case Paused:
		return s.resumePaused()
	}

	if err := s.launch(ss.elapsed); err != nil {
		return err
	}

	// A replay after the last cycle starts a fresh run.
	ss.target = s.repeat
	if ss.target.Exhausted(ss.completed) {
		ss.completed = 0
	}
	ss.state = Playing
	return nil
}

func (s *Supervisor) resumePaused() error {
	ss := s.session

	if s.resume == Respawn && ss.mode.SupportsOffset() {
		s.release()
		if err := s.launch(ss.elapsed); err != nil {
			ss.state = Stopped
			return err
		}
	} else {
		ss.offset = ss.elapsed
		ss.startedAt = s.now()
	}

	ss.state = Playing
	ss.log.Debugf("resumed at %s", ss.elapsed)
	return nil
}

// Pause freezes the position and returns the resulting state. Outside Playing it
// only returns the current state.
func (s *Supervisor) Pause() State {
	ss := s.session
	if ss == nil {
		return Idle
	}

	if ss.state != Playing {
		return ss.state
	}

	ss.elapsed = s.estimate()
	ss.state = Paused
	ss.log.Debugf("paused at %s", ss.elapsed)
	return Paused
}

// Stop terminates the player and rewinds. The completed cycle count is kept.
func (s *Supervisor) Stop() {
	ss := s.session
	if ss == nil || !ss.state.Active() {
		return
	}

	s.release()
	ss.elapsed = 0
	ss.offset = 0
	ss.state = Stopped
	ss.log.Infof("stopped")
}

// Seek moves to target, clamped to the file. A playing decoder is relaunched there.
// Players that cannot start at an offset keep playing and only the clock moves.
func (s *Supervisor) Seek(target time.Duration) error {
	ss := s.session
	if ss == nil {
		return ErrNoMedia
	}

	target = lo.Clamp(target, 0, ss.duration)

	if ss.state != Playing || !ss.mode.SupportsOffset() {
		ss.elapsed = target
		ss.offset = target
		ss.startedAt = s.now()
		return nil
	}

	s.release()
	if err := s.launch(target); err != nil {
		ss.elapsed = target
		ss.state = Stopped
		return err
	}

	ss.log.Debugf("seeked to %s", target)
	return nil
}

// launch spawns a player at offset and restarts the clock there. A decoder that
// fails to start demotes the session to the system player, which restarts the
// clock at zero. When both fail the session is left without a process.
func (s *Supervisor) launch(offset time.Duration) error {
	ss := s.session

	settings := player.Settings{Offset: offset, Volume: mo.Some(s.volume)}
	proc, err := s.launcher.Start(ss.path, settings, ss.mode)
	if err != nil && ss.mode == player.DecoderBacked {
		ss.log.Warnf("falling back to the system player: %v", err)

		proc, err = s.launcher.Start(ss.path, player.Settings{}, player.DefaultHandlerBacked)
		if err == nil {
			// The system player always starts from the beginning.
			offset = 0
			ss.mode = player.DefaultHandlerBacked
			ss.log = ss.log.With(log.Fields{"mode": ss.mode.String()})
		}
	}

	if err != nil {
		ss.log.Errorf("launch: %v", err)
		return err
	}

	ss.process = proc
	ss.offset = offset
	ss.elapsed = offset
	ss.startedAt = s.now()
	return nil
}

// release terminates and forgets the player process.
func (s *Supervisor) release() {
	ss := s.session
	if ss == nil || ss.process == nil {
		return
	}

	if err := ss.process.Terminate(); err != nil {
		ss.log.Warnf("terminate pid %d: %v", ss.process.Pid(), err)
	}
	ss.process = nil
}
