package playback

// Tick advances the position estimate and handles the end of a cycle, which is the
// clock reaching the duration or, for players that live as long as playback, the
// process going away. An early exit counts as a finished cycle.
//
// The only error is a failed relaunch for the next cycle, after which the session
// is Stopped.
func (s *Supervisor) Tick() error {
	ss := s.session
	if ss == nil || ss.state != Playing {
		return nil
	}

	ss.elapsed = s.estimate()

	exited := ss.mode.TracksExit() && !ss.process.Running()
	if ss.elapsed < ss.duration && !exited {
		return nil
	}

	if ss.elapsed < ss.duration {
		if err := ss.process.ExitErr(); err != nil {
			ss.log.Warnf("player exited at %s of %s: %v", ss.elapsed, ss.duration, err)
		} else {
			ss.log.Warnf("player exited at %s of %s", ss.elapsed, ss.duration)
		}
	}

	return s.complete()
}

func (s *Supervisor) complete() error {
	ss := s.session

	s.release()
	ss.completed++
	ss.elapsed = 0
	ss.offset = 0

	if ss.target.Exhausted(ss.completed) {
		ss.state = Stopped
		ss.log.Infof("finished after %d cycles", ss.completed)
		return nil
	}

	ss.log.Infof("cycle %d done, repeating (target %s)", ss.completed, ss.target)
	if err := s.launch(0); err != nil {
		ss.state = Stopped
		return err
	}

	return nil
}
