package playback

import "github.com/reprise-cli/reprise/player"

// SetVolume changes the playback level, clamped to [player.Mute, player.Full]. A
// playing decoder cannot change level in place, so it is relaunched at the current
// position. Paused players pick the level up on resume when they respawn.
//
// The only error is a failed relaunch, after which the session is Stopped.
func (s *Supervisor) SetVolume(v player.Volume) error {
	v = v.Clamp()
	if v == s.volume {
		return nil
	}
	s.volume = v

	ss := s.session
	if ss == nil || ss.state != Playing || !ss.mode.SupportsOffset() {
		return nil
	}

	at := s.estimate()
	s.release()
	if err := s.launch(at); err != nil {
		ss.elapsed = at
		ss.state = Stopped
		return err
	}

	ss.log.Debugf("volume %s at %s", v, at)
	return nil
}

func (s *Supervisor) Volume() player.Volume {
	return s.volume
}
