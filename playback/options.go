package playback

import (
	"fmt"
	"strings"
	"time"

	"github.com/reprise-cli/reprise/player"
	"github.com/samber/mo"
)

// ResumePolicy decides what happens to the player process when a paused file resumes.
type ResumePolicy int

const (
	// Respawn relaunches the player at the paused position.
	Respawn ResumePolicy = iota
	// Continue only restarts the clock, leaving the player window as it is.
	Continue
)

func (p ResumePolicy) String() string {
	if p == Continue {
		return "continue"
	}
	return "respawn"
}

func ParseResumePolicy(s string) (ResumePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "respawn", "":
		return Respawn, nil
	case "continue":
		return Continue, nil
	default:
		return Respawn, fmt.Errorf("unknown resume policy %q", s)
	}
}

type Option func(*Supervisor)

// WithClock replaces the wall clock used for elapsed estimation.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

func WithResumePolicy(p ResumePolicy) Option {
	return func(s *Supervisor) {
		s.resume = p
	}
}

func WithRepeat(r Repeat) Option {
	return func(s *Supervisor) {
		s.SetRepeat(r)
	}
}

// WithForcedMode skips detection and always plays in mode.
func WithForcedMode(mode player.Mode) Option {
	return func(s *Supervisor) {
		s.forced = mo.Some(mode)
	}
}

// WithVolume sets the level every decoder launch starts at.
func WithVolume(v player.Volume) Option {
	return func(s *Supervisor) {
		s.volume = v.Clamp()
	}
}
