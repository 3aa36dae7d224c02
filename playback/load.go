package playback

import (
	"context"
	"path/filepath"

	"github.com/reprise-cli/reprise/capability"
	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/log"
	"github.com/reprise-cli/reprise/player"
	"github.com/reprise-cli/reprise/probe"
)

// Load replaces the current file with path. The previous player, if any, is
// terminated first, so on failure nothing is loaded.
func (s *Supervisor) Load(ctx context.Context, path string) error {
	s.teardown()

	abs, err := filepath.Abs(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	if err := filesystem.Readable(abs); err != nil {
		return &LoadError{Path: path, Err: err}
	}

	mode := s.selectMode(ctx)
	entry := log.With(log.Fields{"file": filepath.Base(abs), "mode": mode.String()})

	duration := probe.Fallback
	if mode == player.DecoderBacked {
		d, err := s.prober.Probe(ctx, abs)
		switch {
		case err != nil:
			entry.Warnf("probe failed, assuming %s: %v", probe.Fallback, err)
		case d <= 0:
			entry.Warnf("probe returned %s, assuming %s", d, probe.Fallback)
		default:
			duration = d
		}
	}

	s.session = &session{
		path:     abs,
		mode:     mode,
		duration: duration,
		state:    Idle,
		target:   s.repeat,
		log:      entry,
	}

	entry.Infof("loaded, duration %s", duration)
	return nil
}

func (s *Supervisor) selectMode(ctx context.Context) player.Mode {
	if mode, ok := s.forced.Get(); ok {
		return mode
	}

	if s.detector.Detect(ctx) == capability.Available {
		return player.DecoderBacked
	}

	return player.DefaultHandlerBacked
}

func (s *Supervisor) teardown() {
	if s.session == nil {
		return
	}

	s.release()
	s.session.log.Debugf("unloaded")
	s.session = nil
}
