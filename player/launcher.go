package player

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/reprise-cli/reprise/log"
)

// ErrNoBackend is returned when no backend is registered for the requested mode.
var ErrNoBackend = errors.New("no backend for mode")

// LaunchError reports that a playback process could not be spawned.
type LaunchError struct {
	Mode Mode
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s player: %v", e.Mode, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Launcher spawns playback processes through per-mode backends.
type Launcher struct {
	backends map[Mode]Backend
	grace    time.Duration
}

// NewLauncher returns a Launcher. grace bounds each wait while terminating a process.
func NewLauncher(grace time.Duration, backends ...Backend) *Launcher {
	l := &Launcher{
		backends: make(map[Mode]Backend, len(backends)),
		grace:    grace,
	}
	for _, b := range backends {
		l.backends[b.Mode()] = b
	}
	return l
}

// Start spawns a player for path using the backend for mode.
// Modes without offset support start from the beginning.
func (l *Launcher) Start(path string, settings Settings, mode Mode) (Process, error) {
	backend, ok := l.backends[mode]
	if !ok {
		return nil, &LaunchError{Mode: mode, Err: ErrNoBackend}
	}

	target, err := validateTarget(path)
	if err != nil {
		return nil, &LaunchError{Mode: mode, Err: err}
	}

	if settings.Offset < 0 {
		settings.Offset = 0
	}
	if settings.Offset > 0 && !mode.SupportsOffset() {
		log.Debugf("%s player ignores start offset %s", mode, settings.Offset)
		settings.Offset = 0
	}

	cmd, err := backend.Command(target, settings)
	if err != nil {
		return nil, &LaunchError{Mode: mode, Err: err}
	}

	// Own process group, so termination reaches anything the player forks.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Mode: mode, Err: err}
	}

	h := newHandle(mode, cmd, l.grace)
	h.log.Infof("spawned %s at %s", filepath.Base(cmd.Path), settings.Offset)
	return h, nil
}

// validateTarget keeps a file path from being read as a player flag.
func validateTarget(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return "", errors.New("empty path")
	}

	if strings.ContainsAny(p, "\x00\n\r") {
		return "", errors.New("invalid control characters in path")
	}

	if strings.HasPrefix(p, "-") {
		return "", fmt.Errorf("path must not start with '-': %s", p)
	}

	return filepath.Clean(p), nil
}
