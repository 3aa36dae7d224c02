package playback

import (
	"context"
	"errors"
	"time"

	"github.com/reprise-cli/reprise/player"
)

type manualClock struct {
	t time.Time
}

func (c *manualClock) Now() time.Time {
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type fakeProcess struct {
	mode       player.Mode
	pid        int
	exited     bool
	exitErr    error
	terminated int
	exitChecks int
}

func (p *fakeProcess) Mode() player.Mode { return p.mode }
func (p *fakeProcess) Pid() int          { return p.pid }
func (p *fakeProcess) Running() bool     { return !p.exited && p.terminated == 0 }

func (p *fakeProcess) ExitErr() error {
	p.exitChecks++
	return p.exitErr
}

func (p *fakeProcess) Terminate() error {
	p.terminated++
	return nil
}

type start struct {
	path   string
	offset time.Duration
	volume player.Volume
	mode   player.Mode
}

type fakeLauncher struct {
	fail   map[player.Mode]bool
	starts []start
	procs  []*fakeProcess
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{fail: map[player.Mode]bool{}}
}

func (l *fakeLauncher) Start(path string, settings player.Settings, mode player.Mode) (player.Process, error) {
	if l.fail[mode] {
		return nil, &player.LaunchError{Mode: mode, Err: errors.New("exec: not found")}
	}

	l.starts = append(l.starts, start{
		path:   path,
		offset: settings.Offset,
		volume: settings.Volume.OrElse(player.Full),
		mode:   mode,
	})
	p := &fakeProcess{mode: mode, pid: 1000 + len(l.procs)}
	l.procs = append(l.procs, p)
	return p, nil
}

func (l *fakeLauncher) last() *fakeProcess {
	if len(l.procs) == 0 {
		return nil
	}
	return l.procs[len(l.procs)-1]
}

// live counts processes that were started and never terminated.
func (l *fakeLauncher) live() int {
	n := 0
	for _, p := range l.procs {
		if p.terminated == 0 && !p.exited {
			n++
		}
	}
	return n
}

type fakeProber struct {
	duration time.Duration
	err      error
	calls    int
}

func (p *fakeProber) Probe(context.Context, string) (time.Duration, error) {
	p.calls++
	return p.duration, p.err
}
