package player

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/reprise-cli/reprise/log"
)

// Handle is the Process implementation returned by Launcher.
type Handle struct {
	mode       Mode
	cmd        *exec.Cmd
	grace      time.Duration
	exited     chan struct{} // closed once the process has been reaped
	exitErr    error
	terminated bool
	log        log.Entry
}

func newHandle(mode Mode, cmd *exec.Cmd, grace time.Duration) *Handle {
	h := &Handle{
		mode:   mode,
		cmd:    cmd,
		grace:  grace,
		exited: make(chan struct{}),
		log:    log.With(log.Fields{"mode": mode.String(), "pid": cmd.Process.Pid}),
	}

	// Reap in the background so polling never leaves a zombie behind.
	go func() {
		h.exitErr = cmd.Wait()
		close(h.exited)
	}()

	return h
}

func (h *Handle) Mode() Mode {
	return h.mode
}

func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

func (h *Handle) Running() bool {
	select {
	case <-h.exited:
		return false
	default:
		return true
	}
}

func (h *Handle) ExitErr() error {
	select {
	case <-h.exited:
		return h.exitErr
	default:
		return nil
	}
}

// Terminate asks the process group to stop, escalates to a kill after the grace
// period, and waits for the reaper.
func (h *Handle) Terminate() error {
	if h.terminated {
		return nil
	}
	h.terminated = true

	if !h.Running() {
		h.log.Debugf("already exited: %v", h.exitErr)
		return nil
	}

	if err := terminateProcess(h.cmd); err != nil {
		h.log.Debugf("terminate signal: %v", err)
	}

	select {
	case <-h.exited:
		h.log.Infof("terminated")
		return nil
	case <-time.After(h.grace):
	}

	h.log.Warnf("still running after %s, killing", h.grace)
	if err := killProcess(h.cmd); err != nil {
		h.log.Debugf("kill: %v", err)
	}

	select {
	case <-h.exited:
		return nil
	case <-time.After(h.grace):
		return fmt.Errorf("pid %d did not exit after kill", h.Pid())
	}
}
