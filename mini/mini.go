// Package mini implements a line based interface built on prompts, for terminals
// where the full screen UI is unwanted.
package mini

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/util"
	"github.com/samber/lo"
)

var truncateAt = 100

type Options struct {
	Path    string
	History bool
}

type mini struct {
	ctx context.Context
	sup *playback.Supervisor

	state state
	trail util.Trail[state]

	path string

	// recorded is the number of completed cycles already written to history.
	recorded int
}

func newMini(ctx context.Context, sup *playback.Supervisor) *mini {
	return &mini{
		ctx: ctx,
		sup: sup,
	}
}

func (m *mini) previousState() {
	if s, ok := m.trail.Back().Get(); ok {
		m.setState(s)
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{playState}, m.state) {
		m.trail.Visit(m.state)
	}

	m.setState(s)
}

// Run prompts until the user quits. The supervisor is closed on return.
func Run(ctx context.Context, sup *playback.Supervisor, options *Options) error {
	m := newMini(ctx, sup)
	defer sup.Close()

	switch {
	case options.Path != "":
		m.path = options.Path
		m.state = playState
	case options.History:
		m.state = historySelectState
	default:
		m.state = fileSelectState
	}

	if w, _, err := util.TerminalSize(); err == nil {
		truncateAt = w
	}

	for m.state != quitState {
		if err := m.handleState(); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}
	}

	return nil
}

func (m *mini) handleState() error {
	switch m.state {
	case fileSelectState:
		return m.handleFileSelectState()
	case historySelectState:
		return m.handleHistorySelectState()
	case repeatState:
		return m.handleRepeatState()
	case playState:
		return m.handlePlayState()
	case afterPlayState:
		return m.handleAfterPlayState()
	}

	return nil
}
