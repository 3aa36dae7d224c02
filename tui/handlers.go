package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reprise-cli/reprise/history"
	"github.com/reprise-cli/reprise/log"
)

type tickMsg time.Time

type loadedMsg struct {
	path string
}

func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(b.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// load runs Load off the event loop. Nothing else touches the supervisor until the
// result arrives, since every other message is ignored in loadingState.
func (b *statefulBubble) load(path string) tea.Cmd {
	b.loadingPath = path
	b.newState(loadingState)

	return tea.Batch(b.spinnerC.Tick, b.startLoad(path))
}

// loadRun tracks one Load running off the event loop.
type loadRun struct {
	mu        sync.Mutex
	started   bool
	abandoned bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// startLoad returns the command performing Load. settle cancels and waits for it.
func (b *statefulBubble) startLoad(path string) tea.Cmd {
	ctx, cancel := context.WithCancel(b.ctx)
	run := &loadRun{cancel: cancel, done: make(chan struct{})}
	b.loadRun = run

	return func() tea.Msg {
		run.mu.Lock()
		if run.abandoned {
			run.mu.Unlock()
			return nil
		}
		run.started = true
		run.mu.Unlock()

		defer close(run.done)
		defer cancel()

		if err := b.sup.Load(ctx, path); err != nil {
			return err
		}
		return loadedMsg{path: b.sup.Status().Path}
	}
}

// settle cancels an unfinished Load and blocks until it has returned, so the
// supervisor can be closed from the caller's goroutine. A Load that never started
// is prevented from starting.
func (b *statefulBubble) settle() {
	run := b.loadRun
	if run == nil {
		return
	}

	run.mu.Lock()
	run.abandoned = true
	started := run.started
	run.mu.Unlock()

	run.cancel()
	if started {
		<-run.done
	}
}

func (b *statefulBubble) onLoaded(msg loadedMsg) {
	b.recorded = 0
	if err := history.Opened(msg.path, b.sup.Repeat()); err != nil {
		log.Warnf("save history: %v", err)
	}

	b.setState(playerState)
	if err := b.sup.Play(); err != nil {
		b.raiseError(err)
	}
}

// advance ticks the supervisor and writes newly completed cycles to history.
func (b *statefulBubble) advance() {
	err := b.sup.Tick()

	status := b.sup.Status()
	switch {
	case status.Completed > b.recorded:
		if err := history.AddCycles(status.Path, status.Completed-b.recorded); err != nil {
			log.Warnf("save history: %v", err)
		}
		b.recorded = status.Completed
	case status.Completed < b.recorded:
		b.recorded = status.Completed
	}

	if err != nil {
		b.raiseError(err)
	}
}

func (b *statefulBubble) loadHistory() (tea.Cmd, error) {
	records, err := history.Sorted()
	if err != nil {
		return nil, err
	}

	items := make([]list.Item, 0, len(records))
	for _, r := range records {
		items = append(items, &listItem{record: r})
	}

	return b.historyC.SetItems(items), nil
}
