package tui

import (
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reprise-cli/reprise/history"
	"github.com/reprise-cli/reprise/playback"
	"github.com/samber/mo"
)

const (
	seekStep   = 5 * time.Second
	jumpStep   = 30 * time.Second
	volumeStep = 10
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if b.state != loadingState {
			b.advance()
		}
		return b, b.tick()
	case loadedMsg:
		b.onLoaded(msg)
		return b, nil
	case error:
		b.raiseError(msg)
		return b, nil
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		b.pickerC, cmd = b.pickerC.Update(msg)
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case pickerState:
		return b.updatePicker(msg)
	case historyState:
		return b.updateHistory(msg)
	case loadingState:
		return b.updateLoading(msg)
	case playerState:
		return b.updatePlayer(msg)
	case repeatState:
		return b.updateRepeat(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, nil
}

func (b *statefulBubble) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.openHistory):
			cmd, err := b.loadHistory()
			if err != nil {
				b.raiseError(err)
				return b, nil
			}
			b.newState(historyState)
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.back) && b.sup.Status().Loaded:
			b.newState(playerState)
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.pickerC, cmd = b.pickerC.Update(msg)

	if ok, path := b.pickerC.DidSelectFile(msg); ok {
		return b, tea.Batch(cmd, b.load(path))
	}

	return b, cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && b.historyC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			b.sup.SetRepeat(item.record.Repeat)
			return b, b.load(item.record.Path)
		case bubblesKey.Matches(msg, b.keymap.remove):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			if err := history.Remove(item.record.Path); err != nil {
				b.raiseError(err)
				return b, nil
			}
			b.historyC.RemoveItem(b.historyC.Index())
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.openHistory), bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.historyC, cmd = b.historyC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if msg, ok := msg.(spinner.TickMsg); ok {
		b.spinnerC, cmd = b.spinnerC.Update(msg)
	}
	return b, cmd
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	status := b.sup.Status()

	var err error
	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.playPause):
		if status.State == playback.Playing {
			b.sup.Pause()
		} else {
			err = b.sup.Play()
		}
	case bubblesKey.Matches(keyMsg, b.keymap.stop):
		b.sup.Stop()
	case bubblesKey.Matches(keyMsg, b.keymap.jumpBack):
		err = b.sup.Seek(status.Elapsed - jumpStep)
	case bubblesKey.Matches(keyMsg, b.keymap.jumpForward):
		err = b.sup.Seek(status.Elapsed + jumpStep)
	case bubblesKey.Matches(keyMsg, b.keymap.seekBack):
		err = b.sup.Seek(status.Elapsed - seekStep)
	case bubblesKey.Matches(keyMsg, b.keymap.seekForward):
		err = b.sup.Seek(status.Elapsed + seekStep)
	case bubblesKey.Matches(keyMsg, b.keymap.volumeUp):
		err = b.sup.SetVolume(status.Volume + volumeStep)
	case bubblesKey.Matches(keyMsg, b.keymap.volumeDown):
		err = b.sup.SetVolume(status.Volume - volumeStep)
	case bubblesKey.Matches(keyMsg, b.keymap.editRepeat):
		b.repeatC.SetValue(b.sup.Repeat().String())
		b.repeatC.CursorEnd()
		b.repeatNotice = mo.None[string]()
		b.newState(repeatState)
		return b, b.repeatC.Focus()
	case bubblesKey.Matches(keyMsg, b.keymap.open), bubblesKey.Matches(keyMsg, b.keymap.back):
		b.newState(pickerState)
		return b, nil
	case bubblesKey.Matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	if err != nil {
		b.raiseError(err)
	}

	return b, nil
}

func (b *statefulBubble) updateRepeat(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			repeat, err := playback.ParseRepeat(b.repeatC.Value())
			if err != nil {
				b.repeatNotice = mo.Some(err.Error())
				return b, nil
			}

			b.sup.SetRepeat(repeat)
			b.repeatC.Blur()
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.repeatC.Blur()
			b.previousState()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.repeatC, cmd = b.repeatC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}
	return b, nil
}
