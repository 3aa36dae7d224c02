package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{b.pickerC.Init(), b.tick()}

	switch {
	case b.options.Path != "":
		cmds = append(cmds, b.load(b.options.Path))
	case b.options.History:
		cmd, err := b.loadHistory()
		if err != nil {
			b.raiseError(err)
			break
		}
		b.newState(historyState)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}
