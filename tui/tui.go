// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reprise-cli/reprise/playback"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Path is opened right away when set. Otherwise the file picker is shown.
	Path string

	// History starts from the recently played list instead of the picker.
	History bool
}

// Run drives sup until the user quits. The supervisor is closed on return, after
// any file still loading has been abandoned.
func Run(ctx context.Context, sup *playback.Supervisor, options *Options) error {
	bubble := newBubble(ctx, sup, options)
	defer func() {
		bubble.settle()
		sup.Close()
	}()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
