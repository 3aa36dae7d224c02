package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reprise-cli/reprise/color"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/player"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	switch b.state {
	case pickerState:
		return b.viewPicker()
	case historyState:
		return b.viewHistory()
	case loadingState:
		return b.viewLoading()
	case playerState:
		return b.viewPlayer()
	case repeatState:
		return b.viewRepeat()
	case errorState:
		return b.viewError()
	default:
		return "Unknown state"
	}
}

func (b *statefulBubble) viewPicker() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Open Video"),
			"",
			style.Faint(b.pickerC.CurrentDirectory),
			"",
			b.pickerC.View(),
		},
	)
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " Probing " + style.Fg(color.Purple)(filepath.Base(b.loadingPath)),
		},
	)
}

func (b *statefulBubble) viewPlayer() string {
	status := b.sup.Status()

	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(fmt.Sprintf("%s %s", icon.Get(icon.Video), style.Fg(color.Purple)(filepath.Base(status.Path)))),
	}

	if b.showPath {
		lines = append(lines, style.Truncate(b.width)(style.Faint(status.Path)))
	}

	lines = append(lines,
		style.Faint(describeMode(status.Mode)),
		"",
		fmt.Sprintf("%s %s", stateIcon(status.State), style.Bold(util.Capitalize(status.State.String()))),
		b.progressC.ViewAs(status.Progress()),
		fmt.Sprintf("%s / %s  %s", util.Clock(status.Elapsed), util.Clock(status.Duration), style.Faint("vol "+status.Volume.String())),
		"",
		describeRepeat(status),
	)

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewRepeat() string {
	lines := []string{
		style.Title("Repeat"),
		"",
		b.repeatC.View(),
	}

	if notice, ok := b.repeatNotice.Get(); ok {
		lines = append(lines, "", style.Fg(color.Red)(notice))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

func stateIcon(s playback.State) string {
	switch s {
	case playback.Playing:
		return icon.Get(icon.Play)
	case playback.Paused:
		return icon.Get(icon.Pause)
	default:
		return icon.Get(icon.Stop)
	}
}

func describeMode(m player.Mode) string {
	if m == player.DecoderBacked {
		return "ffplay window"
	}
	return "system player, position is estimated"
}

func describeRepeat(s playback.Status) string {
	if s.Repeat.IsInfinite() {
		return fmt.Sprintf("%s cycle %d of %s", icon.Get(icon.Infinity), s.Cycle(), "∞")
	}
	return fmt.Sprintf("%s cycle %d of %d", icon.Get(icon.Repeat), s.Cycle(), int(s.Repeat))
}
