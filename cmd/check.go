package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reprise-cli/reprise/capability"
	"github.com/reprise-cli/reprise/constant"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/key"
	"github.com/reprise-cli/reprise/open"
	"github.com/reprise-cli/reprise/player"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/toolchain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd reports which playback mode files will open in.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether the ffmpeg toolchain is available",
	Long:  "Detect ffplay and ffprobe, then show which player new files will be opened with.",
	Run: func(cmd *cobra.Command, args []string) {
		tc := toolchain.New()
		available := tc.Detector.Detect(cmd.Context()) == capability.Available

		mode := player.DefaultHandlerBacked
		if available && !viper.GetBool(key.PlayerForceSystem) {
			mode = player.DecoderBacked
		}

		opener, openerArgs, ok := open.Opener(runtime.GOOS)
		openerLine := "none for " + runtime.GOOS
		if ok {
			openerLine = strings.TrimSpace(opener + " " + strings.Join(openerArgs, " "))
		}

		lines := []string{
			row("ffplay", tc.FFplay, tc.Detector.Path(), available),
			row("ffprobe", tc.FFprobe, "", available),
			fmt.Sprintf("%-10s %s", "opener", openerLine),
			fmt.Sprintf("%-10s %s", "mode", style.Bold(mode.String())),
		}

		border := style.SuccessColor
		title := style.New().Bold(true).Foreground(style.SuccessColor).Render(icon.Get(icon.Success) + " Toolchain ready")
		if !available {
			border = style.WarningColor
			title = style.New().Bold(true).Foreground(style.WarningColor).Render(icon.Get(icon.Fail) + " Toolchain not found")
		}

		parts := []string{title, "", strings.Join(lines, "\n")}
		if !available {
			parts = append(parts, "", "Files will open in the system player with no seeking or exit tracking.")
			if hint := installHint(); hint != "" {
				parts = append(parts, "To install it, try running:\n  "+style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
			}
		}

		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2).
			Margin(1, 0)

		fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	},
}

func row(name, binary, path string, ok bool) string {
	status := style.Fg(style.ErrorColor)("missing")
	if ok {
		status = style.Fg(style.SuccessColor)("found")
	}

	line := fmt.Sprintf("%-10s %s %s", name, binary, status)
	if path != "" && path != binary {
		line += " " + style.Faint(path)
	}
	return line
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install ffmpeg"
	case constant.Linux:
		return "sudo apt install ffmpeg"
	case constant.Windows:
		return "scoop install ffmpeg"
	case constant.FreeBSD:
		return "pkg install ffmpeg"
	default:
		return ""
	}
}
