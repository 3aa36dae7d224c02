package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/reprise-cli/reprise/capability"
	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/probe"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/toolchain"
	"github.com/reprise-cli/reprise/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().BoolP("seconds", "s", false, "Print the duration in seconds only")
}

// probeCmd prints the duration playback would use for a file.
var probeCmd = &cobra.Command{
	Use:               "probe <file>",
	Short:             "Print the duration of a video file",
	Long:              "Ask ffprobe for the container duration. Without the toolchain, or when probing fails, the 5 minute fallback is shown.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionVideoFiles,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := durationTarget(args[0])
		handleErr(err)

		tc := toolchain.New()
		d, err := tc.Prober.Probe(cmd.Context(), path)
		fallback := err != nil || d <= 0 || tc.Detector.Detect(cmd.Context()) != capability.Available
		if fallback {
			d = probe.Fallback
		}

		if lo.Must(cmd.Flags().GetBool("seconds")) {
			fmt.Printf("%.3f\n", d.Seconds())
			return
		}

		line := fmt.Sprintf("%s %s %s", icon.Get(icon.Video), style.Bold(util.FileStem(path)), util.Clock(d))
		if fallback {
			reason := "toolchain unavailable"
			var probeErr *probe.Error
			if errors.As(err, &probeErr) {
				reason = probeErr.Err.Error()
			}
			line += " " + style.Faint("(fallback: "+reason+")")
		}
		fmt.Println(line)
	},
}

// durationTarget makes arg absolute, so a file named like a flag reaches ffprobe as a
// path, and checks that it can be read.
func durationTarget(arg string) (string, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	if err := filesystem.Readable(path); err != nil {
		return "", err
	}
	return path, nil
}
