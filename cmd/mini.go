package cmd

import (
	"github.com/reprise-cli/reprise/mini"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(miniCmd)

	miniCmd.Flags().BoolP("continue", "c", false, "Pick from the recently played files")
}

// miniCmd launches the prompt based interface.
var miniCmd = &cobra.Command{
	Use:               "mini [file]",
	Short:             "Play through prompts instead of the full screen interface",
	Long:              `Prompt for a file and a repeat count, then show playback on a single refreshing line. Ctrl-C stops.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionVideoFiles,
	Run: func(cmd *cobra.Command, args []string) {
		options := mini.Options{
			History: lo.Must(cmd.Flags().GetBool("continue")),
		}
		if len(args) == 1 {
			options.Path = resolveTarget(args[0])
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()

		handleErr(mini.Run(ctx, newSupervisor(repeatOption(cmd)...), &options))
	},
}
