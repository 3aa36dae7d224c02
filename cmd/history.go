package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reprise-cli/reprise/color"
	"github.com/reprise-cli/reprise/history"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("remove", "d", "", "Forget a file, matched by path or fuzzy name")
	historyCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many entries")
}

// historyCmd lists and prunes recently played files.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently played files",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("remove") {
			removeFromHistory(
				lo.Must(cmd.Flags().GetString("remove")),
				lo.Must(cmd.Flags().GetBool("yes")),
			)
			return
		}

		records, err := history.Sorted()
		handleErr(err)

		if len(records) == 0 {
			fmt.Println(style.Faint("No files played yet"))
			return
		}

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && limit < len(records) {
			records = records[:limit]
		}

		for _, r := range records {
			fmt.Printf(
				"%s %s %s\n  %s\n",
				style.Fg(color.Purple)(r.Name()),
				style.Fg(color.Yellow)("x"+r.Repeat.String()),
				style.Faint(util.Quantify(r.Cycles, "cycle", "cycles")),
				style.Faint(r.Path),
			)
		}
	},
}

func removeFromHistory(query string, yes bool) {
	found, err := history.Find(query)
	handleErr(err)

	record, ok := found.Get()
	if !ok {
		handleErr(fmt.Errorf("no history entry matches %q", query))
	}

	if !yes {
		var confirm bool
		err = survey.AskOne(&survey.Confirm{
			Message: fmt.Sprintf("Forget %s?", record.Path),
		}, &confirm)
		handleErr(err)
		if !confirm {
			return
		}
	}

	handleErr(history.Remove(record.Path))

	fmt.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), record.Name())
}
