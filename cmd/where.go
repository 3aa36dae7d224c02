package cmd

import (
	"os"

	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is a path reprise writes to. An empty short flag means long form only.
type location struct {
	label string
	flag  string
	short string
	path  func() string
	// hidden locations are only printed when asked for by flag.
	hidden bool
}

var locations = []location{
	{label: "Config", flag: "config", short: "c", path: where.ConfigFile},
	{label: "History", flag: "history", short: "H", path: where.History},
	{label: "Logs", flag: "logs", short: "l", path: where.Logs},
	{label: "Durations cache", flag: "cache", path: where.Cache, hidden: true},
}

func (l location) describe() string {
	path := l.path()
	line := style.Bold(l.label) + " " + style.Faint("--"+l.flag) + "\n" + path
	if exists, err := filesystem.API().Exists(path); err == nil && !exists {
		line += " " + style.Fg(style.WarningColor)("(not created yet)")
	}
	return line
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, "Print only the "+l.label+" path")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where reprise keeps its config, history and logs",
	Run: func(cmd *cobra.Command, args []string) {
		if l, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		}); ok {
			cmd.Println(l.path())
			return
		}

		shown := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })
		for i, l := range shown {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(l.describe())
		}
	},
}
