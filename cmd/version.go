package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/reprise-cli/reprise/constant"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// buildInfo returns the build metadata in display order.
func buildInfo() []lo.Entry[string, string] {
	return []lo.Entry[string, string]{
		{Key: "version", Value: constant.Version},
		{Key: "commit", Value: constant.Revision},
		{Key: "built", Value: strings.TrimSpace(constant.BuiltAt)},
		{Key: "by", Value: constant.BuiltBy},
		{Key: "go", Value: runtime.Version()},
		{Key: "platform", Value: runtime.GOOS + "/" + runtime.GOARCH},
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	versionCmd.Flags().BoolP("json", "j", false, "Print build metadata as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build metadata",
	Long:  "Print the reprise version with its commit, build date and platform, then check for a newer release.",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		info := buildInfo()
		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.FromEntries(info)))
			return
		}

		defer version.Notify(cmd.Context())

		cmd.Println(style.New().Bold(true).Foreground(style.AccentColor).Render(constant.Reprise) + "\n")
		for _, e := range info {
			cmd.Printf("  %s %s\n", style.Faint(fmt.Sprintf("%-10s", e.Key)), style.Bold(e.Value))
		}
	},
}
