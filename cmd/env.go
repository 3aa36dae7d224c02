package cmd

import (
	"os"
	"strings"

	"github.com/reprise-cli/reprise/config"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// envVar is one environment override and the setting it replaces.
type envVar struct {
	name  string
	about string
	value string
}

func (e envVar) set() bool {
	return e.value != ""
}

// envVars lists every recognized override, sorted by name, with its current value.
func envVars() []envVar {
	vars := lo.MapToSlice(config.Default, func(_ string, f config.Field) envVar {
		name := f.Env()
		return envVar{name: name, about: strings.ReplaceAll(f.Description, "\n", " "), value: os.Getenv(name)}
	})
	vars = append(vars, envVar{
		name:  where.EnvConfigPath,
		about: "Directory holding the config file, logs and history",
		value: os.Getenv(where.EnvConfigPath),
	})

	slices.SortFunc(vars, func(a, b envVar) int {
		switch {
		case a.name < b.name:
			return -1
		case a.name > b.name:
			return 1
		}
		return 0
	})
	return vars
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")
	envCmd.Flags().BoolP("describe", "d", false, "Show what each variable overrides")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment variables reprise reads",
	Long:  "Every config key can be overridden by a REPRISE_ variable. Values set in the environment win over the config file.",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			describe  = lo.Must(cmd.Flags().GetBool("describe"))
		)

		for _, v := range envVars() {
			if (setOnly && !v.set()) || (unsetOnly && v.set()) {
				continue
			}

			value := style.Fg(style.ErrorColor)("unset")
			if v.set() {
				value = style.Fg(style.SuccessColor)(v.value)
			}
			cmd.Println(style.New().Bold(true).Foreground(style.AccentColor).Render(v.name) + "=" + value)

			if describe && v.about != "" {
				cmd.Println("  " + style.Faint(v.about))
			}
		}
	},
}
