// Package cmd implements the command-line interface for reprise.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/reprise-cli/reprise/color"
	"github.com/reprise-cli/reprise/constant"
	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/history"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/key"
	"github.com/reprise-cli/reprise/log"
	"github.com/reprise-cli/reprise/mini"
	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/toolchain"
	"github.com/reprise-cli/reprise/tui"
	"github.com/reprise-cli/reprise/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record played files in the history")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().Bool("system", false, "Always play with the system default player")
	lo.Must0(viper.BindPFlag(key.PlayerForceSystem, rootCmd.PersistentFlags().Lookup("system")))

	rootCmd.PersistentFlags().StringP("repeat", "r", "", "Number of times to play the file, or inf to loop")

	rootCmd.PersistentFlags().Int("volume", 100, "Decoder volume in percent, from 0 to 100")
	lo.Must0(viper.BindPFlag(key.PlayerVolume, rootCmd.PersistentFlags().Lookup("volume")))

	rootCmd.Flags().BoolP("continue", "c", false, "Reopen the most recently played file with its repeat setting")
	rootCmd.Flags().Bool("history", false, "Start from the recently played list")
	rootCmd.Flags().Bool("mini", false, "Use the prompt based interface")
	rootCmd.MarkFlagsMutuallyExclusive("continue", "history")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(cmd.Context())
	})
}

// rootCmd defines the entry point for the reprise application.
var rootCmd = &cobra.Command{
	Use:   constant.Reprise + " [file]",
	Short: "Play a video on repeat",
	Long: style.New().Bold(true).Foreground(color.HiPurple).Render(constant.Reprise) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Play a video a set number of times, or forever"),
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionVideoFiles,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		var (
			cont     = lo.Must(cmd.Flags().GetBool("continue"))
			recent   = lo.Must(cmd.Flags().GetBool("history"))
			useMini  = lo.Must(cmd.Flags().GetBool("mini"))
			repeat   = repeatOption(cmd)
			path     string
			restored []playback.Option
		)

		switch {
		case cont:
			last, err := history.Last()
			handleErr(err)
			record, ok := last.Get()
			if !ok {
				handleErr(errors.New("nothing to continue, the history is empty"))
			}
			path = record.Path
			restored = append(restored, playback.WithRepeat(record.Repeat))
		case len(args) == 1:
			path = resolveTarget(args[0])
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()

		sup := newSupervisor(append(restored, repeat...)...)

		if useMini {
			handleErr(mini.Run(ctx, sup, &mini.Options{Path: path, History: recent}))
			return
		}

		handleErr(tui.Run(ctx, sup, &tui.Options{Path: path, History: recent}))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

// newSupervisor builds a supervisor from configuration, exiting on invalid settings.
func newSupervisor(opts ...playback.Option) *playback.Supervisor {
	sup, err := toolchain.New().Supervisor(opts...)
	handleErr(err)
	return sup
}

// repeatOption turns a --repeat flag into a supervisor option.
func repeatOption(cmd *cobra.Command) []playback.Option {
	flag := cmd.Flags().Lookup("repeat")
	if flag == nil || !flag.Changed {
		return nil
	}

	repeat, err := playback.ParseRepeat(flag.Value.String())
	handleErr(err)
	return []playback.Option{playback.WithRepeat(repeat)}
}

// resolveTarget returns arg when it is a readable file, or the best history match.
func resolveTarget(arg string) string {
	readErr := filesystem.Readable(arg)
	if readErr == nil {
		return arg
	}

	found, err := history.Find(arg)
	handleErr(err)

	record, ok := found.Get()
	if !ok {
		handleErr(readErr)
	}

	fmt.Printf("%s %s\n", icon.Get(icon.Video), style.Faint("from history: "+record.Path))
	return record.Path
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func completionVideoFiles(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return lo.Map(constant.VideoExtensions, func(ext string, _ int) string {
		return strings.TrimPrefix(ext, ".")
	}), cobra.ShellCompDirectiveFilterFileExt
}
