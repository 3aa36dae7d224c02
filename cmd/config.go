package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/reprise-cli/reprise/color"
	"github.com/reprise-cli/reprise/config"
	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/key"
	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/player"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	msg := fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)

	return errors.New(msg)
}

// validateValue rejects values the player would refuse at startup.
func validateValue(k string, v any) error {
	if k == key.PlayerVolume {
		if n, isInt := v.(int); isInt && (n < int(player.Mute) || n > int(player.Full)) {
			return player.ErrInvalidVolume
		}
		return nil
	}

	s, ok := v.(string)
	if !ok {
		if n, isInt := v.(int); isInt && n <= 0 {
			return fmt.Errorf("%s must be positive, got %d", k, n)
		}
		return nil
	}

	switch k {
	case key.PlayerRepeat:
		_, err := playback.ParseRepeat(s)
		return err
	case key.PlayerResumePolicy:
		_, err := playback.ParseResumePolicy(s)
		return err
	case key.IconsVariant:
		if !lo.Contains(icon.AvailableVariants(), s) {
			return fmt.Errorf("unknown icons variant %q", s)
		}
	case key.LogsLevel:
		if _, err := logrus.ParseLevel(s); err != nil {
			return err
		}
	}

	return nil
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

// keyArg takes the key from the first argument or the --key flag.
func keyArg(cmd *cobra.Command, args []string) (string, error) {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}
	if k == "" {
		return "", errors.New("key is required as an argument or --key flag")
	}
	if _, ok := config.Default[k]; !ok {
		return "", errUnknownKey(k)
	}
	return k, nil
}

// parseValue converts raw to the type of the key's default and validates it.
func parseValue(k string, raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, errors.New("value is required as an argument or --value flag")
	}

	var v any
	switch config.Default[k].Value.(type) {
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects a whole number, got %q", k, raw[0])
		}
		v = n
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", k, raw[0])
		}
		v = b
	case []string:
		v = raw
	default:
		v = strings.Join(raw, " ")
	}

	if err := validateValue(k, v); err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return v, nil
}

// saveConfig writes the config file, creating it on first use.
func saveConfig() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return viper.SafeWriteConfig()
	}
	return err
}

func done(format string, args ...any) {
	fmt.Printf(style.Fg(style.SuccessColor)(icon.Get(icon.Success))+" "+format+"\n", args...)
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change settings such as the repeat count, volume and ffplay binary",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only describe these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON with current and default values")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their defaults",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		if len(keys) == 0 {
			keys = lo.Keys(config.Default)
		}

		fields := make([]config.Field, 0, len(keys))
		for _, k := range keys {
			f, ok := config.Default[k]
			if !ok {
				handleErr(errUnknownKey(k))
			}
			fields = append(fields, f)
		}
		slices.SortFunc(fields, func(a, b config.Field) int {
			return strings.Compare(a.Key, b.Key)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		cmd.Print(strings.Join(lo.Map(fields, func(f config.Field, _ int) string {
			return f.Pretty()
		}), "\n\n"))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to change")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "New value")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Change a setting and save it to the config file",
	Example:           "  reprise config set player.repeat inf\n  reprise config set player.volume 60",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, err := keyArg(cmd, args)
		handleErr(err)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		v, err := parseValue(k, raw)
		handleErr(err)

		viper.Set(k, v)
		handleErr(saveConfig())
		done("set %s to %s", style.Fg(style.AccentColor)(k), style.Fg(style.WarningColor)(fmt.Sprint(v)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, err := keyArg(cmd, args)
		handleErr(err)
		fmt.Println(viper.Get(k))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := where.ConfigFile()
		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(filesystem.API().Remove(path))
		}

		handleErr(viper.SafeWriteConfig())
		done("wrote config to %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file so defaults apply again",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(where.ConfigFile()))
		done("deleted config")
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	configResetCmd.MarkFlagsOneRequired("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore settings to their defaults",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, f := range config.Default {
				viper.Set(k, f.Value)
			}
			handleErr(saveConfig())
			done("reset all config values")
			return
		}

		k, err := keyArg(cmd, nil)
		handleErr(err)

		viper.Set(k, config.Default[k].Value)
		handleErr(saveConfig())
		done("reset %s to %s", style.Fg(style.AccentColor)(k), style.Fg(style.WarningColor)(fmt.Sprint(config.Default[k].Value)))
	},
}
