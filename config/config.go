// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"strings"
	"time"

	"github.com/reprise-cli/reprise/constant"
	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/key"
	"github.com/reprise-cli/reprise/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Reprise)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Reprise)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// Seconds reads an integer key as a number of seconds.
func Seconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Second
}

// Millis reads an integer key as a number of milliseconds.
func Millis(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

// Timeouts groups the bounded waits of the playback toolchain.
type Timeouts struct {
	Detect    time.Duration
	Probe     time.Duration
	Terminate time.Duration
}

// PlayerTimeouts returns the configured toolchain timeouts, never zero.
func PlayerTimeouts() Timeouts {
	t := Timeouts{
		Detect:    Seconds(key.PlayerDetectTimeout),
		Probe:     Seconds(key.PlayerProbeTimeout),
		Terminate: Millis(key.PlayerTerminateGrace),
	}
	if t.Detect <= 0 {
		t.Detect = 3 * time.Second
	}
	if t.Probe <= 0 {
		t.Probe = 5 * time.Second
	}
	if t.Terminate <= 0 {
		t.Terminate = 1500 * time.Millisecond
	}
	return t
}
