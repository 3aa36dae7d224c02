// Package toolchain assembles the playback components from configuration.
package toolchain

import (
	"fmt"

	"github.com/reprise-cli/reprise/capability"
	"github.com/reprise-cli/reprise/config"
	"github.com/reprise-cli/reprise/internal/cache"
	"github.com/reprise-cli/reprise/key"
	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/player"
	"github.com/reprise-cli/reprise/probe"
	"github.com/spf13/viper"
)

// Toolchain holds one detector shared by the prober and the supervisor, so the
// version query runs at most once per process.
type Toolchain struct {
	FFplay  string
	FFprobe string

	Detector *capability.Detector
	Prober   *probe.Prober
	Launcher *player.Launcher
}

func New() *Toolchain {
	timeouts := config.PlayerTimeouts()
	ffplay := viper.GetString(key.PlayerFFplay)
	ffprobe := probe.ResolveBinary(viper.GetString(key.PlayerFFprobe), ffplay)

	detector := capability.New(ffplay, timeouts.Detect)
	prober := probe.New(ffprobe, timeouts.Probe, detector)
	if viper.GetBool(key.PlayerProbeCache) {
		prober.WithStore(cache.Durations{})
	}

	return &Toolchain{
		FFplay:   ffplay,
		FFprobe:  ffprobe,
		Detector: detector,
		Prober:   prober,
		Launcher: player.NewLauncher(timeouts.Terminate, player.FFplay{Binary: ffplay}, player.System{}),
	}
}

// Supervisor returns a supervisor configured from the player keys. opts are applied
// last and override them.
func (t *Toolchain) Supervisor(opts ...playback.Option) (*playback.Supervisor, error) {
	policy, err := playback.ParseResumePolicy(viper.GetString(key.PlayerResumePolicy))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key.PlayerResumePolicy, err)
	}

	repeat, err := playback.ParseRepeat(viper.GetString(key.PlayerRepeat))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key.PlayerRepeat, err)
	}

	volume := viper.GetInt(key.PlayerVolume)
	if volume < int(player.Mute) || volume > int(player.Full) {
		return nil, fmt.Errorf("%s: %w", key.PlayerVolume, player.ErrInvalidVolume)
	}

	base := []playback.Option{
		playback.WithResumePolicy(policy),
		playback.WithRepeat(repeat),
		playback.WithVolume(player.Volume(volume)),
	}
	if viper.GetBool(key.PlayerForceSystem) {
		base = append(base, playback.WithForcedMode(player.DefaultHandlerBacked))
	}

	return playback.New(t.Detector, t.Prober, t.Launcher, append(base, opts...)...), nil
}
