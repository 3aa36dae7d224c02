package config

import (
	"testing"
	"time"

	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
			So(viper.GetString(key.PlayerFFplay), ShouldEqual, "ffplay")
			So(viper.GetString(key.PlayerResumePolicy), ShouldEqual, "respawn")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.probe_timeout"), ShouldEqual, "player_probe_timeout")
		})

		Convey("Field.Env should carry the application prefix once", func() {
			f := Default[key.PlayerProbeTimeout]
			So(f.Env(), ShouldEqual, "REPRISE_PLAYER_PROBE_TIMEOUT")
		})
	})
}

func TestPlayerTimeouts(t *testing.T) {
	Convey("Given configured timeouts", t, func() {
		_ = Setup()

		Convey("Defaults are converted to durations", func() {
			to := PlayerTimeouts()
			So(to.Detect, ShouldEqual, 3*time.Second)
			So(to.Probe, ShouldEqual, 5*time.Second)
			So(to.Terminate, ShouldEqual, 1500*time.Millisecond)
		})

		Convey("Non-positive values fall back to the defaults", func() {
			viper.Set(key.PlayerProbeTimeout, 0)
			defer viper.Set(key.PlayerProbeTimeout, 5)
			So(PlayerTimeouts().Probe, ShouldEqual, 5*time.Second)
		})
	})
}
