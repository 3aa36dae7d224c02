package playback

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/reprise-cli/reprise/capability"
	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/player"
	"github.com/reprise-cli/reprise/probe"
	. "github.com/smartystreets/goconvey/convey"
)

const clip = "/videos/clip.mp4"

type rig struct {
	clock    *manualClock
	launcher *fakeLauncher
	prober   *fakeProber
	sup      *Supervisor
}

func newRig(avail capability.Availability, opts ...Option) *rig {
	filesystem.SetMemMapFs()
	_ = filesystem.API().MkdirAll("/videos", os.ModePerm)
	_ = filesystem.API().WriteFile(clip, []byte("not really a video"), 0o644)
	_ = filesystem.API().WriteFile("/videos/other.mkv", []byte("x"), 0o644)

	r := &rig{
		clock:    &manualClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		launcher: newFakeLauncher(),
		prober:   &fakeProber{duration: 10 * time.Second},
	}
	opts = append([]Option{WithClock(r.clock.Now)}, opts...)
	r.sup = New(avail, r.prober, r.launcher, opts...)
	return r
}

// cycle advances past one full duration and ticks.
func (r *rig) cycle() error {
	r.clock.Advance(r.sup.Status().Duration)
	return r.sup.Tick()
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given the decoder toolchain is available", t, func() {
		r := newRig(capability.Available)

		Convey("Loading probes the duration and starts idle", func() {
			So(r.sup.Load(ctx, clip), ShouldBeNil)

			st := r.sup.Status()
			So(st.Loaded, ShouldBeTrue)
			So(st.Path, ShouldEqual, clip)
			So(st.Mode, ShouldEqual, player.DecoderBacked)
			So(st.State, ShouldEqual, Idle)
			So(st.Duration, ShouldEqual, 10*time.Second)
			So(st.Elapsed, ShouldEqual, 0)
			So(st.Completed, ShouldEqual, 0)
			So(r.prober.calls, ShouldEqual, 1)
		})

		Convey("A failing probe degrades to the fallback duration", func() {
			r.prober.err = &probe.Error{Path: clip, Err: probe.ErrTimeout}

			So(r.sup.Load(ctx, clip), ShouldBeNil)
			So(r.sup.Status().Duration, ShouldEqual, probe.Fallback)
		})

		Convey("A missing file is a LoadError and nothing is loaded", func() {
			err := r.sup.Load(ctx, "/videos/missing.mp4")

			var le *LoadError
			So(errors.As(err, &le), ShouldBeTrue)
			So(le.Path, ShouldEqual, "/videos/missing.mp4")
			So(r.sup.Status().Loaded, ShouldBeFalse)
			So(r.sup.Play(), ShouldEqual, ErrNoMedia)
		})

		Convey("A directory is a LoadError", func() {
			var le *LoadError
			So(errors.As(r.sup.Load(ctx, "/videos"), &le), ShouldBeTrue)
		})

		Convey("Loading another file terminates the running player first", func() {
			So(r.sup.Load(ctx, clip), ShouldBeNil)
			So(r.sup.Play(), ShouldBeNil)
			first := r.launcher.last()

			So(r.sup.Load(ctx, "/videos/other.mkv"), ShouldBeNil)
			So(first.terminated, ShouldEqual, 1)
			So(r.launcher.live(), ShouldEqual, 0)
			So(r.sup.Status().State, ShouldEqual, Idle)
		})

		Convey("A failed load still tears down the previous file", func() {
			So(r.sup.Load(ctx, clip), ShouldBeNil)
			So(r.sup.Play(), ShouldBeNil)

			So(r.sup.Load(ctx, "/videos/missing.mp4"), ShouldNotBeNil)
			So(r.launcher.live(), ShouldEqual, 0)
			So(r.sup.Status().Loaded, ShouldBeFalse)
		})
	})

	Convey("Given the decoder toolchain is unavailable", t, func() {
		r := newRig(capability.Unavailable)

		Convey("The duration is exactly the fallback and nothing is probed", func() {
			So(r.sup.Load(ctx, clip), ShouldBeNil)

			st := r.sup.Status()
			So(st.Duration, ShouldEqual, 300*time.Second)
			So(st.Mode, ShouldEqual, player.DefaultHandlerBacked)
			So(r.prober.calls, ShouldEqual, 0)
		})
	})

	Convey("Given a forced system player", t, func() {
		r := newRig(capability.Available, WithForcedMode(player.DefaultHandlerBacked))

		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Status().Mode, ShouldEqual, player.DefaultHandlerBacked)
		So(r.prober.calls, ShouldEqual, 0)
	})
}

func TestTransport(t *testing.T) {
	ctx := context.Background()

	Convey("Given a loaded file", t, func() {
		r := newRig(capability.Available)
		So(r.sup.Load(ctx, clip), ShouldBeNil)

		Convey("Play launches at zero and elapsed never decreases until the end", func() {
			So(r.sup.Play(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Playing)
			So(r.launcher.starts[0].offset, ShouldEqual, 0)

			prev := time.Duration(0)
			for i := 0; i < 9; i++ {
				r.clock.Advance(time.Second)
				So(r.sup.Tick(), ShouldBeNil)

				st := r.sup.Status()
				So(st.Elapsed, ShouldBeGreaterThanOrEqualTo, prev)
				So(st.Elapsed, ShouldBeLessThanOrEqualTo, st.Duration)
				prev = st.Elapsed
			}
			So(prev, ShouldEqual, 9*time.Second)
		})

		Convey("Elapsed is clamped to the duration between ticks", func() {
			So(r.sup.Play(), ShouldBeNil)
			r.clock.Advance(time.Hour)
			So(r.sup.Status().Elapsed, ShouldEqual, 10*time.Second)
		})

		Convey("Playing twice does not spawn a second player", func() {
			So(r.sup.Play(), ShouldBeNil)
			So(r.sup.Play(), ShouldBeNil)
			So(r.launcher.starts, ShouldHaveLength, 1)
		})

		Convey("Pause freezes elapsed across ticks", func() {
			So(r.sup.Play(), ShouldBeNil)
			r.clock.Advance(3 * time.Second)
			So(r.sup.Pause(), ShouldEqual, Paused)

			for i := 0; i < 20; i++ {
				r.clock.Advance(time.Second)
				So(r.sup.Tick(), ShouldBeNil)
			}
			So(r.sup.Status().Elapsed, ShouldEqual, 3*time.Second)

			Convey("Resuming relaunches at the frozen position and progresses from it", func() {
				paused := r.launcher.last()
				So(r.sup.Play(), ShouldBeNil)

				So(paused.terminated, ShouldEqual, 1)
				So(r.launcher.last().Running(), ShouldBeTrue)
				So(r.launcher.starts[len(r.launcher.starts)-1].offset, ShouldEqual, 3*time.Second)

				r.clock.Advance(2 * time.Second)
				So(r.sup.Tick(), ShouldBeNil)
				So(r.sup.Status().Elapsed, ShouldEqual, 5*time.Second)
			})
		})

		Convey("Pause outside Playing only reports the state", func() {
			So(r.sup.Pause(), ShouldEqual, Idle)
			So(r.sup.Status().State, ShouldEqual, Idle)
		})

		Convey("Stop terminates, rewinds and is idempotent", func() {
			So(r.sup.Play(), ShouldBeNil)
			r.clock.Advance(4 * time.Second)
			proc := r.launcher.last()

			r.sup.Stop()
			st := r.sup.Status()
			So(st.State, ShouldEqual, Stopped)
			So(st.Elapsed, ShouldEqual, 0)
			So(proc.terminated, ShouldEqual, 1)

			r.sup.Stop()
			So(r.sup.Status().State, ShouldEqual, Stopped)
			So(proc.terminated, ShouldEqual, 1)

			Convey("Play replays from the start", func() {
				So(r.sup.Play(), ShouldBeNil)
				So(r.sup.Status().State, ShouldEqual, Playing)
				So(r.launcher.starts[len(r.launcher.starts)-1].offset, ShouldEqual, 0)
			})
		})

		Convey("Stop from Idle does nothing", func() {
			r.sup.Stop()
			So(r.sup.Status().State, ShouldEqual, Idle)
		})

		Convey("Seek clamps to the file", func() {
			So(r.sup.Seek(time.Minute), ShouldBeNil)
			So(r.sup.Status().Elapsed, ShouldEqual, 10*time.Second)

			So(r.sup.Seek(-time.Minute), ShouldBeNil)
			So(r.sup.Status().Elapsed, ShouldEqual, 0)
		})

		Convey("Seek before playing sets the starting offset", func() {
			So(r.sup.Seek(4*time.Second), ShouldBeNil)
			So(r.launcher.starts, ShouldBeEmpty)

			So(r.sup.Play(), ShouldBeNil)
			So(r.launcher.starts[0].offset, ShouldEqual, 4*time.Second)
		})

		Convey("Seek while playing relaunches at the target", func() {
			So(r.sup.Play(), ShouldBeNil)
			first := r.launcher.last()
			r.clock.Advance(time.Second)

			So(r.sup.Seek(7*time.Second), ShouldBeNil)
			So(first.terminated, ShouldEqual, 1)
			So(r.launcher.starts, ShouldHaveLength, 2)
			So(r.launcher.starts[1].offset, ShouldEqual, 7*time.Second)
			So(r.sup.Status().Elapsed, ShouldEqual, 7*time.Second)
			So(r.launcher.live(), ShouldEqual, 1)
		})

		Convey("Close terminates the player and unloads", func() {
			So(r.sup.Play(), ShouldBeNil)
			r.sup.Close()
			So(r.launcher.live(), ShouldEqual, 0)
			So(r.sup.Status().Loaded, ShouldBeFalse)
		})
	})

	Convey("Given nothing is loaded", t, func() {
		r := newRig(capability.Available)

		So(r.sup.Play(), ShouldEqual, ErrNoMedia)
		So(r.sup.Seek(time.Second), ShouldEqual, ErrNoMedia)
		So(r.sup.Pause(), ShouldEqual, Idle)
		So(r.sup.Tick(), ShouldBeNil)
		r.sup.Stop()
		r.sup.Close()
	})

	Convey("Given the continue resume policy", t, func() {
		r := newRig(capability.Available, WithResumePolicy(Continue))
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)
		r.clock.Advance(2 * time.Second)
		r.sup.Pause()
		r.clock.Advance(time.Minute)

		Convey("Resuming keeps the player and only restarts the clock", func() {
			So(r.sup.Play(), ShouldBeNil)
			So(r.launcher.starts, ShouldHaveLength, 1)
			So(r.launcher.last().terminated, ShouldEqual, 0)

			r.clock.Advance(time.Second)
			So(r.sup.Status().Elapsed, ShouldEqual, 3*time.Second)
		})
	})
}

func TestRepeat(t *testing.T) {
	ctx := context.Background()

	Convey("Given a repeat target of three", t, func() {
		r := newRig(capability.Available, WithRepeat(3))
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)

		Convey("Three full cycles end Stopped with three completed", func() {
			So(r.cycle(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Playing)
			So(r.sup.Status().Completed, ShouldEqual, 1)

			So(r.cycle(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Playing)
			So(r.sup.Status().Completed, ShouldEqual, 2)

			So(r.cycle(), ShouldBeNil)
			st := r.sup.Status()
			So(st.State, ShouldEqual, Stopped)
			So(st.Completed, ShouldEqual, 3)
			So(st.Elapsed, ShouldEqual, 0)

			So(r.launcher.starts, ShouldHaveLength, 3)
			for _, s := range r.launcher.starts {
				So(s.offset, ShouldEqual, 0)
			}
			So(r.launcher.live(), ShouldEqual, 0)

			Convey("Playing again starts a fresh run", func() {
				So(r.sup.Play(), ShouldBeNil)
				So(r.sup.Status().Completed, ShouldEqual, 0)
				So(r.sup.Status().State, ShouldEqual, Playing)
			})
		})

		Convey("Completed stays below the target while playing", func() {
			for i := 0; i < 2; i++ {
				So(r.cycle(), ShouldBeNil)
				st := r.sup.Status()
				So(st.State, ShouldEqual, Playing)
				So(st.Completed, ShouldBeLessThan, int(st.Repeat))
			}
		})

		Convey("Stopping mid run keeps the completed count", func() {
			So(r.cycle(), ShouldBeNil)
			r.sup.Stop()
			So(r.sup.Status().Completed, ShouldEqual, 1)

			So(r.sup.Play(), ShouldBeNil)
			So(r.sup.Status().Completed, ShouldEqual, 1)
		})

		Convey("Lowering the target makes the current cycle the last", func() {
			So(r.cycle(), ShouldBeNil)
			r.sup.SetRepeat(1)
			So(r.cycle(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Stopped)
			So(r.sup.Status().Completed, ShouldEqual, 2)
		})

		Convey("Lowering the target keeps completed below it while playing", func() {
			So(r.cycle(), ShouldBeNil)
			So(r.cycle(), ShouldBeNil)
			r.sup.SetRepeat(1)

			st := r.sup.Status()
			So(st.State, ShouldEqual, Playing)
			So(st.Completed, ShouldEqual, 2)
			So(st.Completed, ShouldBeLessThan, int(st.Repeat))
			So(r.sup.Repeat(), ShouldEqual, Once)

			So(r.cycle(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Stopped)
			So(r.sup.Status().Completed, ShouldEqual, 3)

			Convey("A replay uses the lowered target", func() {
				So(r.sup.Play(), ShouldBeNil)
				st := r.sup.Status()
				So(st.Completed, ShouldEqual, 0)
				So(st.Repeat, ShouldEqual, Once)
				So(r.cycle(), ShouldBeNil)
				So(r.sup.Status().State, ShouldEqual, Stopped)
			})
		})
	})

	Convey("Given an infinite target", t, func() {
		r := newRig(capability.Available, WithRepeat(Infinite))
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)

		Convey("A hundred cycles never stop", func() {
			for i := 0; i < 100; i++ {
				So(r.cycle(), ShouldBeNil)
				So(r.sup.Status().State, ShouldEqual, Playing)
			}
			So(r.sup.Status().Completed, ShouldEqual, 100)
			So(r.launcher.live(), ShouldEqual, 1)
		})
	})

	Convey("Given a player that exits halfway with a single repeat", t, func() {
		r := newRig(capability.Available)
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)

		r.clock.Advance(5 * time.Second)
		proc := r.launcher.last()
		proc.exited = true
		proc.exitErr = errors.New("exit status 1")

		Convey("The cycle counts as complete without an error", func() {
			So(r.sup.Tick(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Stopped)
			So(r.sup.Status().Completed, ShouldEqual, 1)
			So(proc.exitChecks, ShouldEqual, 1)
		})
	})

	Convey("Given a system player whose opener returned at once", t, func() {
		r := newRig(capability.Unavailable)
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)
		r.launcher.last().exited = true

		Convey("Only the clock ends the cycle", func() {
			r.clock.Advance(time.Minute)
			So(r.sup.Tick(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Playing)

			r.clock.Advance(4 * time.Minute)
			So(r.sup.Tick(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Stopped)
		})

		Convey("Seeking only moves the clock", func() {
			So(r.sup.Seek(time.Minute), ShouldBeNil)
			So(r.launcher.starts, ShouldHaveLength, 1)
			So(r.sup.Status().Elapsed, ShouldEqual, time.Minute)
		})
	})
}

func TestLaunchFailure(t *testing.T) {
	ctx := context.Background()

	Convey("Given a decoder that fails to spawn", t, func() {
		r := newRig(capability.Available)
		r.launcher.fail[player.DecoderBacked] = true
		So(r.sup.Load(ctx, clip), ShouldBeNil)

		Convey("The session falls back to the system player", func() {
			So(r.sup.Play(), ShouldBeNil)

			st := r.sup.Status()
			So(st.State, ShouldEqual, Playing)
			So(st.Mode, ShouldEqual, player.DefaultHandlerBacked)
			So(r.launcher.starts[0].mode, ShouldEqual, player.DefaultHandlerBacked)
		})

		Convey("When the system player fails too, Play reports it and stays idle", func() {
			r.launcher.fail[player.DefaultHandlerBacked] = true

			err := r.sup.Play()
			var le *player.LaunchError
			So(errors.As(err, &le), ShouldBeTrue)

			st := r.sup.Status()
			So(st.State, ShouldEqual, Idle)
			So(st.Mode, ShouldEqual, player.DecoderBacked)
			So(r.launcher.live(), ShouldEqual, 0)
		})
	})

	Convey("Given a decoder that stops spawning while playing", t, func() {
		r := newRig(capability.Available)
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)
		r.launcher.fail[player.DecoderBacked] = true

		Convey("A seek demotes to the system player and restarts the clock at zero", func() {
			So(r.sup.Seek(7*time.Second), ShouldBeNil)

			st := r.sup.Status()
			So(st.Mode, ShouldEqual, player.DefaultHandlerBacked)
			So(st.State, ShouldEqual, Playing)
			So(st.Elapsed, ShouldEqual, 0)
			So(r.launcher.starts[len(r.launcher.starts)-1].offset, ShouldEqual, 0)

			r.clock.Advance(9 * time.Second)
			So(r.sup.Tick(), ShouldBeNil)
			So(r.sup.Status().State, ShouldEqual, Playing)
			So(r.sup.Status().Elapsed, ShouldEqual, 9*time.Second)
		})
	})

	Convey("Given a relaunch that fails between cycles", t, func() {
		r := newRig(capability.Available, WithRepeat(2))
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)

		r.launcher.fail[player.DecoderBacked] = true
		r.launcher.fail[player.DefaultHandlerBacked] = true

		Convey("Tick surfaces the error and stops without a dangling process", func() {
			err := r.cycle()
			So(err, ShouldNotBeNil)
			So(r.sup.Status().State, ShouldEqual, Stopped)
			So(r.launcher.live(), ShouldEqual, 0)
		})
	})
}

func TestParseRepeat(t *testing.T) {
	Convey("Given repeat inputs", t, func() {
		for _, s := range []string{"inf", "Infinite", "∞", " loop "} {
			r, err := ParseRepeat(s)
			So(err, ShouldBeNil)
			So(r.IsInfinite(), ShouldBeTrue)
		}

		r, err := ParseRepeat("3")
		So(err, ShouldBeNil)
		So(r, ShouldEqual, Repeat(3))
		So(r.String(), ShouldEqual, "3")
		So(Infinite.String(), ShouldEqual, "inf")

		for _, s := range []string{"0", "-2", "two", ""} {
			_, err := ParseRepeat(s)
			So(errors.Is(err, ErrInvalidRepeat), ShouldBeTrue)
		}
	})

	Convey("Given counts below one", t, func() {
		r := newRig(capability.Available)
		r.sup.SetRepeat(0)
		So(r.sup.Repeat(), ShouldEqual, Once)
		r.sup.SetRepeat(Infinite)
		So(r.sup.Repeat(), ShouldEqual, Infinite)
	})

	Convey("Given resume policy names", t, func() {
		p, err := ParseResumePolicy("continue")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, Continue)

		_, err = ParseResumePolicy("rewind")
		So(err, ShouldNotBeNil)
	})
}

func TestVolume(t *testing.T) {
	ctx := context.Background()

	Convey("Given a playing decoder at full volume", t, func() {
		r := newRig(capability.Available)
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)
		So(r.launcher.starts[0].volume, ShouldEqual, player.Full)
		r.clock.Advance(4 * time.Second)

		Convey("Lowering it relaunches at the current position", func() {
			first := r.launcher.last()
			So(r.sup.SetVolume(40), ShouldBeNil)

			last := r.launcher.starts[len(r.launcher.starts)-1]
			So(len(r.launcher.starts), ShouldEqual, 2)
			So(last.volume, ShouldEqual, player.Volume(40))
			So(last.offset, ShouldEqual, 4*time.Second)
			So(first.terminated, ShouldEqual, 1)
			So(r.launcher.live(), ShouldEqual, 1)

			st := r.sup.Status()
			So(st.State, ShouldEqual, Playing)
			So(st.Volume, ShouldEqual, player.Volume(40))
			So(st.Elapsed, ShouldEqual, 4*time.Second)
		})

		Convey("Levels are clamped and an unchanged level does nothing", func() {
			So(r.sup.SetVolume(150), ShouldBeNil)
			So(r.sup.Volume(), ShouldEqual, player.Full)
			So(len(r.launcher.starts), ShouldEqual, 1)

			So(r.sup.SetVolume(-10), ShouldBeNil)
			So(r.sup.Volume(), ShouldEqual, player.Mute)
		})

		Convey("A failed relaunch stops the session at the current position", func() {
			r.launcher.fail[player.DecoderBacked] = true
			r.launcher.fail[player.DefaultHandlerBacked] = true

			So(r.sup.SetVolume(20), ShouldNotBeNil)
			st := r.sup.Status()
			So(st.State, ShouldEqual, Stopped)
			So(st.Elapsed, ShouldEqual, 4*time.Second)
			So(r.launcher.live(), ShouldEqual, 0)
		})
	})

	Convey("Given a paused decoder", t, func() {
		r := newRig(capability.Available)
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)
		r.sup.Pause()

		Convey("The new level is used when it resumes", func() {
			So(r.sup.SetVolume(60), ShouldBeNil)
			So(len(r.launcher.starts), ShouldEqual, 1)

			So(r.sup.Play(), ShouldBeNil)
			So(r.launcher.starts[len(r.launcher.starts)-1].volume, ShouldEqual, player.Volume(60))
		})
	})

	Convey("Given the system player", t, func() {
		r := newRig(capability.Unavailable, WithVolume(80))
		So(r.sup.Load(ctx, clip), ShouldBeNil)
		So(r.sup.Play(), ShouldBeNil)

		Convey("Changing the level does not relaunch", func() {
			So(r.sup.SetVolume(30), ShouldBeNil)
			So(len(r.launcher.starts), ShouldEqual, 1)
			So(r.sup.Status().Volume, ShouldEqual, player.Volume(30))
		})
	})
}
