package player

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

// shell is a backend that runs a shell snippet instead of a real player.
type shell struct {
	mode   Mode
	script string
}

func (s shell) Mode() Mode { return s.mode }

func (s shell) Command(string, Settings) (*exec.Cmd, error) {
	return exec.Command("sh", "-c", s.script), nil
}

func waitExit(p Process, within time.Duration) bool {
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if !p.Running() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestMode(t *testing.T) {
	Convey("Given the two modes", t, func() {
		So(DecoderBacked.String(), ShouldEqual, "decoder")
		So(DefaultHandlerBacked.String(), ShouldEqual, "system")

		Convey("Only the decoder honours offsets and tracks exit", func() {
			So(DecoderBacked.SupportsOffset(), ShouldBeTrue)
			So(DecoderBacked.TracksExit(), ShouldBeTrue)
			So(DefaultHandlerBacked.SupportsOffset(), ShouldBeFalse)
			So(DefaultHandlerBacked.TracksExit(), ShouldBeFalse)
		})
	})
}

func TestFFplayArgs(t *testing.T) {
	Convey("Given a file and no offset", t, func() {
		args := FFplayArgs("/videos/intro.mp4", Settings{})

		Convey("It autoexits, titles the window and omits -ss", func() {
			So(args, ShouldContain, "-autoexit")
			So(args, ShouldNotContain, "-ss")
			So(args[len(args)-1], ShouldEqual, "/videos/intro.mp4")
			So(args, ShouldContain, "intro")
			So(args, ShouldNotContain, "-volume")
		})
	})

	Convey("Given a volume", t, func() {
		args := FFplayArgs("/videos/intro.mp4", Settings{Volume: mo.Some(Volume(35))})
		So(args, ShouldContain, "-volume")
		So(args, ShouldContain, "35")

		Convey("Out of range levels are clamped", func() {
			args := FFplayArgs("/videos/intro.mp4", Settings{Volume: mo.Some(Volume(250))})
			So(args, ShouldContain, "100")
		})
	})

	Convey("Given an offset", t, func() {
		args := FFplayArgs("/videos/intro.mp4", Settings{Offset: 90*time.Second + 500*time.Millisecond})

		Convey("The offset is passed in seconds before the path", func() {
			So(args[len(args)-3], ShouldEqual, "-ss")
			So(args[len(args)-2], ShouldEqual, "90.500")
		})
	})

	Convey("Given a title with control characters", t, func() {
		So(sanitizeTitle(" a\nb\tc\x00 "), ShouldEqual, "a b c")
	})
}

func TestParseVolume(t *testing.T) {
	Convey("Given volume inputs", t, func() {
		v, err := ParseVolume("40")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, Volume(40))

		v, err = ParseVolume(" 0% ")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, Mute)
		So(Full.String(), ShouldEqual, "100%")

		for _, in := range []string{"", "loud", "-5", "101"} {
			_, err := ParseVolume(in)
			So(errors.Is(err, ErrInvalidVolume), ShouldBeTrue)
		}

		So(Volume(-3).Clamp(), ShouldEqual, Mute)
	})
}

func TestValidateTarget(t *testing.T) {
	Convey("Given candidate paths", t, func() {
		_, err := validateTarget("")
		So(err, ShouldNotBeNil)

		_, err = validateTarget("-vf evil")
		So(err, ShouldNotBeNil)

		_, err = validateTarget("a\nb.mp4")
		So(err, ShouldNotBeNil)

		p, err := validateTarget("/videos/../videos/a.mp4")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, "/videos/a.mp4")
	})
}

func TestLauncher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell fixtures")
	}

	Convey("Given a launcher without a backend for the mode", t, func() {
		l := NewLauncher(time.Second, shell{mode: DecoderBacked, script: "exit 0"})

		_, err := l.Start("/videos/a.mp4", Settings{}, DefaultHandlerBacked)

		var le *LaunchError
		So(errors.As(err, &le), ShouldBeTrue)
		So(le.Mode, ShouldEqual, DefaultHandlerBacked)
		So(errors.Is(err, ErrNoBackend), ShouldBeTrue)
	})

	Convey("Given a backend whose binary does not exist", t, func() {
		l := NewLauncher(time.Second, FFplay{Binary: "reprise-no-such-player"})

		_, err := l.Start("/videos/a.mp4", Settings{}, DecoderBacked)

		var le *LaunchError
		So(errors.As(err, &le), ShouldBeTrue)
		So(le.Mode, ShouldEqual, DecoderBacked)
	})

	Convey("Given a path that looks like a flag", t, func() {
		l := NewLauncher(time.Second, shell{mode: DecoderBacked, script: "exit 0"})
		_, err := l.Start("-autoexit", Settings{}, DecoderBacked)
		So(err, ShouldNotBeNil)
	})

	Convey("Given a player that finishes on its own", t, func() {
		l := NewLauncher(time.Second, shell{mode: DecoderBacked, script: "exit 0"})

		p, err := l.Start("/videos/a.mp4", Settings{}, DecoderBacked)
		So(err, ShouldBeNil)
		So(p.Mode(), ShouldEqual, DecoderBacked)
		So(p.Pid(), ShouldBeGreaterThan, 0)

		Convey("Running turns false and Terminate is a no-op", func() {
			So(waitExit(p, 3*time.Second), ShouldBeTrue)
			So(p.ExitErr(), ShouldBeNil)
			So(p.Terminate(), ShouldBeNil)
			So(p.Terminate(), ShouldBeNil)
		})
	})

	Convey("Given a player that fails", t, func() {
		l := NewLauncher(time.Second, shell{mode: DecoderBacked, script: "exit 3"})

		p, err := l.Start("/videos/a.mp4", Settings{}, DecoderBacked)
		So(err, ShouldBeNil)

		Convey("ExitErr reports the status once it has been reaped", func() {
			So(waitExit(p, 3*time.Second), ShouldBeTrue)
			var exitErr *exec.ExitError
			So(errors.As(p.ExitErr(), &exitErr), ShouldBeTrue)
			So(exitErr.ExitCode(), ShouldEqual, 3)
		})
	})

	Convey("Given a long running player", t, func() {
		l := NewLauncher(time.Second, shell{mode: DecoderBacked, script: "exec sleep 30"})

		p, err := l.Start("/videos/a.mp4", Settings{Offset: 10 * time.Second}, DecoderBacked)
		So(err, ShouldBeNil)
		So(p.Running(), ShouldBeTrue)

		Convey("Terminate stops it and is idempotent", func() {
			So(p.Terminate(), ShouldBeNil)
			So(p.Running(), ShouldBeFalse)
			So(p.Terminate(), ShouldBeNil)
		})
	})

	Convey("Given a player that ignores the polite signal", t, func() {
		grace := 150 * time.Millisecond
		l := NewLauncher(grace, shell{mode: DecoderBacked, script: `trap "" TERM; sleep 30 & wait`})

		p, err := l.Start("/videos/a.mp4", Settings{}, DecoderBacked)
		So(err, ShouldBeNil)
		time.Sleep(50 * time.Millisecond)

		Convey("Terminate escalates and the whole group goes away", func() {
			start := time.Now()
			So(p.Terminate(), ShouldBeNil)
			So(p.Running(), ShouldBeFalse)
			So(time.Since(start), ShouldBeGreaterThanOrEqualTo, grace)
		})
	})
}

func TestTerminateLeavesNoGoroutines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell fixtures")
	}
	defer goleak.VerifyNone(t)

	l := NewLauncher(time.Second, shell{mode: DecoderBacked, script: "exec sleep 30"})
	for i := 0; i < 5; i++ {
		p, err := l.Start("/videos/a.mp4", Settings{}, DecoderBacked)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.Terminate(); err != nil {
			t.Fatal(err)
		}
	}
}
