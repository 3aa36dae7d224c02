package player

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/reprise-cli/reprise/open"
	"github.com/reprise-cli/reprise/util"
)

// Backend builds the command that plays a file for one Mode.
type Backend interface {
	Mode() Mode
	Command(path string, settings Settings) (*exec.Cmd, error)
}

// FFplay plays through ffplay in its own window and exits when the file ends.
type FFplay struct {
	Binary string
}

func (FFplay) Mode() Mode {
	return DecoderBacked
}

func (f FFplay) Command(path string, settings Settings) (*exec.Cmd, error) {
	// #nosec G204 - binary comes from local configuration, path is validated by the launcher
	return exec.Command(f.Binary, FFplayArgs(path, settings)...), nil
}

// FFplayArgs returns the ffplay arguments for path with the given settings.
func FFplayArgs(path string, settings Settings) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-autoexit",
		"-window_title", sanitizeTitle(util.FileStem(path)),
	}

	if volume, ok := settings.Volume.Get(); ok {
		args = append(args, "-volume", strconv.Itoa(int(volume.Clamp())))
	}

	if settings.Offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(settings.Offset.Seconds(), 'f', 3, 64))
	}

	return append(args, path)
}

// System hands the file to the OS default application. Settings are ignored.
type System struct{}

func (System) Mode() Mode {
	return DefaultHandlerBacked
}

func (System) Command(path string, _ Settings) (*exec.Cmd, error) {
	return open.Command(path)
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
