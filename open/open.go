// Package open hands files to the operating system's registered default application.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/reprise-cli/reprise/constant"
)

// Opener returns the platform opener binary and the arguments that precede the target.
// ok is false on platforms without a known opener.
func Opener(goos string) (name string, args []string, ok bool) {
	switch goos {
	case constant.Windows:
		return filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe"), []string{"url.dll,FileProtocolHandler"}, true
	case constant.Darwin:
		return "open", nil, true
	case constant.Linux, constant.FreeBSD, constant.OpenBSD:
		return "xdg-open", nil, true
	case constant.Android:
		return "termux-open", nil, true
	default:
		return "", nil, false
	}
}

// Command builds, without starting, the command that opens input with the default handler.
func Command(input string) (*exec.Cmd, error) {
	name, args, ok := Opener(runtime.GOOS)
	if !ok {
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return exec.Command(name, append(args, input)...), nil
}

// Start opens input with the default handler without waiting for it.
func Start(input string) error {
	cmd, err := Command(input)
	if err != nil {
		return err
	}
	return cmd.Start()
}
