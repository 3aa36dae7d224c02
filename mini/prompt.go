package mini

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reprise-cli/reprise/color"
	"github.com/reprise-cli/reprise/constant"
	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/util"
	"github.com/samber/lo"
)

func title(t string) {
	fmt.Println(style.Fg(color.Purple)(style.Bold(t)))
}

func fail(t string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), style.Fg(color.Red)(t))
}

func progress(t string) (eraser func()) {
	return util.PrintErasable(fmt.Sprintf("%s %s", icon.Get(icon.Progress), style.Faint(t)))
}

// ask wraps survey.AskOne with the shared icon set.
func ask(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	opts = append(opts, survey.WithIcons(func(icons *survey.IconSet) {
		icons.Question.Text = icon.Get(icon.Video)
		icons.Error.Text = icon.Get(icon.Fail)
	}))
	return survey.AskOne(p, response, opts...)
}

// suggestFiles completes a partial path to directories and video files.
func suggestFiles(toComplete string) []string {
	matches, err := filepath.Glob(toComplete + "*")
	if err != nil {
		return nil
	}

	return lo.Filter(matches, func(p string, _ int) bool {
		info, err := filesystem.API().Stat(p)
		if err != nil {
			return false
		}
		return info.IsDir() || lo.Contains(constant.VideoExtensions, strings.ToLower(filepath.Ext(p)))
	})
}

func readable(ans interface{}) error {
	path, ok := ans.(string)
	if !ok {
		return fmt.Errorf("unexpected answer %v", ans)
	}
	return filesystem.Readable(path)
}

func truncate(s string) string {
	if truncateAt <= 0 {
		return s
	}
	return s[:util.Min(len(s), truncateAt)]
}
