package tui

import (
	"fmt"

	"github.com/reprise-cli/reprise/history"
	"github.com/reprise-cli/reprise/icon"
	"github.com/reprise-cli/reprise/style"
	"github.com/reprise-cli/reprise/util"
)

// listItem implements list.Item for a history record.
type listItem struct {
	record *history.Record
}

func (t *listItem) Title() string {
	return fmt.Sprintf("%s %s", icon.Get(icon.Video), t.record.Name())
}

func (t *listItem) Description() string {
	repeat := t.record.Repeat.String()
	if t.record.Repeat.IsInfinite() {
		repeat = icon.Get(icon.Infinity)
	}

	return style.Faint(fmt.Sprintf(
		"%s · repeat %s · %s · %s",
		t.record.LastOpened.Format("2006-01-02 15:04"),
		repeat,
		util.Quantify(t.record.Opened, "play", "plays"),
		util.Quantify(t.record.Cycles, "cycle", "cycles"),
	))
}

func (t *listItem) FilterValue() string {
	return t.record.Path
}
