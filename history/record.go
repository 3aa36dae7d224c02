package history

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/util"
)

// Record is one recently played file.
type Record struct {
	Path       string          `json:"path"`
	Repeat     playback.Repeat `json:"repeat"`
	Cycles     int             `json:"cycles"`
	Opened     int             `json:"opened"`
	LastOpened time.Time       `json:"last_opened"`
}

func (r *Record) Name() string {
	return filepath.Base(r.Path)
}

func (r *Record) String() string {
	return fmt.Sprintf("%s : %s, %s", r.Name(), util.Quantify(r.Opened, "play", "plays"), util.Quantify(r.Cycles, "cycle", "cycles"))
}
