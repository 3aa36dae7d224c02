package player

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Volume is a playback level in percent, from Mute to Full.
type Volume int

const (
	Mute Volume = 0
	Full Volume = 100
)

var ErrInvalidVolume = errors.New("volume must be a number from 0 to 100")

// ParseVolume accepts a percentage with an optional trailing '%'.
func ParseVolume(s string) (Volume, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil || n < int(Mute) || n > int(Full) {
		return 0, ErrInvalidVolume
	}
	return Volume(n), nil
}

// Clamp limits v to [Mute, Full].
func (v Volume) Clamp() Volume {
	return lo.Clamp(v, Mute, Full)
}

func (v Volume) String() string {
	return strconv.Itoa(int(v)) + "%"
}

// Settings are the per-launch parameters of a player.
type Settings struct {
	Offset time.Duration

	// Volume is left to the player when absent.
	Volume mo.Option[Volume]
}
