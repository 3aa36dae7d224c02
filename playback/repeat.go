package playback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Repeat is the number of cycles to play, or Infinite.
type Repeat int

const (
	Infinite Repeat = -1
	Once     Repeat = 1
)

var ErrInvalidRepeat = errors.New("repeat must be a positive number or inf")

var infiniteAliases = []string{"inf", "infinite", "∞", "loop"}

// ParseRepeat accepts a positive integer or one of inf, infinite, ∞ and loop.
func ParseRepeat(s string) (Repeat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if lo.Contains(infiniteAliases, s) {
		return Infinite, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRepeat, s)
	}

	return Repeat(n), nil
}

func (r Repeat) IsInfinite() bool {
	return r == Infinite
}

// String is the inverse of ParseRepeat.
func (r Repeat) String() string {
	if r.IsInfinite() {
		return "inf"
	}
	return strconv.Itoa(int(r))
}

// Exhausted reports whether completed cycles have used up the target.
func (r Repeat) Exhausted(completed int) bool {
	return !r.IsInfinite() && completed >= int(r)
}
