package version

import (
	"fmt"
	"strconv"
	"strings"
)

type release [3]int

// parseRelease reads a tag such as "v0.4.1" or "0.4.1-rc.2". Anything after the
// patch number is ignored.
func parseRelease(tag string) (release, error) {
	var r release

	core, _, _ := strings.Cut(strings.TrimPrefix(tag, "v"), "-")
	core, _, _ = strings.Cut(core, "+")
	parts := strings.Split(core, ".")
	if len(parts) != len(r) {
		return r, fmt.Errorf("%q is not a release tag", tag)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return r, fmt.Errorf("%q is not a release tag", tag)
		}
		r[i] = n
	}

	return r, nil
}

// Compare orders two release tags: 1 when a is newer, -1 when b is newer, 0 otherwise.
func Compare(a, b string) (int, error) {
	ra, err := parseRelease(a)
	if err != nil {
		return 0, err
	}

	rb, err := parseRelease(b)
	if err != nil {
		return 0, err
	}

	for i := range ra {
		switch {
		case ra[i] > rb[i]:
			return 1, nil
		case ra[i] < rb[i]:
			return -1, nil
		}
	}

	return 0, nil
}
