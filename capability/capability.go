// Package capability detects whether the external decoder toolchain can be used.
package capability

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"github.com/reprise-cli/reprise/log"
)

// Availability is the outcome of toolchain detection.
type Availability int

const (
	Unavailable Availability = iota
	Available
)

func (a Availability) String() string {
	if a == Available {
		return "available"
	}
	return "unavailable"
}

// Detect lets a fixed Availability stand in for a Detector.
func (a Availability) Detect(context.Context) Availability {
	return a
}

// Detector runs a version query against the decoder binary once and caches the answer
// for its own lifetime.
type Detector struct {
	binary   string
	timeout  time.Duration
	lookPath func(string) (string, error)

	once   sync.Once
	result Availability
	path   string
}

// New returns a Detector for binary whose version query is bounded by timeout.
func New(binary string, timeout time.Duration) *Detector {
	return &Detector{
		binary:   binary,
		timeout:  timeout,
		lookPath: exec.LookPath,
	}
}

// Binary returns the configured binary name.
func (d *Detector) Binary() string {
	return d.binary
}

// Path returns the resolved binary path, empty unless detection succeeded.
func (d *Detector) Path() string {
	return d.path
}

// Detect reports toolchain availability. The first call runs the query; later calls
// return the cached result.
func (d *Detector) Detect(ctx context.Context) Availability {
	d.once.Do(func() {
		d.result, d.path = d.detect(ctx)
		log.With(log.Fields{"binary": d.binary, "path": d.path}).Infof("decoder toolchain %s", d.result)
	})
	return d.result
}

func (d *Detector) detect(ctx context.Context) (Availability, string) {
	path, err := d.lookPath(d.binary)
	if err != nil {
		log.Debugf("lookup %s: %v", d.binary, err)
		return Unavailable, ""
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	// #nosec G204 - binary comes from local configuration
	cmd := exec.CommandContext(ctx, path, "-version")
	cmd.WaitDelay = d.timeout

	// Run waits for the child, so nothing is left unreaped on any branch.
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warnf("%s -version timed out after %s", d.binary, d.timeout)
		} else {
			log.Warnf("%s -version: %v", d.binary, err)
		}
		return Unavailable, ""
	}

	return Available, path
}
