// Package probe asks the toolchain for a media file's total duration.
//
// Probing is best-effort: callers are expected to fall back to Fallback on any error.
package probe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/reprise-cli/reprise/capability"
	"github.com/reprise-cli/reprise/log"
)

// Fallback is the duration assumed when the real one cannot be determined.
const Fallback = 5 * time.Minute

const stderrLimit = 1024

var (
	ErrTimeout = errors.New("probe timed out")
	ErrParse   = errors.New("unparsable duration")
)

// Error describes a failed probe of Path.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Availabler reports whether the toolchain can be used.
type Availabler interface {
	Detect(ctx context.Context) capability.Availability
}

// Store remembers durations between runs.
type Store interface {
	Load(path string) (time.Duration, bool)
	Save(path string, d time.Duration) error
}

type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober runs the metadata-inspection tool with a hard timeout.
type Prober struct {
	binary   string
	timeout  time.Duration
	detector Availabler
	store    Store
	run      runner
}

// New returns a Prober that invokes binary, bounded by timeout, only when detector
// reports the toolchain available.
func New(binary string, timeout time.Duration, detector Availabler) *Prober {
	return &Prober{
		binary:   binary,
		timeout:  timeout,
		detector: detector,
		run:      runCommand,
	}
}

// WithStore makes p consult store before spawning the tool and record what it learns.
func (p *Prober) WithStore(store Store) *Prober {
	p.store = store
	return p
}

// Probe returns the duration of the media at path. Without the toolchain it returns
// Fallback and spawns nothing.
func (p *Prober) Probe(ctx context.Context, path string) (time.Duration, error) {
	if p.detector.Detect(ctx) != capability.Available {
		return Fallback, nil
	}

	if p.store != nil {
		if d, ok := p.store.Load(path); ok {
			log.With(log.Fields{"path": path, "duration": d}).Debugf("duration cached")
			return d, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, p.binary, Args(path)...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, &Error{Path: path, Err: ErrTimeout}
		}
		return 0, &Error{Path: path, Err: err}
	}

	d, err := Parse(out)
	if err != nil {
		return 0, &Error{Path: path, Err: err}
	}

	log.With(log.Fields{"path": path, "duration": d}).Debugf("probed")
	if p.store != nil {
		if err := p.store.Save(path, d); err != nil {
			log.Warnf("cache duration of %s: %v", path, err)
		}
	}
	return d, nil
}

// Args returns the ffprobe arguments that print only the container duration.
func Args(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// Parse reads the first non-empty line of out as decimal seconds.
func Parse(out []byte) (time.Duration, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		secs, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrParse, line)
		}
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrParse, line)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}

	return 0, fmt.Errorf("%w: empty output", ErrParse)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	// #nosec G204 - binary comes from local configuration, path is passed as a single argument
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > stderrLimit {
			msg = msg[:stderrLimit] + "..."
		}
		if msg != "" {
			return nil, fmt.Errorf("%w (stderr: %s)", err, msg)
		}
		return nil, err
	}
	return out, nil
}
