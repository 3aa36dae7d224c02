// Package cache keeps probed media durations on disk, keyed by file identity.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/log"
	"github.com/reprise-cli/reprise/where"
)

const TTL = 7 * 24 * time.Hour

var now = time.Now

type entry struct {
	Path    string  `json:"path"`
	Seconds float64 `json:"seconds"`
}

func dir() string {
	return filepath.Join(where.Cache(), "durations")
}

// Key derives a cache identifier from the absolute path, size and modification time
// of a file, so an edited file misses.
func Key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := filesystem.API().Stat(abs)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano())))
	return hex.EncodeToString(hash[:]), nil
}

// Durations stores probe results. The zero value is ready to use.
type Durations struct{}

// Load returns the cached duration of path, if a fresh entry exists.
func (Durations) Load(path string) (time.Duration, bool) {
	k, err := Key(path)
	if err != nil {
		return 0, false
	}

	name := filepath.Join(dir(), k)
	info, err := filesystem.API().Stat(name)
	if err != nil || now().Sub(info.ModTime()) > TTL {
		return 0, false
	}

	data, err := filesystem.API().ReadFile(name)
	if err != nil {
		return 0, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Seconds <= 0 {
		return 0, false
	}

	return time.Duration(e.Seconds * float64(time.Second)), true
}

// Save writes the duration of path through a temporary file and a rename.
func (Durations) Save(path string, d time.Duration) error {
	k, err := Key(path)
	if err != nil {
		return err
	}

	data, err := json.Marshal(entry{Path: path, Seconds: d.Seconds()})
	if err != nil {
		return err
	}

	fs := filesystem.API()
	if err := fs.MkdirAll(dir(), os.ModePerm); err != nil {
		return err
	}

	name := filepath.Join(dir(), k)
	if err := fs.WriteFile(name+".tmp", data, 0o644); err != nil {
		return err
	}
	return fs.Rename(name+".tmp", name)
}

// CollectGarbage removes entries older than TTL and returns how many were removed.
func CollectGarbage() int {
	fs := filesystem.API()
	removed := 0

	_ = fs.Walk(dir(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if now().Sub(info.ModTime()) > TTL {
			if fs.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})

	if removed > 0 {
		log.Debugf("removed %d stale duration entries", removed)
	}
	return removed
}
