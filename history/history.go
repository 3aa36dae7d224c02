// Package history persists the recently played files and how they were played.
package history

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/metafates/gache"
	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/key"
	"github.com/reprise-cli/reprise/playback"
	"github.com/reprise-cli/reprise/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.CacheFs{},
	},
)

var now = time.Now

// Get returns every record keyed by absolute path.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Sorted returns the records, most recently opened first.
func Sorted() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(saved))
	for _, r := range saved {
		records = append(records, r)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].LastOpened.Equal(records[j].LastOpened) {
			return records[i].Path < records[j].Path
		}
		return records[i].LastOpened.After(records[j].LastOpened)
	})

	return records, nil
}

// Last returns the most recently opened record.
func Last() (mo.Option[*Record], error) {
	records, err := Sorted()
	if err != nil {
		return mo.None[*Record](), err
	}
	if len(records) == 0 {
		return mo.None[*Record](), nil
	}
	return mo.Some(records[0]), nil
}

// Opened records that path was loaded with the repeat target.
func Opened(path string, repeat playback.Repeat) error {
	if !viper.GetBool(key.HistorySave) {
		return nil
	}

	return update(path, func(r *Record) {
		r.Opened++
		r.Repeat = repeat
		r.LastOpened = now()
	})
}

// AddCycles adds n completed cycles to the record of path.
func AddCycles(path string, n int) error {
	if n <= 0 || !viper.GetBool(key.HistorySave) {
		return nil
	}

	return update(path, func(r *Record) {
		r.Cycles += n
	})
}

// Remove permanently deletes the record of path.
func Remove(path string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, normalize(path))
	return cacher.Set(saved)
}

func update(path string, fn func(*Record)) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	p := normalize(path)
	record, ok := saved[p]
	if !ok {
		record = &Record{Path: p, Repeat: playback.Once}
		saved[p] = record
	}
	fn(record)

	return cacher.Set(saved)
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
