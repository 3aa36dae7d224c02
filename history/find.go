package history

import (
	"path/filepath"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Find returns the record whose file name best matches query, ignoring case.
// An exact path match wins over fuzzy matches.
func Find(query string) (mo.Option[*Record], error) {
	records, err := Sorted()
	if err != nil {
		return mo.None[*Record](), err
	}

	if r, ok := lo.Find(records, func(r *Record) bool {
		return r.Path == normalize(query)
	}); ok {
		return mo.Some(r), nil
	}

	names := lo.Map(records, func(r *Record, _ int) string {
		return filepath.Base(r.Path)
	})

	ranks := fuzzy.RankFindFold(query, names)
	if len(ranks) == 0 {
		return mo.None[*Record](), nil
	}

	sort.Sort(ranks)
	return mo.Some(records[ranks[0].OriginalIndex]), nil
}
