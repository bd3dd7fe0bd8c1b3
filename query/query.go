// Package query persists library search queries and serves ranked suggestions
// for partial input.
package query

import (
	"strings"

	"github.com/coursa-cli/coursa/filesystem"
	"github.com/coursa-cli/coursa/key"
	"github.com/coursa-cli/coursa/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// suggestionCache memoizes fuzzy lookups per sanitized input within a run.
var suggestionCache = make(map[string][]*record)

// Remember stores a search query or bumps its rank if it was seen before.
func Remember(q string, weight int) error {
	q = sanitize(q)
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	return cacher.Set(cached)
}

// Suggest returns the highest ranked historical query matching the partial input.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns historical queries fuzzy-matching the partial input,
// most popular first. Empty when suggestions are disabled in the config.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)
	var records []*record

	if prev, ok := suggestionCache[q]; ok {
		records = prev
	} else {
		cached, expired, err := cacher.Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, r := range cached {
			if fuzzy.Match(q, r.Query) {
				records = append(records, r)
			}
		}

		slices.SortFunc(records, func(a, b *record) int {
			return b.Rank - a.Rank
		})

		suggestionCache[q] = records
	}

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
