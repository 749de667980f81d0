// file: internal/resolve/dedupe.go
// version: 1.0.0
// guid: b8d0f2a4-6c8e-4f0a-9b5c-7d9e1f3a5b7c

package resolve

import (
	"github.com/librorank/librorank/internal/catalog"
	"github.com/librorank/librorank/internal/textutil"
)

type dedupKey struct {
	title       string
	firstAuthor string
}

// Deduplicate collapses records describing the same work down to the richest
// one. Identity is the exact pair (normalized title, normalized first author
// or empty string), with no fuzzy matching on this path. Per key, the record
// with the longest description wins; equal lengths keep the first seen.
// Output order follows the order in which each key was first established,
// so the result is deterministic for a fixed input order.
func Deduplicate(records []catalog.Record) []catalog.Record {
	best := make(map[dedupKey]int, len(records))
	var order []dedupKey
	kept := make(map[dedupKey]catalog.Record, len(records))

	for _, r := range records {
		key := dedupKey{
			title:       textutil.Normalize(r.Title),
			firstAuthor: textutil.Normalize(r.FirstAuthor()),
		}
		if have, seen := best[key]; !seen {
			best[key] = len(r.Description)
			kept[key] = r
			order = append(order, key)
		} else if len(r.Description) > have {
			best[key] = len(r.Description)
			kept[key] = r
		}
	}

	out := make([]catalog.Record, 0, len(order))
	for _, key := range order {
		out = append(out, kept[key])
	}
	return out
}
