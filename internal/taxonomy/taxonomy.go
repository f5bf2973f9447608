// Package taxonomy aggregates distinct metadata values (categories,
// specialties) across a document pool and turns them into slugged entries.
package taxonomy

import (
	"reflect"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/slug"
)

// Entry is one distinct taxonomy value with its URL slug.
type Entry struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// CollationTag is the language whose collation orders aggregated values.
var CollationTag = language.English

// AggregateValues collects the distinct, lower-cased values of field across
// docs, sorted with a case- and diacritic-insensitive collator. Missing
// fields, non-string leaves and empty strings contribute nothing. Nested
// sequences are flattened to any depth.
func AggregateValues(docs []*content.Document, field string) []string {
	lower := cases.Lower(language.Und)
	seen := make(map[string]struct{})
	var values []string

	for _, d := range docs {
		flatten(d.Value(field), func(s string) {
			if s == "" {
				return
			}
			v := lower.String(s)
			if _, ok := seen[v]; ok {
				return
			}
			seen[v] = struct{}{}
			values = append(values, v)
		})
	}

	Sort(values)
	return values
}

// Sort orders values in place at base strength; ties fall back to code point
// order so the output is deterministic.
func Sort(values []string) {
	c := collate.New(CollationTag, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortStableFunc(values, func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})
}

// Entries maps aggregated values to taxonomy entries, preserving order.
func Entries(values []string) []Entry {
	out := make([]Entry, 0, len(values))
	for _, v := range values {
		out = append(out, Entry{Title: v, Slug: slug.Slugify(v)})
	}
	return out
}

// Derive aggregates field over docs and returns the slugged entries.
func Derive(docs []*content.Document, field string) []Entry {
	return Entries(AggregateValues(docs, field))
}

func flatten(v any, emit func(string)) {
	switch t := v.(type) {
	case nil:
		return
	case string:
		emit(t)
	case []string:
		for _, s := range t {
			emit(s)
		}
	case []any:
		for _, item := range t {
			flatten(item, emit)
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := range rv.Len() {
				flatten(rv.Index(i).Interface(), emit)
			}
		}
	}
}
