package collections

import (
	"slices"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/content"
)

// predicate decides whether a document belongs to a collection. Every
// predicate treats missing or mistyped metadata as the falsy case.
type predicate func(d *content.Document) bool

func hasTag(tag string) predicate {
	return func(d *content.Document) bool { return d.HasTag(tag) }
}

func isDraft(d *content.Document) bool     { return d.Bool(content.FieldDraft) }
func notDraft(d *content.Document) bool    { return !d.Bool(content.FieldDraft) }
func notExcluded(d *content.Document) bool { return !d.Bool(content.FieldExclude) }
func notChild(d *content.Document) bool    { return !d.Present(content.FieldParent) }
func freelancer(d *content.Document) bool  { return d.Bool(content.FieldFreelancer) }
func hasKey(d *content.Document) bool      { return d.Present(content.FieldKey) }

// publishedBy rejects documents dated strictly after now.
func publishedBy(now time.Time) predicate {
	return func(d *content.Document) bool { return !d.Date.After(now) }
}

func inLocale(locale string) predicate {
	return func(d *content.Document) bool { return d.Locale() == locale }
}

// filter returns the documents matching every predicate, in input order.
// The result never aliases docs.
func filter(docs []*content.Document, preds ...predicate) []*content.Document {
	out := make([]*content.Document, 0, len(docs))
next:
	for _, d := range docs {
		if d == nil {
			continue
		}
		for _, p := range preds {
			if !p(d) {
				continue next
			}
		}
		out = append(out, d)
	}
	return out
}

func reversed(docs []*content.Document) []*content.Document {
	slices.Reverse(docs)
	return docs
}

// byEventDateDesc sorts newest event first. Documents without an event date
// sort after every dated one; ties keep their input order.
func byEventDateDesc(docs []*content.Document) []*content.Document {
	slices.SortStableFunc(docs, func(a, b *content.Document) int {
		ta, _ := a.Time(content.FieldEventDate)
		tb, _ := b.Time(content.FieldEventDate)
		return tb.Compare(ta)
	})
	return docs
}
