// Package collections derives the named document views templates consume:
// published posts, activities, jobs and members per locale, freelancers,
// drafts, the canonical page index and the taxonomy lists.
//
// Every derivation is a pure function of the document pool and the build
// time. Results are fresh slices; the pool and its documents are never
// modified, so derivations can run in any order or concurrently.
package collections

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/taxonomy"
)

// Canonical lists `pages` documents with a key in the nl locale that are
// published by now, drafts and excluded pages included.
func Canonical(docs []*content.Document, now time.Time) []*content.Document {
	return filter(docs,
		hasTag(content.TagPages),
		hasKey,
		publishedBy(now),
		inLocale(content.LocaleNL),
	)
}

// Drafts lists every draft in the pool, whatever its tag.
func Drafts(docs []*content.Document) []*content.Document {
	return filter(docs, isDraft)
}

// PublishedPosts lists live, top-level posts newest first.
func PublishedPosts(docs []*content.Document, now time.Time) []*content.Document {
	return reversed(filter(docs, published(content.TagPosts, now)...))
}

// PublishedActivities lists live, top-level activities by event date, latest first.
func PublishedActivities(docs []*content.Document, now time.Time) []*content.Document {
	return byEventDateDesc(filter(docs, published(content.TagActivities, now)...))
}

// PublishedJobs lists live, top-level job listings newest first.
func PublishedJobs(docs []*content.Document, now time.Time) []*content.Document {
	return reversed(filter(docs, published(content.TagJobs, now)...))
}

// PublishedMembers lists published, non-excluded member profiles in input
// order. Member profiles may have a parent.
func PublishedMembers(docs []*content.Document, now time.Time) []*content.Document {
	return filter(docs,
		hasTag(content.TagMembers),
		notDraft,
		notExcluded,
		publishedBy(now),
	)
}

// Freelancers lists published members flagged as freelancer, in input order.
func Freelancers(docs []*content.Document, now time.Time) []*content.Document {
	return filter(docs,
		hasTag(content.TagMembers),
		notDraft,
		notExcluded,
		publishedBy(now),
		freelancer,
	)
}

// GetLocale keeps the documents whose locale equals locale, in input order.
func GetLocale(docs []*content.Document, locale string) []*content.Document {
	return filter(docs, inLocale(locale))
}

// MemberSpecialties aggregates the specialties of freelancing members.
func MemberSpecialties(docs []*content.Document) []taxonomy.Entry {
	return taxonomy.Derive(filter(docs, hasTag(content.TagMembers), freelancer), content.FieldSpecialties)
}

// ActivityCategories aggregates the categories of all activities.
func ActivityCategories(docs []*content.Document) []taxonomy.Entry {
	return taxonomy.Derive(filter(docs, hasTag(content.TagActivities)), content.FieldCategories)
}

// BlogCategories aggregates the categories of all posts.
func BlogCategories(docs []*content.Document) []taxonomy.Entry {
	return taxonomy.Derive(filter(docs, hasTag(content.TagPosts)), content.FieldCategories)
}

// JobCategories aggregates the categories of all job listings.
func JobCategories(docs []*content.Document) []taxonomy.Entry {
	return taxonomy.Derive(filter(docs, hasTag(content.TagJobs)), content.FieldCategories)
}

// published is the shared rule set for posts, activities and jobs.
func published(tag string, now time.Time) []predicate {
	return []predicate{
		hasTag(tag),
		notDraft,
		notExcluded,
		publishedBy(now),
		notChild,
	}
}
