package collections

import (
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/taxonomy"
)

// Binding names exposed to templates.
const (
	NameCanonical           = "canonical"
	NamePublishedPosts      = "published_posts"
	NamePublishedActivities = "published_activities"
	NamePublishedJobs       = "published_jobs"
	NamePublishedMembers    = "published_members"
	NameFreelancers         = "freelancers"
	NameDrafts              = "drafts"
	NameMemberSpecialties   = "memberSpecialties"
	NameActivityCategories  = "activityCategories"
	NameBlogCategories      = "blogCategories"
	NameJobCategories       = "jobCategories"
)

// DeriveFunc computes one binding. The result is either []*content.Document
// or []taxonomy.Entry.
type DeriveFunc func(docs []*content.Document, now time.Time) any

// Definition names a derived collection.
type Definition struct {
	Name   string
	Derive DeriveFunc
}

// LocaleName returns the binding name of a locale-specific variant.
func LocaleName(base, locale string) string {
	return base + "_" + locale
}

type documentsFunc func(docs []*content.Document, now time.Time) []*content.Document

// localized expands a document collection into its combined binding plus
// one binding per locale.
func localized(name string, fn documentsFunc) []Definition {
	defs := []Definition{{Name: name, Derive: func(docs []*content.Document, now time.Time) any {
		return fn(docs, now)
	}}}
	for _, locale := range content.Locales {
		defs = append(defs, Definition{Name: LocaleName(name, locale), Derive: func(docs []*content.Document, now time.Time) any {
			return GetLocale(fn(docs, now), locale)
		}})
	}
	return defs
}

func taxonomyDef(name string, fn func([]*content.Document) []taxonomy.Entry) Definition {
	return Definition{Name: name, Derive: func(docs []*content.Document, _ time.Time) any {
		return fn(docs)
	}}
}

// Definitions returns the fixed list of collections, in registration order.
func Definitions() []Definition {
	var defs []Definition
	defs = append(defs, Definition{Name: NameCanonical, Derive: func(docs []*content.Document, now time.Time) any {
		return Canonical(docs, now)
	}})
	defs = append(defs, localized(NamePublishedPosts, PublishedPosts)...)
	defs = append(defs, localized(NamePublishedActivities, PublishedActivities)...)
	defs = append(defs, localized(NamePublishedJobs, PublishedJobs)...)
	defs = append(defs, localized(NamePublishedMembers, PublishedMembers)...)
	defs = append(defs, localized(NameFreelancers, Freelancers)...)
	defs = append(defs, Definition{Name: NameDrafts, Derive: func(docs []*content.Document, _ time.Time) any {
		return Drafts(docs)
	}})
	defs = append(defs,
		taxonomyDef(NameMemberSpecialties, MemberSpecialties),
		taxonomyDef(NameActivityCategories, ActivityCategories),
		taxonomyDef(NameBlogCategories, BlogCategories),
		taxonomyDef(NameJobCategories, JobCategories),
	)
	return defs
}

// Bindings maps binding names to derived collections.
type Bindings map[string]any

// Documents returns a document binding, or nil when name is unknown or holds taxonomy entries.
func (b Bindings) Documents(name string) []*content.Document {
	docs, _ := b[name].([]*content.Document)
	return docs
}

// Entries returns a taxonomy binding, or nil.
func (b Bindings) Entries(name string) []taxonomy.Entry {
	entries, _ := b[name].([]taxonomy.Entry)
	return entries
}

// Names returns the binding names in sorted order.
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of items in a binding.
func (b Bindings) Len(name string) int {
	switch v := b[name].(type) {
	case []*content.Document:
		return len(v)
	case []taxonomy.Entry:
		return len(v)
	default:
		return 0
	}
}

// DeriveAll evaluates every definition against the pool. Definitions are
// independent, so they run on a bounded set of goroutines; each writes only
// its own result slot.
func DeriveAll(defs []Definition, docs []*content.Document, now time.Time) (Bindings, error) {
	results := make([]any, len(defs))
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("duplicate collection %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, def := range defs {
		g.Go(func() error {
			results[i] = def.Derive(docs, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bindings := make(Bindings, len(defs))
	for i, def := range defs {
		bindings[def.Name] = results[i]
	}
	return bindings, nil
}
