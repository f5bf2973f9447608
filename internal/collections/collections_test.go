package collections

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/taxonomy"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return now.AddDate(0, 0, offset)
}

func newDoc(path string, date time.Time, data map[string]any, tags ...string) *content.Document {
	if data == nil {
		data = map[string]any{}
	}
	return &content.Document{Path: path, Tags: tags, Data: data, Date: date}
}

func paths(docs []*content.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Path)
	}
	return out
}

// pool is ordered ascending by date, like the loader's output.
func pool() []*content.Document {
	return []*content.Document{
		newDoc("nl/about.md", day(-30), map[string]any{"key": "about", "locale": "nl", "draft": true}, "pages"),
		newDoc("en/about.md", day(-30), map[string]any{"key": "about", "locale": "en"}, "pages"),
		newDoc("nl/contact.md", day(-29), map[string]any{"locale": "nl"}, "pages"),
		newDoc("nl/posts/p1.md", day(-20), map[string]any{"locale": "nl", "categories": []any{"Go"}}, "posts"),
		newDoc("en/posts/p2.md", day(-15), map[string]any{"locale": "en", "categories": []any{"go", "Cloud"}}, "posts"),
		newDoc("nl/posts/p2-part.md", day(-14), map[string]any{"locale": "nl", "parent": "p2"}, "posts"),
		newDoc("nl/posts/hidden.md", day(-13), map[string]any{"locale": "nl", "excludeFromCollection": true}, "posts"),
		newDoc("nl/posts/draft.md", day(-12), map[string]any{"locale": "nl", "draft": true}, "posts"),
		newDoc("nl/posts/p3.md", day(-10), map[string]any{"locale": "nl"}, "posts"),
		newDoc("posts/nolocale.md", day(-9), nil, "posts"),
		newDoc("nl/posts/future.md", day(10), map[string]any{"locale": "nl"}, "posts"),
		newDoc("nl/activities/a1.md", day(-40), map[string]any{"locale": "nl", "eventdate": "2025-07-01", "categories": []any{"Meetup"}}, "activities"),
		newDoc("en/activities/a2.md", day(-35), map[string]any{"locale": "en", "eventdate": "2025-09-01"}, "activities"),
		newDoc("nl/activities/a3.md", day(-30), map[string]any{"locale": "nl"}, "activities"),
		newDoc("nl/activities/a4.md", day(-25), map[string]any{"locale": "nl", "eventdate": "2025-07-01"}, "activities"),
		newDoc("nl/jobs/j1.md", day(-8), map[string]any{"locale": "nl", "categories": []any{"Backend"}}, "jobs"),
		newDoc("en/jobs/j2.md", day(-7), map[string]any{"locale": "en", "draft": false}, "jobs"),
		newDoc("nl/members/m1.md", day(-100), map[string]any{"locale": "nl", "freelancer": true, "specialties": []any{"Kubernetes", "go"}}, "members"),
		newDoc("en/members/m2.md", day(-90), map[string]any{"locale": "en", "freelancer": false, "specialties": []any{"Rust"}}, "members"),
		newDoc("nl/members/m3.md", day(-80), map[string]any{"locale": "nl", "freelancer": true, "excludeFromCollection": true, "specialties": []any{"Go"}}, "members"),
		newDoc("en/members/m4.md", day(-70), map[string]any{"locale": "en", "freelancer": true, "parent": "m1"}, "members"),
		newDoc("nl/members/m5.md", day(-60), map[string]any{"locale": "nl", "draft": true, "freelancer": true}, "members"),
	}
}

func TestPublishedPosts_FiltersAndReverses(t *testing.T) {
	got := PublishedPosts(pool(), now)
	assert.Equal(t, []string{"posts/nolocale.md", "nl/posts/p3.md", "en/posts/p2.md", "nl/posts/p1.md"}, paths(got))
}

func TestPublishedPosts_ReversalLaw(t *testing.T) {
	var docs []*content.Document
	for i := range 6 {
		docs = append(docs, newDoc(string(rune('a'+i))+".md", day(-10+i), nil, "posts"))
	}
	got := PublishedPosts(docs, now)
	assert.Equal(t, []string{"f.md", "e.md", "d.md", "c.md", "b.md", "a.md"}, paths(got))
}

func TestPublishedPosts_LocalePartition(t *testing.T) {
	docs := pool()
	all := PublishedPosts(docs, now)
	nl := GetLocale(all, content.LocaleNL)
	en := GetLocale(all, content.LocaleEN)

	seen := map[*content.Document]string{}
	for _, d := range nl {
		seen[d] = "nl"
		assert.Equal(t, "nl", d.Locale())
		assert.Contains(t, all, d)
	}
	for _, d := range en {
		_, dup := seen[d]
		assert.False(t, dup, "locale variants must be disjoint")
		assert.Equal(t, "en", d.Locale())
		assert.Contains(t, all, d)
	}

	var withLocale int
	for _, d := range all {
		if d.Locale() != "" {
			withLocale++
		}
	}
	assert.Equal(t, withLocale, len(nl)+len(en))
}

func TestPublishedActivities_SortedByEventDateDescending(t *testing.T) {
	got := PublishedActivities(pool(), now)
	require.Equal(t, []string{"en/activities/a2.md", "nl/activities/a1.md", "nl/activities/a4.md", "nl/activities/a3.md"}, paths(got))

	for i := 1; i < len(got); i++ {
		prev, _ := got[i-1].Time("eventdate")
		cur, _ := got[i].Time("eventdate")
		assert.False(t, cur.After(prev), "activities must be ordered latest first")
	}
}

func TestPublishedJobs(t *testing.T) {
	got := PublishedJobs(pool(), now)
	assert.Equal(t, []string{"en/jobs/j2.md", "nl/jobs/j1.md"}, paths(got))
}

func TestPublishedMembers_KeepsChildrenInInputOrder(t *testing.T) {
	got := PublishedMembers(pool(), now)
	assert.Equal(t, []string{"nl/members/m1.md", "en/members/m2.md", "en/members/m4.md"}, paths(got))
}

func TestFreelancers(t *testing.T) {
	docs := pool()
	got := Freelancers(docs, now)
	assert.Equal(t, []string{"nl/members/m1.md", "en/members/m4.md"}, paths(got))

	bindings, err := DeriveAll(Definitions(), docs, now)
	require.NoError(t, err)
	for _, name := range []string{NameFreelancers, LocaleName(NameFreelancers, "nl"), LocaleName(NameFreelancers, "en")} {
		for _, d := range bindings.Documents(name) {
			assert.NotEqual(t, "en/members/m2.md", d.Path, "non-freelancer in %s", name)
			assert.True(t, d.Bool("freelancer"))
		}
	}
}

func TestCanonical_IgnoresDraftStatus(t *testing.T) {
	got := Canonical(pool(), now)
	assert.Equal(t, []string{"nl/about.md"}, paths(got))

	future := []*content.Document{newDoc("nl/soon.md", day(1), map[string]any{"key": "soon", "locale": "nl"}, "pages")}
	assert.Empty(t, Canonical(future, now))
}

func TestCanonical_AnyNonEmptyKey(t *testing.T) {
	docs := []*content.Document{
		newDoc("nl/jaar.md", day(-3), map[string]any{"key": 2024, "locale": "nl"}, "pages"),
		newDoc("nl/blank.md", day(-2), map[string]any{"key": "  ", "locale": "nl"}, "pages"),
		newDoc("nl/off.md", day(-1), map[string]any{"key": false, "locale": "nl"}, "pages"),
	}
	assert.Equal(t, []string{"nl/jaar.md"}, paths(Canonical(docs, now)))
}

func TestDrafts_AnyTag(t *testing.T) {
	got := Drafts(pool())
	assert.Equal(t, []string{"nl/about.md", "nl/posts/draft.md", "nl/members/m5.md"}, paths(got))
	for _, d := range got {
		assert.True(t, d.Bool("draft"))
	}
}

func TestTaxonomies(t *testing.T) {
	docs := pool()

	assert.Equal(t, []taxonomy.Entry{{Title: "cloud", Slug: "cloud"}, {Title: "go", Slug: "go"}}, BlogCategories(docs))
	assert.Equal(t, []taxonomy.Entry{{Title: "meetup", Slug: "meetup"}}, ActivityCategories(docs))
	assert.Equal(t, []taxonomy.Entry{{Title: "backend", Slug: "backend"}}, JobCategories(docs))
	assert.Equal(t, []taxonomy.Entry{{Title: "go", Slug: "go"}, {Title: "kubernetes", Slug: "kubernetes"}}, MemberSpecialties(docs),
		"only freelancers contribute specialties")
}

func TestDeriveAll_BindsEveryName(t *testing.T) {
	bindings, err := DeriveAll(Definitions(), pool(), now)
	require.NoError(t, err)

	want := []string{
		"activityCategories", "blogCategories", "canonical", "drafts",
		"freelancers", "freelancers_en", "freelancers_nl",
		"jobCategories", "memberSpecialties",
		"published_activities", "published_activities_en", "published_activities_nl",
		"published_jobs", "published_jobs_en", "published_jobs_nl",
		"published_members", "published_members_en", "published_members_nl",
		"published_posts", "published_posts_en", "published_posts_nl",
	}
	assert.Equal(t, want, bindings.Names())

	assert.Equal(t, []string{"nl/posts/p3.md", "nl/posts/p1.md"}, paths(bindings.Documents("published_posts_nl")))
	assert.Equal(t, []string{"en/posts/p2.md"}, paths(bindings.Documents("published_posts_en")))
	assert.Equal(t, []string{"nl/activities/a1.md", "nl/activities/a4.md", "nl/activities/a3.md"}, paths(bindings.Documents("published_activities_nl")))
	assert.Equal(t, 2, bindings.Len(NameBlogCategories))
	assert.Nil(t, bindings.Documents(NameBlogCategories))
	assert.Nil(t, bindings.Entries("unknown"))
}

func TestDeriveAll_LocaleVariantsMatchCombined(t *testing.T) {
	bindings, err := DeriveAll(Definitions(), pool(), now)
	require.NoError(t, err)

	for _, base := range []string{NamePublishedPosts, NamePublishedActivities, NamePublishedJobs, NamePublishedMembers, NameFreelancers} {
		combined := bindings.Documents(base)
		for _, locale := range content.Locales {
			assert.Equal(t, GetLocale(combined, locale), bindings.Documents(LocaleName(base, locale)), "%s_%s", base, locale)
		}
	}
}

func TestDeriveAll_RejectsDuplicateNames(t *testing.T) {
	defs := append(Definitions(), Definition{Name: NameDrafts, Derive: func([]*content.Document, time.Time) any { return nil }})
	_, err := DeriveAll(defs, nil, now)
	assert.Error(t, err)
}

func TestDerivations_DoNotMutatePool(t *testing.T) {
	docs := pool()
	before := paths(docs)

	_, err := DeriveAll(Definitions(), docs, now)
	require.NoError(t, err)

	assert.Equal(t, before, paths(docs))
}

func TestFilter_SkipsNilDocuments(t *testing.T) {
	docs := []*content.Document{nil, newDoc("a.md", day(-1), nil, "posts")}
	assert.Equal(t, []string{"a.md"}, paths(PublishedPosts(docs, now)))
}

func TestFastBuild_Apply(t *testing.T) {
	docs := []*content.Document{
		newDoc("old-post.md", time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), nil, "posts"),
		newDoc("old-page.md", time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC), nil, "pages"),
		newDoc("old-member.md", time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC), nil, "members"),
		newDoc("new-job.md", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil, "jobs"),
		newDoc("cutoff-activity.md", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), nil, "activities"),
		newDoc("old-activity.md", time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC), nil, "activities"),
	}

	assert.Equal(t, paths(docs), paths(FastBuild{}.Apply(docs)))
	assert.Equal(t, paths(docs), paths(FastBuild{Enabled: true}.Apply(docs)))
	assert.Equal(t,
		[]string{"old-page.md", "old-member.md", "new-job.md", "cutoff-activity.md"},
		paths(FastBuild{Enabled: true, CutoffYear: 2023}.Apply(docs)))
}
