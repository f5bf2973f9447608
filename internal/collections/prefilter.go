package collections

import "git.home.luguber.info/inful/sitegen/internal/content"

// datedTags are the content families a fast build trims by year.
var datedTags = []string{content.TagPosts, content.TagActivities, content.TagJobs}

// FastBuild drops older dated content from the pool before derivation so
// local iteration builds stay quick.
type FastBuild struct {
	Enabled    bool
	CutoffYear int
}

// Apply returns the pool without posts, activities and jobs published before
// CutoffYear. A disabled or unset filter returns a copy of docs unchanged.
func (f FastBuild) Apply(docs []*content.Document) []*content.Document {
	if !f.Enabled || f.CutoffYear <= 0 {
		return filter(docs)
	}
	return filter(docs, func(d *content.Document) bool {
		for _, tag := range datedTags {
			if d.HasTag(tag) {
				return d.Date.Year() >= f.CutoffYear
			}
		}
		return true
	})
}
