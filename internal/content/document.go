// Package content models the document pool a build works on and loads it from disk.
package content

import (
	"slices"
	"strings"
	"time"
)

// Tags classifying documents.
const (
	TagPages      = "pages"
	TagPosts      = "posts"
	TagActivities = "activities"
	TagJobs       = "jobs"
	TagMembers    = "members"
)

// Locales.
const (
	LocaleNL = "nl"
	LocaleEN = "en"
)

// Locales lists every supported locale in output order.
var Locales = []string{LocaleNL, LocaleEN}

// Front matter fields read by the collection rules.
const (
	FieldDraft       = "draft"
	FieldExclude     = "excludeFromCollection"
	FieldParent      = "parent"
	FieldLocale      = "locale"
	FieldKey         = "key"
	FieldEventDate   = "eventdate"
	FieldCategories  = "categories"
	FieldSpecialties = "specialties"
	FieldFreelancer  = "freelancer"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldDate        = "date"
	FieldPermalink   = "permalink"
)

// Document is a single content item. Documents are shared read-only between
// derivations; nothing in this module mutates one after loading.
type Document struct {
	Path        string         `json:"path"` // slash separated, relative to the content root
	URL         string         `json:"url"`
	Tags        []string       `json:"tags"`
	Data        map[string]any `json:"data"`
	Date        time.Time      `json:"date"` // publication date
	Body        []byte         `json:"-"`
	Fingerprint string         `json:"fingerprint,omitempty"`
}

// HasTag reports whether the document carries tag.
func (d *Document) HasTag(tag string) bool {
	if d == nil {
		return false
	}
	return slices.Contains(d.Tags, tag)
}

// Value returns the raw metadata value for field, or nil.
func (d *Document) Value(field string) any {
	if d == nil || d.Data == nil {
		return nil
	}
	return d.Data[field]
}

// Bool is true only for a boolean true value. Anything else (missing, null,
// "true" as a string, numbers) is false.
func (d *Document) Bool(field string) bool {
	b, ok := d.Value(field).(bool)
	return ok && b
}

// String returns the field as a string, or "" when it is missing or not a string.
func (d *Document) String(field string) string {
	s, _ := d.Value(field).(string)
	return s
}

// Present reports whether a field holds a meaningful value: not nil, not an
// empty string and not false.
func (d *Document) Present(field string) bool {
	switch v := d.Value(field).(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	default:
		return true
	}
}

// Time parses the field as a timestamp. YAML decodes unquoted dates into
// strings when the target is any, so both forms are accepted.
func (d *Document) Time(field string) (time.Time, bool) {
	return ParseTime(d.Value(field))
}

// Locale returns the document's locale, or "" when it has none.
func (d *Document) Locale() string {
	return d.String(FieldLocale)
}

// Title returns the front matter title, falling back to the path.
func (d *Document) Title() string {
	if t := d.String(FieldTitle); t != "" {
		return t
	}
	if d == nil {
		return ""
	}
	return d.Path
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTime converts a metadata value into a time. Unsupported values yield false.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
