// Package helpers is the explicit registry of functions exposed to templates.
package helpers

import (
	"fmt"
	"net/url"
	"strings"
	"text/template"
	"time"

	"github.com/goodsign/monday"

	"git.home.luguber.info/inful/sitegen/internal/collections"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/slug"
	"git.home.luguber.info/inful/sitegen/internal/taxonomy"
)

// Helper is one named template function.
type Helper struct {
	Name string
	Fn   any
}

// Builtin returns the helper set every site gets. baseURL feeds absoluteURL.
func Builtin(baseURL string) []Helper {
	return []Helper{
		{Name: "getLocale", Fn: collections.GetLocale},
		{Name: "slugify", Fn: slug.Slugify},
		{Name: "aggregateValues", Fn: taxonomy.AggregateValues},
		{Name: "displayDate", Fn: ReadableDate},
		{Name: "isoDate", Fn: ISODate},
		{Name: "limit", Fn: Limit},
		{Name: "absoluteURL", Fn: AbsoluteURL(baseURL)},
	}
}

// FuncMap converts helpers into a template.FuncMap, rejecting duplicate or
// empty names and nil functions.
func FuncMap(helpers []Helper) (template.FuncMap, error) {
	fm := make(template.FuncMap, len(helpers))
	for _, h := range helpers {
		if h.Name == "" {
			return nil, fmt.Errorf("helper without a name")
		}
		if h.Fn == nil {
			return nil, fmt.Errorf("helper %q has no function", h.Name)
		}
		if _, dup := fm[h.Name]; dup {
			return nil, fmt.Errorf("helper %q registered twice", h.Name)
		}
		fm[h.Name] = h.Fn
	}
	return fm, nil
}

// dateLocales maps site locales onto calendar locales.
var dateLocales = map[string]monday.Locale{
	content.LocaleNL: monday.LocaleNlNL,
	content.LocaleEN: monday.LocaleEnUS,
}

// ReadableDate formats t in the long date style of locale: "7 maart 2025"
// for nl, "March 7, 2025" for en. Full locale names such as "de_DE" or
// "fr-FR" are accepted too; anything unknown falls back to en.
func ReadableDate(t time.Time, locale string) string {
	if t.IsZero() {
		return ""
	}
	loc := calendarLocale(locale)
	return monday.Format(t, monday.LongFormatsByLocale[loc], loc)
}

func calendarLocale(locale string) monday.Locale {
	if loc, ok := dateLocales[strings.ToLower(locale)]; ok {
		return loc
	}
	loc := monday.Locale(strings.ReplaceAll(locale, "-", "_"))
	if _, ok := monday.LongFormatsByLocale[loc]; ok {
		return loc
	}
	return monday.LocaleEnUS
}

// ISODate formats t as YYYY-MM-DD for datetime attributes.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// Limit returns at most n documents.
func Limit(docs []*content.Document, n int) []*content.Document {
	if n < 0 {
		n = 0
	}
	if n > len(docs) {
		n = len(docs)
	}
	return docs[:n:n]
}

// AbsoluteURL resolves site-relative paths against baseURL.
func AbsoluteURL(baseURL string) func(string) string {
	base, err := url.Parse(baseURL)
	return func(p string) string {
		if err != nil || base.Host == "" {
			return p
		}
		ref, perr := url.Parse(strings.TrimSpace(p))
		if perr != nil {
			return p
		}
		return base.ResolveReference(ref).String()
	}
}
