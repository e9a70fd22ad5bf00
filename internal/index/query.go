package index

import (
	"slices"
	"strings"

	"d2c/internal/domain/content"
	domainerr "d2c/internal/domain/errors"
	"d2c/internal/ingest"
)

var ErrNotFound = domainerr.ErrNotFound

// sortFields are read on top of any projection so ordering never depends on
// what the caller asked for.
var sortFields = content.NewFields(content.FieldSlug, content.FieldDate, content.FieldUpdated)

func (r *Repository) ListSlugs(locale string) []string {
	return r.listing().Slugs(locale)
}

// All returns posts grouped by locale, in directory enumeration order.
// Files that fail to parse are skipped.
func (r *Repository) All(locales []string, fields content.Fields) []content.Post {
	return r.all(r.listing(), locales, fields)
}

func (r *Repository) all(l *ingest.Listing, locales []string, fields content.Fields) []content.Post {
	var out []content.Post
	for _, locale := range locales {
		for _, sf := range l.ForLocale(locale) {
			if p, ok := r.parse(sf, fields); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// AllByDate sorts newest first by effective date. Dates compare as strings,
// so they must be zero-padded ISO dates. Ties keep enumeration order.
func (r *Repository) AllByDate(locales []string, fields content.Fields) []content.Post {
	posts := r.all(r.listing(), locales, fields|sortFields)
	sortByDate(posts)
	for i := range posts {
		posts[i] = project(posts[i], fields)
	}
	return posts
}

func sortByDate(posts []content.Post) {
	slices.SortStableFunc(posts, func(a, b content.Post) int {
		return strings.Compare(b.EffectiveDate(), a.EffectiveDate())
	})
}

// ByTag matches tags case-insensitively.
func (r *Repository) ByTag(tag, locale string, fields content.Fields) []content.Post {
	posts := r.all(r.listing(), []string{locale}, fields|sortFields|content.NewFields(content.FieldTags))
	sortByDate(posts)

	var out []content.Post
	for _, p := range posts {
		if p.HasTag(tag) {
			out = append(out, project(p, fields))
		}
	}
	return out
}

// AllTags is the lowercased union of every tag, in first-seen order.
func (r *Repository) AllTags(locales []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range r.All(locales, content.NewFields(content.FieldSlug, content.FieldTags)) {
		for _, t := range p.Tags {
			t = content.FoldTag(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func (r *Repository) neighbors(slug, locale string) ([]content.Post, int) {
	posts := r.AllByDate([]string{locale}, content.AnchorFields)
	i := slices.IndexFunc(posts, func(p content.Post) bool { return p.Slug == slug })
	return posts, i
}

// Next is the older neighbor in date order. It is nil for the oldest post
// and for an unknown slug.
func (r *Repository) Next(slug, locale string) *content.Anchor {
	posts, i := r.neighbors(slug, locale)
	if i == -1 || i == len(posts)-1 {
		return nil
	}
	a := posts[i+1].Anchor()
	return &a
}

// Previous is the newer neighbor in date order. It is nil for the newest
// post and for an unknown slug.
func (r *Repository) Previous(slug, locale string) *content.Anchor {
	posts, i := r.neighbors(slug, locale)
	if i <= 0 {
		return nil
	}
	a := posts[i-1].Anchor()
	return &a
}

// Alternates lists the other locales that carry a file for the same slug.
func (r *Repository) Alternates(slug, currentLocale string) []content.Alternate {
	var out []content.Alternate
	for _, locale := range r.listing().Locales(slug) {
		if locale == currentLocale {
			continue
		}
		out = append(out, content.Alternate{Slug: slug, Locale: locale})
	}
	return out
}

// Get looks up one post. The result error wraps ErrNotFound when no file
// backs the key and ErrMalformedContent when the file cannot be parsed.
func (r *Repository) Get(slug, locale string, fields content.Fields) ingest.Result {
	if sf, ok := r.listing().Lookup(slug, locale); ok {
		return r.parser.ParseFile(sf.Path, sf.Key, fields)
	}
	return r.parser.Parse(slug, locale, fields)
}

// Related resolves the post's related slugs in the same locale, keeping
// the author's order and skipping slugs with no post behind them.
func (r *Repository) Related(slug, locale string, fields content.Fields) []content.Post {
	l := r.listing()
	sf, ok := l.Lookup(slug, locale)
	if !ok {
		return nil
	}
	self, ok := r.parse(sf, content.NewFields(content.FieldRelated))
	if !ok {
		return nil
	}

	var out []content.Post
	for _, rel := range self.Related {
		rsf, ok := l.Lookup(rel, locale)
		if !ok || rel == slug {
			r.log.Debug().Str("slug", slug).Str("related", rel).Msg("unknown related post")
			continue
		}
		if p, ok := r.parse(rsf, fields); ok {
			out = append(out, p)
		}
	}
	return out
}

// Latest is the n most recent posts of a locale.
func (r *Repository) Latest(locale string, n int, fields content.Fields) []content.Post {
	posts := r.AllByDate([]string{locale}, fields)
	n = max(n, 0)
	if n < len(posts) {
		posts = posts[:n]
	}
	return posts
}
