package build

import (
	"strings"

	"d2c/internal/domain/content"
	"d2c/internal/domain/site"
	"d2c/internal/feed"
	"d2c/internal/render"
)

// counterpart returns the URL of the same page in another locale, or false
// when that locale has no such page.
type counterpart func(locale string) (string, bool)

// everyLocale is the counterpart of pages that exist in all locales.
func (p *pass) everyLocale(url func(site.Paths) string) counterpart {
	return func(locale string) (string, bool) {
		return url(p.paths(locale)), true
	}
}

func (p *pass) paths(locale string) site.Paths {
	return p.routes.Paths(locale)
}

func (p *pass) abs(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return p.cfg.Site.BaseURL() + "/" + strings.TrimPrefix(u, "/")
}

func (p *pass) layout(r site.Route, title, description string, other counterpart) render.Layout {
	s := p.cfg.Site
	paths := p.paths(r.Locale)
	fp := feed.PathsFor(r.Locale)
	text := render.Translate(r.Locale)

	l := render.Layout{
		Site:        s,
		Locale:      r.Locale,
		Title:       title,
		Description: description,
		Image:       p.abs(s.Image),
		Canonical:   p.abs(r.URL),
		Home:        paths.Home(),
		Nav: []render.Link{
			{Title: text.Home, URL: paths.Home()},
			{Title: text.Blog, URL: paths.Blog(1)},
			{Title: text.About, URL: paths.About()},
		},
		Feeds: render.FeedLinks{RSS: "/" + fp.RSS, Atom: "/" + fp.Atom, JSON: "/" + fp.JSON},
		Year:  p.now.Year(),
		Text:  text,
	}
	if l.Description == "" {
		l.Description = s.Description
	}

	for _, locale := range s.Locales {
		url, ok := r.URL, locale == r.Locale
		if !ok && other != nil {
			url, ok = other(locale)
		}
		if ok && locale != r.Locale {
			l.Alternates = append(l.Alternates, render.LocaleLink{Locale: locale, URL: p.abs(url)})
		}
		if !ok {
			url = p.paths(locale).Home()
		}
		l.Languages = append(l.Languages, render.LocaleLink{
			Locale:  locale,
			Name:    render.LanguageName(locale),
			URL:     url,
			Current: locale == r.Locale,
		})
	}
	return l
}

func (p *pass) tagLinks(locale string, tags []string) []render.TagLink {
	paths := p.paths(locale)
	var out []render.TagLink
	for _, t := range tags {
		name := content.FoldTag(t)
		seg := site.TagSegment(name)
		if seg == "" {
			continue
		}
		out = append(out, render.TagLink{Name: name, URL: paths.Tag(seg, 1)})
	}
	return out
}

func (p *pass) cards(posts []content.Post) []render.PostCard {
	out := make([]render.PostCard, 0, len(posts))
	for _, post := range posts {
		out = append(out, render.PostCard{
			Post: post,
			URL:  p.paths(post.Locale).Post(post.Slug),
			Tags: p.tagLinks(post.Locale, post.Tags),
		})
	}
	return out
}
