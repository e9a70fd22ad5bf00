package feed

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"d2c/internal/domain/config"
	"d2c/internal/domain/content"
	"d2c/internal/index"

	"github.com/gorilla/feeds"
	"github.com/microcosm-cc/bluemonday"
)

// Feeds holds one locale's syndication documents.
type Feeds struct {
	RSS  []byte
	Atom []byte
	JSON []byte
}

// Paths are output locations relative to the public directory.
type Paths struct {
	RSS  string
	Atom string
	JSON string
}

func PathsFor(locale string) Paths {
	return Paths{
		RSS:  fmt.Sprintf("rss/feed.%s.xml", locale),
		Atom: fmt.Sprintf("rss/atom.%s.xml", locale),
		JSON: fmt.Sprintf("rss/feed.%s.json", locale),
	}
}

// Output receives generated files. manifest.Writer satisfies it.
type Output interface {
	Write(rel string, data []byte) error
}

type Generator struct {
	repo   *index.Repository
	site   config.SiteConfig
	now    time.Time
	policy *bluemonday.Policy
}

func NewGenerator(repo *index.Repository, site config.SiteConfig, now time.Time) *Generator {
	return &Generator{
		repo:   repo,
		site:   site,
		now:    now,
		policy: bluemonday.StrictPolicy(),
	}
}

// Generate builds the RSS, Atom and JSON feeds for locale from every post
// of that locale, newest first.
func (g *Generator) Generate(locale string) (Feeds, error) {
	posts := g.repo.AllByDate([]string{locale}, content.HeaderFields)
	f := g.channel(locale, posts)

	rss, err := f.ToRss()
	if err != nil {
		return Feeds{}, fmt.Errorf("rss: %w", err)
	}
	atom, err := f.ToAtom()
	if err != nil {
		return Feeds{}, fmt.Errorf("atom: %w", err)
	}

	jf := (&feeds.JSON{Feed: f}).JSONFeed()
	jf.FeedUrl = g.abs(PathsFor(locale).JSON)
	jf.Favicon = g.abs(g.site.Favicon)
	jf.Icon = g.abs(g.site.Image)
	js, err := json.MarshalIndent(jf, "", "  ")
	if err != nil {
		return Feeds{}, fmt.Errorf("json feed: %w", err)
	}

	return Feeds{RSS: []byte(rss), Atom: []byte(atom), JSON: js}, nil
}

// Write generates the feeds of locale and hands them to out.
func (g *Generator) Write(locale string, out Output) error {
	docs, err := g.Generate(locale)
	if err != nil {
		return err
	}
	p := PathsFor(locale)
	if err := out.Write(p.RSS, docs.RSS); err != nil {
		return err
	}
	if err := out.Write(p.Atom, docs.Atom); err != nil {
		return err
	}
	return out.Write(p.JSON, docs.JSON)
}

func (g *Generator) channel(locale string, posts []content.Post) *feeds.Feed {
	home := g.site.BaseURL() + g.site.LocalePrefix(locale) + "/"
	f := &feeds.Feed{
		Title:       g.site.Title,
		Link:        &feeds.Link{Href: home},
		Description: g.site.Description,
		Author:      &feeds.Author{Name: g.site.Author},
		Id:          home,
	}
	if g.site.Image != "" {
		f.Image = &feeds.Image{
			Url:   g.abs(g.site.Image),
			Title: g.site.Title,
			Link:  home,
		}
	}

	for _, p := range posts {
		link := g.site.BaseURL() + g.site.LocalePrefix(locale) + "/blog/" + p.Slug
		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Description: g.plain(p.Excerpt),
		}
		if p.Author.Name != "" {
			item.Author = &feeds.Author{Name: p.Author.Name}
		}
		if t, ok := content.ParseDate(p.EffectiveDate()); ok {
			item.Created = t
			// the channel date follows the newest post, not the clock
			if t.After(f.Updated) {
				f.Updated = t
			}
		}
		f.Items = append(f.Items, item)
	}
	f.Created = f.Updated

	// an empty feed has no post to date it
	year := g.now.Year()
	if !f.Updated.IsZero() {
		year = f.Updated.Year()
	}
	f.Copyright = fmt.Sprintf("Copyright %d, %s", year, g.site.Author)
	return f
}

// plain strips markup from an excerpt.
func (g *Generator) plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(g.policy.Sanitize(s)))
}

func (g *Generator) abs(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return g.site.BaseURL() + "/" + strings.TrimPrefix(p, "/")
}
