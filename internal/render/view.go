package render

import (
	"html/template"

	"d2c/internal/domain/config"
	"d2c/internal/domain/content"
)

type Heading struct {
	Level int
	ID    string
	Text  string
}

type Link struct {
	Title string
	URL   string
}

type LocaleLink struct {
	Locale  string
	Name    string
	URL     string
	Current bool
}

type FeedLinks struct {
	RSS  string
	Atom string
	JSON string
}

// Layout is the chrome shared by every page: head metadata, navigation,
// language switcher and feed links.
type Layout struct {
	Site        config.SiteConfig
	Locale      string
	Title       string
	Description string
	Image       string
	Canonical   string
	Home        string
	Alternates  []LocaleLink
	Languages   []LocaleLink
	Nav         []Link
	Feeds       FeedLinks
	Year        int
	Text        Messages
}

type TagLink struct {
	Name string
	URL  string
}

type PostCard struct {
	Post content.Post
	URL  string
	Tags []TagLink
}

type HomePage struct {
	Layout Layout
	Latest []PostCard
	AllURL string
}

type ListPage struct {
	Layout   Layout
	Heading  string
	Tag      string
	Items    []PostCard
	Page     int
	LastPage int
	PrevURL  string
	NextURL  string
}

type PostPage struct {
	Layout Layout
	Post   content.Post
	Tags   []TagLink
	HTML   template.HTML
	TOC    []Heading

	Previous *Link
	Next     *Link
	Related  []PostCard

	Share ShareLinks
}

type AboutPage struct {
	Layout Layout
	HTML   template.HTML
}

type NotFoundPage struct {
	Layout Layout
	Path   string
}
