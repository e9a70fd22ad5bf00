package index

import (
	"d2c/internal/domain/content"
	"d2c/internal/ingest"

	"github.com/rs/zerolog"
)

// Options configures a Repository.
type Options struct {
	PostsDir string
	Logger   zerolog.Logger
}

// Repository answers read-only queries over the posts directory. Every call
// enumerates and parses the files again; nothing is cached between calls.
type Repository struct {
	dir    string
	parser *ingest.Parser
	log    zerolog.Logger
}

func New(opt Options) *Repository {
	return &Repository{
		dir:    opt.PostsDir,
		parser: ingest.NewParser(opt.PostsDir),
		log:    opt.Logger,
	}
}

// listing never fails: an unreadable directory is logged and treated as empty.
func (r *Repository) listing() *ingest.Listing {
	l, err := ingest.Discover(r.dir)
	if err != nil {
		r.log.Error().Err(err).Str("dir", r.dir).Msg("cannot list posts")
		return &ingest.Listing{}
	}
	for _, w := range l.Warnings {
		r.log.Debug().Str("path", w.Path).Msg(w.Msg)
	}
	return l
}

func (r *Repository) parse(sf ingest.SourceFile, fields content.Fields) (content.Post, bool) {
	res := r.parser.ParseFile(sf.Path, sf.Key, fields)
	if !res.Found() {
		r.log.Warn().Err(res.Err).
			Str("slug", sf.Key.Slug).
			Str("locale", sf.Key.Locale).
			Msg("skipping post")
		return content.Post{}, false
	}
	return res.Post, true
}

// project clears every field outside want, undoing fields that were only
// read for sorting or filtering.
func project(p content.Post, want content.Fields) content.Post {
	drop := p.Set &^ want
	if drop == 0 {
		return p
	}
	unset := func(f content.Field, fn func()) {
		if drop.Has(f) {
			fn()
		}
	}
	unset(content.FieldTitle, func() { p.Title = "" })
	unset(content.FieldDate, func() { p.Date = "" })
	unset(content.FieldUpdated, func() { p.Updated = "" })
	unset(content.FieldExcerpt, func() { p.Excerpt = "" })
	unset(content.FieldAuthor, func() { p.Author = content.Author{} })
	unset(content.FieldCoverImage, func() { p.CoverImage = "" })
	unset(content.FieldTags, func() { p.Tags = nil })
	unset(content.FieldPageTitle, func() { p.PageTitle = "" })
	unset(content.FieldRelated, func() { p.Related = nil })
	unset(content.FieldContent, func() { p.Content = "" })
	unset(content.FieldReadingTime, func() { p.ReadingTime = "" })
	p.Set &= want
	return p
}
