package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"d2c/internal/domain/content"
	domainerr "d2c/internal/domain/errors"
)

// Parser reads posts from one directory. It holds no state between calls.
type Parser struct {
	dir string
}

func NewParser(postsDir string) *Parser {
	return &Parser{dir: postsDir}
}

// Result is a parsed post or the reason there is none. Err wraps
// ErrNotFound or ErrMalformedContent.
type Result struct {
	Post content.Post
	Path string
	Err  error
}

func (r Result) Found() bool { return r.Err == nil }

// Parse locates <dir>/<slug>.<locale>.md.
func (p *Parser) Parse(slug, locale string, fields content.Fields) Result {
	key := Key{Slug: slug, Locale: locale}
	return p.ParseFile(filepath.Join(p.dir, key.FileName()), key, fields)
}

// ParseFile projects the requested fields out of the file at path.
func (p *Parser) ParseFile(path string, key Key, fields content.Fields) Result {
	res := Result{
		Path: path,
		Post: content.Post{Slug: key.Slug, Locale: key.Locale},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		kind := domainerr.ErrMalformedContent
		if errors.Is(err, fs.ErrNotExist) {
			kind = domainerr.ErrNotFound
		}
		res.Err = &domainerr.PathError{Path: path, Kind: kind, Err: err}
		return res
	}

	fm, body, err := ParseFrontMatter(raw)
	if err != nil {
		res.Err = &domainerr.PathError{Path: path, Kind: domainerr.ErrMalformedContent, Err: err}
		return res
	}

	res.Post = project(key, fm, body, fields)
	return res
}

func project(key Key, fm FrontMatter, body []byte, fields content.Fields) content.Post {
	post := content.Post{Slug: key.Slug, Locale: key.Locale}
	set := func(f content.Field) { post.Set = post.Set.With(f) }

	str := func(f content.Field, v *string, dst *string) {
		if fields.Has(f) && v != nil {
			*dst = *v
			set(f)
		}
	}

	if fields.Has(content.FieldSlug) {
		set(content.FieldSlug)
	}
	str(content.FieldTitle, fm.Title, &post.Title)
	str(content.FieldDate, fm.Date, &post.Date)
	str(content.FieldUpdated, fm.Updated, &post.Updated)
	str(content.FieldExcerpt, fm.Excerpt, &post.Excerpt)
	str(content.FieldCoverImage, fm.CoverImage, &post.CoverImage)
	str(content.FieldPageTitle, fm.PageTitle, &post.PageTitle)

	if fields.Has(content.FieldAuthor) && fm.Author != nil {
		post.Author = *fm.Author
		set(content.FieldAuthor)
	}
	if fields.Has(content.FieldTags) && fm.Tags != nil {
		post.Tags = fm.Tags
		set(content.FieldTags)
	}
	if fields.Has(content.FieldRelated) && fm.Related != nil {
		post.Related = fm.Related
		set(content.FieldRelated)
	}

	if fields.Has(content.FieldContent) {
		post.Content = string(body)
		set(content.FieldContent)
	}
	if fields.Has(content.FieldReadingTime) {
		post.ReadingTime = content.ReadingTime(string(body))
		set(content.FieldReadingTime)
	}
	return post
}
