package build

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"d2c/internal/domain/content"
	"d2c/internal/domain/site"
	"d2c/internal/index"
	"d2c/internal/ingest"
	"d2c/internal/render"
)

func (p *pass) buildHome(ctx context.Context, r site.Route) ([]byte, error) {
	latest := p.repo.Latest(r.Locale, p.cfg.Site.HomeLatest, content.HeaderFields)
	page := render.HomePage{
		Layout: p.layout(r, p.cfg.Site.Title, "", p.everyLocale(site.Paths.Home)),
		Latest: p.cards(latest),
		AllURL: p.paths(r.Locale).Blog(1),
	}
	return p.tpl.RenderHome(ctx, page)
}

func (p *pass) buildBlogPage(ctx context.Context, r site.Route) ([]byte, error) {
	posts := p.repo.AllByDate([]string{r.Locale}, content.HeaderFields)
	pg := index.Paginate(posts, r.Page, p.cfg.Site.PostsPerPage)
	paths := p.paths(r.Locale)

	var other counterpart
	if r.Page == 1 {
		other = p.everyLocale(func(sp site.Paths) string { return sp.Blog(1) })
	}
	blog := render.Translate(r.Locale).Blog
	page := render.ListPage{
		Layout:   p.layout(r, blog, "", other),
		Heading:  blog,
		Items:    p.cards(pg.Items),
		Page:     pg.Number,
		LastPage: pg.LastPage,
	}
	if pg.HasPrev() {
		page.PrevURL = paths.Blog(pg.Number - 1)
	}
	if pg.HasNext() {
		page.NextURL = paths.Blog(pg.Number + 1)
	}
	return p.tpl.RenderList(ctx, page)
}

func (p *pass) buildTagPage(ctx context.Context, r site.Route) ([]byte, error) {
	posts := p.repo.ByTag(r.Key, r.Locale, content.HeaderFields)
	pg := index.Paginate(posts, r.Page, p.cfg.Site.PostsPerPage)
	paths := p.paths(r.Locale)

	page := render.ListPage{
		Layout:   p.layout(r, "#"+r.Key, "", nil),
		Heading:  "#" + r.Key,
		Tag:      r.Key,
		Items:    p.cards(pg.Items),
		Page:     pg.Number,
		LastPage: pg.LastPage,
	}
	if pg.HasPrev() {
		page.PrevURL = paths.Tag(r.Slug, pg.Number-1)
	}
	if pg.HasNext() {
		page.NextURL = paths.Tag(r.Slug, pg.Number+1)
	}
	return p.tpl.RenderList(ctx, page)
}

// buildPost returns nil bytes when the post cannot be loaded, so the route
// is left out like any unknown slug.
func (p *pass) buildPost(ctx context.Context, r site.Route) ([]byte, error) {
	res := p.repo.Get(r.Slug, r.Locale, content.AllFields)
	if !res.Found() {
		p.log.Warn().Err(res.Err).
			Str("slug", r.Slug).
			Str("locale", r.Locale).
			Msg("post not built")
		return nil, nil
	}
	post := res.Post

	md, err := p.md.Render([]byte(post.Content))
	if err != nil {
		return nil, fmt.Errorf("markdown render(%s): %w", post.Slug, err)
	}

	alts := make(map[string]string)
	for _, a := range p.repo.Alternates(post.Slug, post.Locale) {
		alts[a.Locale] = p.paths(a.Locale).Post(a.Slug)
	}
	other := func(locale string) (string, bool) {
		u, ok := alts[locale]
		return u, ok
	}

	layout := p.layout(r, post.DisplayTitle(), post.Excerpt, other)
	if post.CoverImage != "" {
		layout.Image = p.abs(post.CoverImage)
	}

	page := render.PostPage{
		Layout: layout,
		Post:   post.Summary(),
		Tags:   p.tagLinks(post.Locale, post.Tags),
		HTML:   toHTML(md.HTML),
		TOC:    md.Headings,
		Share:  render.NewShareLinks(p.abs(r.URL), post.Title, p.cfg.Site.Twitter),
	}

	// declared related posts replace the previous/next links
	if len(post.Related) > 0 {
		page.Related = p.cards(p.repo.Related(post.Slug, post.Locale, content.HeaderFields))
	}
	if len(page.Related) == 0 {
		page.Previous = p.anchorLink(p.repo.Previous(post.Slug, post.Locale), post.Locale)
		page.Next = p.anchorLink(p.repo.Next(post.Slug, post.Locale), post.Locale)
	}
	return p.tpl.RenderPost(ctx, page)
}

func (p *pass) anchorLink(a *content.Anchor, locale string) *render.Link {
	if a == nil {
		return nil
	}
	return &render.Link{Title: a.Title, URL: p.paths(locale).Post(a.Slug)}
}

// buildAbout renders pages/about.<locale>.md when present and an empty
// about page otherwise.
func (p *pass) buildAbout(ctx context.Context, r site.Route) ([]byte, error) {
	title := render.Translate(r.Locale).About
	var body template.HTML

	src, err := os.ReadFile(filepath.Join(p.cfg.Build.PagesDir, "about."+r.Locale+".md"))
	switch {
	case err == nil:
		fm, md, err := ingest.ParseFrontMatter(src)
		if err != nil {
			return nil, fmt.Errorf("about(%s): %w", r.Locale, err)
		}
		if fm.Title != nil && *fm.Title != "" {
			title = *fm.Title
		}
		out, err := p.md.Render(md)
		if err != nil {
			return nil, fmt.Errorf("markdown render(about): %w", err)
		}
		body = toHTML(out.HTML)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	page := render.AboutPage{
		Layout: p.layout(r, title, "", p.everyLocale(site.Paths.About)),
		HTML:   body,
	}
	return p.tpl.RenderAbout(ctx, page)
}

func (p *pass) buildNotFound(ctx context.Context, r site.Route) ([]byte, error) {
	page := render.NotFoundPage{
		Layout: p.layout(r, render.Translate(r.Locale).NotFound, "", nil),
	}
	return p.tpl.RenderNotFound(ctx, page)
}
