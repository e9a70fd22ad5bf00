package app

import (
	"d2c/internal/domain/config"
	"d2c/internal/domain/content"
	"d2c/internal/domain/site"
	"d2c/internal/index"
)

// RouteBuilder enumerates every page generated for a locale.
type RouteBuilder struct {
	Repo *index.Repository
	Site config.SiteConfig
}

func (rb *RouteBuilder) Paths(locale string) site.Paths {
	return site.Paths{Prefix: rb.Site.LocalePrefix(locale)}
}

// Build lists the routes of locale: home, blog pages, posts, tag pages and
// about. The default locale also owns the site-wide 404 page.
func (rb *RouteBuilder) Build(locale string) []site.Route {
	p := rb.Paths(locale)
	routes := []site.Route{route(site.RouteHome, locale, p.Home())}
	routes = append(routes, rb.BuildBlogRoutes(locale)...)
	routes = append(routes, rb.BuildPostRoutes(locale)...)
	routes = append(routes, rb.BuildTagRoutes(locale)...)
	routes = append(routes, route(site.RouteAbout, locale, p.About()))
	if locale == rb.Site.DefaultLocale {
		routes = append(routes, route(site.RouteNotFound, locale, "/404.html"))
	}
	return routes
}

func (rb *RouteBuilder) BuildBlogRoutes(locale string) []site.Route {
	p := rb.Paths(locale)
	total := len(rb.Repo.AllByDate([]string{locale}, content.NewFields(content.FieldSlug)))
	var routes []site.Route
	for n := 1; n <= index.PageCount(total, rb.Site.PostsPerPage); n++ {
		r := route(site.RouteBlog, locale, p.Blog(n))
		r.Page = n
		routes = append(routes, r)
	}
	return routes
}

// BuildPostRoutes includes files that may fail to parse; the builder skips
// those when it cannot load them.
func (rb *RouteBuilder) BuildPostRoutes(locale string) []site.Route {
	p := rb.Paths(locale)
	var routes []site.Route
	for _, slug := range rb.Repo.ListSlugs(locale) {
		r := route(site.RoutePost, locale, p.Post(slug))
		r.Slug = slug
		routes = append(routes, r)
	}
	return routes
}

// BuildTagRoutes pages each tag like the blog list.
func (rb *RouteBuilder) BuildTagRoutes(locale string) []site.Route {
	p := rb.Paths(locale)
	var routes []site.Route
	for _, tag := range rb.Repo.AllTags([]string{locale}) {
		seg := site.TagSegment(tag)
		if seg == "" {
			continue
		}

		total := len(rb.Repo.ByTag(tag, locale, content.NewFields(content.FieldSlug)))
		for n := 1; n <= index.PageCount(total, rb.Site.PostsPerPage); n++ {
			r := route(site.RouteTag, locale, p.Tag(seg, n))
			r.Slug = seg
			r.Key = tag
			r.Page = n
			routes = append(routes, r)
		}
	}
	return routes
}

func route(kind site.RouteKind, locale, url string) site.Route {
	return site.Route{
		Kind:    kind,
		Locale:  locale,
		URL:     url,
		OutPath: site.OutPath(url),
	}
}
