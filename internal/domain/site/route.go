package site

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

type RouteKind string

const (
	RouteHome     RouteKind = "home"
	RouteBlog     RouteKind = "blog"
	RoutePost     RouteKind = "post"
	RouteTag      RouteKind = "tag"
	RouteAbout    RouteKind = "about"
	RouteNotFound RouteKind = "404"
)

// Route is one page of the generated site. URL is site-relative and starts
// with the locale prefix; OutPath is relative to the public directory.
type Route struct {
	Kind    RouteKind
	Locale  string
	Slug    string
	Key     string
	Page    int
	OutPath string
	URL     string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Locale != "" {
		parts = append(parts, "locale="+r.Locale)
	}
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", r.Page))
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// Paths builds the URLs of one locale. Prefix is empty for the default
// locale and "/<locale>" otherwise.
type Paths struct {
	Prefix string
}

func (p Paths) Home() string { return p.Prefix + "/" }

// Blog is the URL of a blog list page; page 1 is the bare /blog/.
func (p Paths) Blog(page int) string {
	return paged(p.Prefix+"/blog/", page)
}

func (p Paths) Post(slug string) string {
	return p.Prefix + "/blog/" + slug + "/"
}

// Tag expects a segment from TagSegment.
func (p Paths) Tag(segment string, page int) string {
	return paged(p.Prefix+"/tag/"+segment+"/", page)
}

func (p Paths) About() string { return p.Prefix + "/about/" }

func paged(base string, page int) string {
	if page <= 1 {
		return base
	}
	return fmt.Sprintf("%spage/%d/", base, page)
}

// TagSegment is the URL path segment of a folded tag. Distinct tags give
// distinct segments; "" means the tag has no page.
func TagSegment(tag string) string {
	if tag == "" || tag == "." || tag == ".." {
		return ""
	}
	return url.PathEscape(tag)
}

// OutPath maps a directory-style URL to its index.html. Escaped segments are
// decoded so the file sits where a server looks up the request path, except
// where decoding would add a path separator or a dot segment.
func OutPath(u string) string {
	segs := strings.Split(strings.TrimPrefix(u, "/"), "/")
	for i, seg := range segs {
		dec, err := url.PathUnescape(seg)
		if err != nil || strings.Contains(dec, "/") || dec == "." || dec == ".." {
			continue
		}
		segs[i] = dec
	}
	rel := strings.Join(segs, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		return path.Join(rel, "index.html")
	}
	return rel
}
