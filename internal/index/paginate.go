package index

import "d2c/internal/domain/content"

const DefaultPageSize = 5

type Page struct {
	Items    []content.Post
	Number   int
	Size     int
	Total    int
	LastPage int
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.LastPage }

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, size
}

// PageCount is at least one so that an empty list still has a first page.
func PageCount(total, size int) int {
	_, size = normalizePaging(1, size)
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate slices posts into 1-based pages. A page past the end is empty.
func Paginate(posts []content.Post, page, size int) Page {
	page, size = normalizePaging(page, size)
	p := Page{
		Number:   page,
		Size:     size,
		Total:    len(posts),
		LastPage: PageCount(len(posts), size),
	}
	start := (page - 1) * size
	if start >= len(posts) {
		return p
	}
	end := min(start+size, len(posts))
	p.Items = posts[start:end]
	return p
}
