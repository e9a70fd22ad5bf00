package content

// Field names one projectable attribute of a Post.
type Field uint16

const (
	FieldSlug Field = 1 << iota
	FieldTitle
	FieldDate
	FieldUpdated
	FieldExcerpt
	FieldAuthor
	FieldCoverImage
	FieldTags
	FieldPageTitle
	FieldRelated
	FieldContent
	FieldReadingTime
)

// Fields is a set of Field values.
type Fields uint16

func NewFields(fs ...Field) Fields {
	var out Fields
	for _, f := range fs {
		out |= Fields(f)
	}
	return out
}

func (s Fields) Has(f Field) bool { return s&Fields(f) != 0 }

func (s Fields) With(fs ...Field) Fields { return s | NewFields(fs...) }

func (s Fields) Without(fs ...Field) Fields { return s &^ NewFields(fs...) }

// NeedsBody reports whether the set forces the markdown body to be read.
func (s Fields) NeedsBody() bool {
	return s.Has(FieldContent) || s.Has(FieldReadingTime)
}

var (
	HeaderFields = NewFields(
		FieldTitle, FieldDate, FieldUpdated, FieldSlug, FieldAuthor, FieldExcerpt,
		FieldCoverImage, FieldTags, FieldPageTitle, FieldRelated, FieldReadingTime,
	)
	AllFields    = HeaderFields.With(FieldContent)
	AnchorFields = NewFields(FieldTitle, FieldSlug, FieldDate, FieldUpdated)
)

var fieldNames = map[Field]string{
	FieldSlug:        "slug",
	FieldTitle:       "title",
	FieldDate:        "date",
	FieldUpdated:     "updated",
	FieldExcerpt:     "excerpt",
	FieldAuthor:      "author",
	FieldCoverImage:  "coverImage",
	FieldTags:        "tags",
	FieldPageTitle:   "pageTitle",
	FieldRelated:     "related",
	FieldContent:     "content",
	FieldReadingTime: "readingTime",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "unknown"
}

type Author struct {
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
}

// Post is a projected view of one markdown file. Only the fields recorded
// in Set were requested and found; everything else is the zero value.
type Post struct {
	Slug   string
	Locale string

	Title      string
	Date       string
	Updated    string
	Excerpt    string
	Author     Author
	CoverImage string
	Tags       []string
	PageTitle  string
	Related    []string

	Content     string
	ReadingTime string

	Set Fields
}

func (p Post) Has(f Field) bool { return p.Set.Has(f) }

// EffectiveDate is the updated date when present, the publication date otherwise.
func (p Post) EffectiveDate() string {
	if p.Updated != "" {
		return p.Updated
	}
	return p.Date
}

// DisplayTitle prefers the page title override.
func (p Post) DisplayTitle() string {
	if p.PageTitle != "" {
		return p.PageTitle
	}
	return p.Title
}

// HasTag matches case-insensitively.
func (p Post) HasTag(tag string) bool {
	tag = FoldTag(tag)
	for _, t := range p.Tags {
		if FoldTag(t) == tag {
			return true
		}
	}
	return false
}

// Summary drops the body.
func (p Post) Summary() Post {
	p.Content = ""
	p.Set = p.Set.Without(FieldContent)
	return p
}

func (p Post) Anchor() Anchor {
	return Anchor{Title: p.Title, Slug: p.Slug}
}

// Anchor is the minimal link target used for previous/next navigation.
type Anchor struct {
	Title string
	Slug  string
}

// Alternate points at a translation of the same article.
type Alternate struct {
	Slug   string
	Locale string
}
