package ingest

import (
	"bytes"

	"d2c/internal/domain/content"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// yamlFormat decodes "---" fenced metadata with yaml.v3 so that unquoted
// dates stay verbatim strings.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FrontMatter uses pointers and nil slices to tell absent keys from empty ones.
type FrontMatter struct {
	Title      *string         `yaml:"title"`
	Date       *string         `yaml:"date"`
	Updated    *string         `yaml:"updated"`
	Excerpt    *string         `yaml:"excerpt"`
	Author     *content.Author `yaml:"author"`
	CoverImage *string         `yaml:"coverImage"`
	Tags       []string        `yaml:"tags"`
	PageTitle  *string         `yaml:"pageTitle"`
	Related    []string        `yaml:"related"`
}

// ParseFrontMatter splits raw into metadata and markdown body. A file
// without a metadata block is all body.
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	// normalize line endings before looking for the fences
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(norm), &fm, yamlFormat)
	if err != nil {
		return FrontMatter{}, nil, err
	}
	return fm, body, nil
}
