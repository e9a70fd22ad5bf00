package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"unicode"
	"unicode/utf8"
)

//go:embed theme
var defaultTheme embed.FS

// ThemeFS returns the theme rooted at dir, or the embedded default theme
// when dir is empty. A theme holds templates/*.tmpl and an optional static/.
func ThemeFS(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(defaultTheme, "theme")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return os.DirFS(dir), nil
}

type TemplateRenderer struct {
	tpl *template.Template
}

func NewTemplateRenderer(theme fs.FS) (*TemplateRenderer, error) {
	if err := CheckThemeTemplates(theme); err != nil {
		return nil, err
	}
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(theme, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

// UppercaseFirst capitalizes the first letter of a page title.
func UppercaseFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date":    FormatDate,
		"ucfirst": UppercaseFirst,
		"add":     func(a, b int) int { return a + b },
		"sub":     func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderList(ctx context.Context, page ListPage) ([]byte, error) {
	return r.exec("list.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderAbout(ctx context.Context, page AboutPage) ([]byte, error) {
	return r.exec("about.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var requiredTemplates = []string{
	"layout.tmpl",
	"home.tmpl",
	"list.tmpl",
	"post.tmpl",
	"about.tmpl",
	"404.tmpl",
}

func CheckThemeTemplates(theme fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(theme, "templates/"+name); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
