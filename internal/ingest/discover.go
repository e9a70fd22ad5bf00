package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Warning struct {
	Path string
	Msg  string
}

type SourceFile struct {
	Path string
	Key  Key
}

// Listing is one enumeration of the posts directory.
type Listing struct {
	Files    []SourceFile
	Warnings []Warning

	pos map[Key]int
}

// Discover lists the top level of root in name order; subdirectories are
// not read. File names that are not <slug>.<locale>.md become warnings.
func Discover(root string) (*Listing, error) {
	l := &Listing{pos: make(map[Key]int)}

	entries, err := os.ReadDir(root)
	if err != nil {
		// a missing posts directory is an empty blog, not a failed build
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return nil, err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(root, name)
		key, err := ParseFileName(name)
		if err != nil {
			l.Warnings = append(l.Warnings, Warning{Path: path, Msg: err.Error()})
			continue
		}
		l.add(SourceFile{Path: path, Key: key})
	}
	return l, nil
}

// add keeps the first position of a key; a later file with the same key
// replaces the earlier one and is reported.
func (l *Listing) add(sf SourceFile) {
	if i, ok := l.pos[sf.Key]; ok {
		l.Warnings = append(l.Warnings, Warning{
			Path: sf.Path,
			Msg:  "duplicate post " + sf.Key.String() + ", replaces " + l.Files[i].Path,
		})
		l.Files[i] = sf
		return
	}
	l.pos[sf.Key] = len(l.Files)
	l.Files = append(l.Files, sf)
}

// Lookup returns the file backing a key.
func (l *Listing) Lookup(slug, locale string) (SourceFile, bool) {
	i, ok := l.pos[Key{Slug: slug, Locale: locale}]
	if !ok {
		return SourceFile{}, false
	}
	return l.Files[i], true
}

// ForLocale keeps enumeration order.
func (l *Listing) ForLocale(locale string) []SourceFile {
	var out []SourceFile
	for _, f := range l.Files {
		if f.Key.Locale == locale {
			out = append(out, f)
		}
	}
	return out
}

func (l *Listing) Slugs(locale string) []string {
	var out []string
	for _, f := range l.ForLocale(locale) {
		out = append(out, f.Key.Slug)
	}
	return out
}

// Locales lists every locale that has a file for slug.
func (l *Listing) Locales(slug string) []string {
	var out []string
	for _, f := range l.Files {
		if f.Key.Slug == slug {
			out = append(out, f.Key.Locale)
		}
	}
	return out
}
