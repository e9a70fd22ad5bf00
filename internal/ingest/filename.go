package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	domainerr "d2c/internal/domain/errors"

	"golang.org/x/text/language"
)

const postExt = ".md"

// Key identifies a post file: <slug>.<locale>.md
type Key struct {
	Slug   string
	Locale string
}

func (k Key) FileName() string {
	return k.Slug + "." + k.Locale + postExt
}

func (k Key) String() string {
	return k.Slug + "@" + k.Locale
}

// ParseFileName splits a post file name into its slug and locale. Anything
// that is not exactly <slug>.<locale>.md is rejected.
func ParseFileName(name string) (Key, error) {
	base := filepath.Base(name)
	malformed := func(msg string) (Key, error) {
		return Key{}, &domainerr.PathError{
			Path: name,
			Kind: domainerr.ErrMalformedFilename,
			Err:  fmt.Errorf("%s, want <slug>.<locale>%s", msg, postExt),
		}
	}

	stem, ok := strings.CutSuffix(base, postExt)
	if !ok {
		return malformed("missing " + postExt + " extension")
	}
	parts := strings.Split(stem, ".")
	if len(parts) != 2 {
		return malformed(fmt.Sprintf("%d dot-separated parts", len(parts)))
	}
	slug, locale := parts[0], parts[1]
	if slug == "" {
		return malformed("empty slug")
	}
	if !isSlug(slug) {
		return malformed("slug '" + slug + "' is not URL-safe")
	}
	if locale == "" {
		return malformed("empty locale")
	}
	if _, err := language.Parse(locale); err != nil {
		return malformed("locale '" + locale + "' is not a language tag")
	}
	return Key{Slug: slug, Locale: locale}, nil
}

func isSlug(s string) bool {
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// Slugify turns free text such as a tag into a single path segment.
func Slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToLower(r))
			lastDash = false
			continue
		}
		// separators and punctuation collapse into one dash
		if !lastDash && len(out) > 0 {
			out = append(out, '-')
			lastDash = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
