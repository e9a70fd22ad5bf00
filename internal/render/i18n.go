package render

import (
	"time"

	"d2c/internal/domain/content"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Messages is the theme chrome of one locale.
type Messages struct {
	Home         string
	Blog         string
	About        string
	NotFound     string
	NotFoundText string
	AllPosts     string
	NoPosts      string
	Previous     string
	Next         string
	Updated      string
	Related      string
}

// Message keys are the English text, so a locale without a translation
// prints English.
const (
	msgHome         = "Home"
	msgBlog         = "Blog"
	msgAbout        = "About"
	msgNotFound     = "Not found"
	msgNotFoundText = "This page could not be found."
	msgAllPosts     = "All posts"
	msgNoPosts      = "No posts yet."
	msgPrevious     = "Previous"
	msgNext         = "Next"
	msgUpdated      = "updated"
	msgRelated      = "Related Articles"

	// month name, day, year
	msgDate = "%[1]s %[2]d, %[3]d"
)

var translations = map[string]map[string]string{
	"fr": {
		msgHome:         "Accueil",
		msgBlog:         "Blog",
		msgAbout:        "À propos",
		msgNotFound:     "Page introuvable",
		msgNotFoundText: "Cette page est introuvable.",
		msgAllPosts:     "Tous les articles",
		msgNoPosts:      "Aucun article pour le moment.",
		msgPrevious:     "Précédent",
		msgNext:         "Suivant",
		msgUpdated:      "mis à jour",
		msgRelated:      "Articles liés",
		msgDate:         "%[2]d %[1]s %[3]d",
	},
}

var months = map[string][12]string{
	"fr": {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
}

var chrome = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, key := range []string{
		msgHome, msgBlog, msgAbout, msgNotFound, msgNotFoundText, msgAllPosts,
		msgNoPosts, msgPrevious, msgNext, msgUpdated, msgRelated, msgDate,
	} {
		if err := b.SetString(language.English, key, key); err != nil {
			panic(err)
		}
	}
	for locale, msgs := range translations {
		tag := language.Make(locale)
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// printer resolves locale to the closest catalog language, so fr-CA reads
// the fr strings.
func printer(locale string) *message.Printer {
	tag := language.English
	if _, i, conf := chrome.Matcher().Match(language.Make(locale)); conf != language.No {
		tag = chrome.Languages()[i]
	}
	return message.NewPrinter(tag, message.Catalog(chrome))
}

// Translate returns the chrome strings of locale. Unknown locales get
// English.
func Translate(locale string) Messages {
	p := printer(locale)
	return Messages{
		Home:         p.Sprintf(msgHome),
		Blog:         p.Sprintf(msgBlog),
		About:        p.Sprintf(msgAbout),
		NotFound:     p.Sprintf(msgNotFound),
		NotFoundText: p.Sprintf(msgNotFoundText),
		AllPosts:     p.Sprintf(msgAllPosts),
		NoPosts:      p.Sprintf(msgNoPosts),
		Previous:     p.Sprintf(msgPrevious),
		Next:         p.Sprintf(msgNext),
		Updated:      p.Sprintf(msgUpdated),
		Related:      p.Sprintf(msgRelated),
	}
}

// FormatDate writes a front matter date the way locale spells dates.
// Unparsable dates are returned verbatim.
func FormatDate(s, locale string) string {
	t, ok := content.ParseDate(s)
	if !ok {
		return s
	}
	return printer(locale).Sprintf(msgDate, monthName(t.Month(), locale), t.Day(), t.Year())
}

func monthName(m time.Month, locale string) string {
	base, _ := language.Make(locale).Base()
	if names, ok := months[base.String()]; ok {
		return names[m-1]
	}
	return m.String()
}

// LanguageName is the name of locale in its own language, capitalized for
// the language switcher.
func LanguageName(locale string) string {
	name := display.Self.Name(language.Make(locale))
	if name == "" {
		return locale
	}
	return UppercaseFirst(name)
}
