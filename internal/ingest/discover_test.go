package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.en.md", "---\ntitle: A\n---\n")
	writeFile(t, dir, "a.fr.md", "---\ntitle: A fr\n---\n")
	writeFile(t, dir, "b.en.md", "---\ntitle: B\n---\n")
	writeFile(t, dir, "notes.md", "stray")
	writeFile(t, dir, ".draft.en.md", "hidden")
	writeFile(t, dir, ".git/c.en.md", "hidden dir")

	l, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if diff := cmp.Diff([]string{"a", "b"}, l.Slugs("en")); diff != "" {
		t.Fatalf("Slugs(en) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, l.Slugs("fr")); diff != "" {
		t.Fatalf("Slugs(fr) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"en", "fr"}, l.Locales("a")); diff != "" {
		t.Fatalf("Locales(a) mismatch (-want +got):\n%s", diff)
	}

	if len(l.Warnings) != 1 {
		t.Fatalf("warnings = %+v, want exactly one for notes.md", l.Warnings)
	}
	if filepath.Base(l.Warnings[0].Path) != "notes.md" {
		t.Fatalf("warning path = %s", l.Warnings[0].Path)
	}
}

func TestDiscoverSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.en.md", "---\ntitle: A\n---\n")
	writeFile(t, dir, "drafts/wip.en.md", "---\ntitle: WIP\n---\n")
	writeFile(t, dir, "2023/b.en.md", "---\ntitle: B\n---\n")

	l, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, l.Slugs("en")); diff != "" {
		t.Fatalf("Slugs(en) mismatch (-want +got):\n%s", diff)
	}
	if _, ok := l.Lookup("wip", "en"); ok {
		t.Fatal("file in a subdirectory was listed")
	}
	if len(l.Warnings) != 0 {
		t.Fatalf("warnings = %+v, want none", l.Warnings)
	}
}

func TestListingDuplicateKeyLastWins(t *testing.T) {
	l := &Listing{pos: make(map[Key]int)}
	key := Key{Slug: "a", Locale: "en"}
	l.add(SourceFile{Path: "first/a.en.md", Key: key})
	l.add(SourceFile{Path: "b.en.md", Key: Key{Slug: "b", Locale: "en"}})
	l.add(SourceFile{Path: "second/a.en.md", Key: key})

	if diff := cmp.Diff([]string{"a", "b"}, l.Slugs("en")); diff != "" {
		t.Fatalf("Slugs(en) mismatch (-want +got):\n%s", diff)
	}
	sf, _ := l.Lookup("a", "en")
	if !strings.HasPrefix(sf.Path, "second") {
		t.Fatalf("Lookup(a, en) = %s, want the later file", sf.Path)
	}
	if len(l.Warnings) != 1 || !strings.Contains(l.Warnings[0].Msg, "duplicate") {
		t.Fatalf("warnings = %+v, want one duplicate warning", l.Warnings)
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	l, err := Discover(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(l.Files) != 0 {
		t.Fatalf("files = %+v, want none", l.Files)
	}
}
