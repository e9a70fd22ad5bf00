package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"d2c/internal/domain/config"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func newBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	root := t.TempDir()
	posts := filepath.Join(root, "posts")

	writeFile(t, filepath.Join(posts, "hooks.en.md"), "---\ntitle: Hooks\ndate: 2023-03-01\nexcerpt: About hooks\ntags: [React]\nrelated: [state]\n---\n# Hooks\n\n```go\nfunc main() {}\n```\n")
	writeFile(t, filepath.Join(posts, "state.en.md"), "---\ntitle: State\ndate: 2023-02-01\nexcerpt: About state\ntags: [react]\n---\nState body.\n")
	writeFile(t, filepath.Join(posts, "css.en.md"), "---\ntitle: CSS\ndate: 2023-01-01\nexcerpt: About css\n---\nCSS body.\n")
	writeFile(t, filepath.Join(posts, "hooks.fr.md"), "---\ntitle: Les hooks\ndate: 2023-03-01\nexcerpt: Les hooks\n---\nCorps.\n")
	writeFile(t, filepath.Join(posts, "broken.en.md"), "---\ntitle: [unclosed\n---\nbody\n")
	writeFile(t, filepath.Join(posts, "notes.md"), "not a post")
	writeFile(t, filepath.Join(root, "pages", "about.en.md"), "---\ntitle: about me\n---\nI write code.\n")

	cfg := config.Default()
	cfg.Site.SiteURL = "https://blog.example.com"
	cfg.Build.PostsDir = posts
	cfg.Build.PagesDir = filepath.Join(root, "pages")
	cfg.Build.PublicDir = filepath.Join(root, "public")
	cfg.Build.ManifestPath = filepath.Join(root, ".d2c", "manifest.db")
	cfg.Build.Now = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	return &Builder{Cfg: cfg, Logger: zerolog.Nop()}, root
}

func TestRunWritesSite(t *testing.T) {
	b, root := newBuilder(t)
	res, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	public := filepath.Join(root, "public")

	for _, rel := range []string{
		"index.html",
		"blog/index.html",
		"blog/hooks/index.html",
		"blog/state/index.html",
		"blog/css/index.html",
		"tag/react/index.html",
		"about/index.html",
		"404.html",
		"fr/index.html",
		"fr/blog/hooks/index.html",
		"fr/about/index.html",
		"rss/feed.en.xml",
		"rss/atom.en.xml",
		"rss/feed.fr.json",
		"css/site.css",
		"css/highlight.css",
	} {
		if _, err := os.Stat(filepath.Join(public, rel)); err != nil {
			t.Errorf("%s not written: %v", rel, err)
		}
	}
	for _, rel := range []string{"blog/broken/index.html", "fr/404.html"} {
		if _, err := os.Stat(filepath.Join(public, rel)); err == nil {
			t.Errorf("%s should not exist", rel)
		}
	}

	if res.Posts != 4 {
		t.Errorf("Posts = %d, want 4", res.Posts)
	}
	if len(res.Warnings) != 1 || !strings.HasSuffix(res.Warnings[0].Path, "notes.md") {
		t.Errorf("Warnings = %+v", res.Warnings)
	}
}

func TestRunPostPage(t *testing.T) {
	b, root := newBuilder(t)
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	public := filepath.Join(root, "public")

	hooks := readFile(t, filepath.Join(public, "blog/hooks/index.html"))
	for _, w := range []string{
		`hreflang="fr" href="https://blog.example.com/fr/blog/hooks/"`,
		`class="chroma"`,
		`href="/blog/state/"`,
		`href="/tag/react/"`,
		"twitter.com/intent/tweet",
	} {
		if !strings.Contains(hooks, w) {
			t.Errorf("hooks page missing %q", w)
		}
	}
	if strings.Contains(hooks, `rel="next"`) {
		t.Errorf("hooks declares related posts but renders neighbor links")
	}

	state := readFile(t, filepath.Join(public, "blog/state/index.html"))
	for _, w := range []string{`rel="prev" href="/blog/hooks/"`, `rel="next" href="/blog/css/"`} {
		if !strings.Contains(state, w) {
			t.Errorf("state page missing %q", w)
		}
	}

	about := readFile(t, filepath.Join(public, "about/index.html"))
	if !strings.Contains(about, "I write code.") || !strings.Contains(about, "About me") {
		t.Errorf("about page not rendered from pages dir:\n%s", about)
	}
}

func TestRunSkipsUnchangedAndPrunes(t *testing.T) {
	b, root := newBuilder(t)
	first, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	second, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Written != 0 || second.Skipped != first.Written {
		t.Fatalf("second build written/skipped = %d/%d, first wrote %d", second.Written, second.Skipped, first.Written)
	}

	if err := os.Remove(filepath.Join(b.Cfg.Build.PostsDir, "css.en.md")); err != nil {
		t.Fatal(err)
	}
	third, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	found := false
	for _, rel := range third.Pruned {
		if rel == "blog/css/index.html" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Pruned = %v, want blog/css/index.html", third.Pruned)
	}
	if _, err := os.Stat(filepath.Join(root, "public", "blog", "css", "index.html")); err == nil {
		t.Fatal("pruned page still on disk")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	b, _ := newBuilder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunTagPagesAndTopLevelPosts(t *testing.T) {
	b, root := newBuilder(t)
	posts := b.Cfg.Build.PostsDir
	writeFile(t, filepath.Join(posts, "cpp.en.md"), "---\ntitle: CPP\ndate: 2022-01-01\ntags: [C++]\n---\nbody\n")
	writeFile(t, filepath.Join(posts, "cs.en.md"), "---\ntitle: CSharp\ndate: 2022-01-02\ntags: [C#]\n---\nbody\n")
	writeFile(t, filepath.Join(posts, "drafts", "wip.en.md"), "---\ntitle: WIP\ndate: 2022-01-03\n---\nbody\n")
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	public := filepath.Join(root, "public")

	cpp := readFile(t, filepath.Join(public, "tag", "c++", "index.html"))
	if !strings.Contains(cpp, `href="/blog/cpp/"`) || strings.Contains(cpp, `href="/blog/cs/"`) {
		t.Errorf("c++ tag page lists the wrong posts:\n%s", cpp)
	}
	cs := readFile(t, filepath.Join(public, "tag", "c#", "index.html"))
	if !strings.Contains(cs, `href="/blog/cs/"`) || strings.Contains(cs, `href="/blog/cpp/"`) {
		t.Errorf("c# tag page lists the wrong posts:\n%s", cs)
	}
	if post := readFile(t, filepath.Join(public, "blog", "cs", "index.html")); !strings.Contains(post, `href="/tag/c%23/"`) {
		t.Errorf("cs post does not link its tag page")
	}

	if _, err := os.Stat(filepath.Join(public, "blog", "wip", "index.html")); err == nil {
		t.Error("post in a subdirectory was published")
	}
}

func TestRunLocalizesChrome(t *testing.T) {
	b, root := newBuilder(t)
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	public := filepath.Join(root, "public")

	fr := readFile(t, filepath.Join(public, "fr", "blog", "hooks", "index.html"))
	for _, w := range []string{
		`<a href="/fr/">Accueil</a>`,
		`<a href="/fr/about/">À propos</a>`,
		`hreflang="fr">Français</a>`,
		`hreflang="en">English</a>`,
		"1 mars 2023",
	} {
		if !strings.Contains(fr, w) {
			t.Errorf("fr post page missing %q", w)
		}
	}

	en := readFile(t, filepath.Join(public, "blog", "index.html"))
	for _, w := range []string{`<a href="/">Home</a>`, "March 1, 2023", `hreflang="fr">Français</a>`} {
		if !strings.Contains(en, w) {
			t.Errorf("en blog page missing %q", w)
		}
	}
}
