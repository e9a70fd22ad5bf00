package build

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"d2c/internal/app"
	"d2c/internal/domain/config"
	"d2c/internal/domain/site"
	"d2c/internal/feed"
	"d2c/internal/index"
	"d2c/internal/ingest"
	"d2c/internal/manifest"
	"d2c/internal/render"

	"github.com/rs/zerolog"
)

type Builder struct {
	Cfg    config.Config
	Logger zerolog.Logger
}

type Result struct {
	Posts    int
	Pages    int
	Written  int
	Skipped  int
	Pruned   []string
	Warnings []ingest.Warning
}

// pass holds what one Run shares between routes.
type pass struct {
	cfg    config.Config
	log    zerolog.Logger
	now    time.Time
	repo   *index.Repository
	routes *app.RouteBuilder
	md     *render.MarkdownRenderer
	tpl    render.Renderer
	theme  fs.FS
	out    *manifest.Writer
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	cfg := b.Cfg
	now := cfg.Build.Now
	if now.IsZero() {
		now = time.Now()
	}

	listing, err := ingest.Discover(cfg.Build.PostsDir)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for _, w := range listing.Warnings {
		b.Logger.Warn().Str("path", w.Path).Msg(w.Msg)
	}

	theme, err := render.ThemeFS(cfg.Build.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s): %w", cfg.Build.ThemeDir, err)
	}
	tpl, err := render.NewTemplateRenderer(theme)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s): %w", cfg.Build.ThemeDir, err)
	}

	st, err := manifest.Open(manifest.OpenOptions{Path: cfg.Build.ManifestPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer st.Close()

	outDir := cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	repo := index.New(index.Options{PostsDir: cfg.Build.PostsDir, Logger: b.Logger})
	p := &pass{
		cfg:    cfg,
		log:    b.Logger,
		now:    now,
		repo:   repo,
		routes: &app.RouteBuilder{Repo: repo, Site: cfg.Site},
		md:     render.NewMarkdownRenderer(),
		tpl:    tpl,
		theme:  theme,
		out:    st.NewWriter(outDir),
	}

	res := &Result{Warnings: listing.Warnings}
	if err := p.buildAll(ctx, res); err != nil {
		return nil, err
	}

	pruned, err := p.out.Commit()
	if err != nil {
		return nil, fmt.Errorf("commit manifest: %w", err)
	}
	res.Pruned = pruned
	res.Written = p.out.Written
	res.Skipped = p.out.Skipped

	b.Logger.Info().
		Int("posts", res.Posts).
		Int("pages", res.Pages).
		Int("written", res.Written).
		Int("skipped", res.Skipped).
		Int("pruned", len(res.Pruned)).
		Msg("build done")
	return res, nil
}

func (p *pass) buildAll(ctx context.Context, res *Result) error {
	gen := feed.NewGenerator(p.repo, p.cfg.Site, p.now)

	for _, locale := range p.cfg.Site.Locales {
		routes := p.routes.Build(locale)
		for _, r := range routes {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := p.buildRoute(ctx, r)
			if err != nil {
				return fmt.Errorf("build %s: %w", r, err)
			}
			if !ok {
				continue
			}
			res.Pages++
			if r.Kind == site.RoutePost {
				res.Posts++
			}
		}

		if err := gen.Write(locale, p.out); err != nil {
			return fmt.Errorf("build feeds(%s): %w", locale, err)
		}
		p.log.Debug().Str("locale", locale).Int("routes", len(routes)).Msg("locale built")
	}

	if err := p.copyStaticAssets(); err != nil {
		return fmt.Errorf("copy static assets: %w", err)
	}
	css, err := render.HighlightCSS()
	if err != nil {
		return fmt.Errorf("highlight css: %w", err)
	}
	return p.out.Write("css/highlight.css", css)
}

// buildRoute reports false for routes that produce no page.
func (p *pass) buildRoute(ctx context.Context, r site.Route) (bool, error) {
	var (
		html []byte
		err  error
	)
	switch r.Kind {
	case site.RouteHome:
		html, err = p.buildHome(ctx, r)
	case site.RouteBlog:
		html, err = p.buildBlogPage(ctx, r)
	case site.RoutePost:
		html, err = p.buildPost(ctx, r)
	case site.RouteTag:
		html, err = p.buildTagPage(ctx, r)
	case site.RouteAbout:
		html, err = p.buildAbout(ctx, r)
	case site.RouteNotFound:
		html, err = p.buildNotFound(ctx, r)
	default:
		return false, fmt.Errorf("unknown route kind %q", r.Kind)
	}
	if err != nil || html == nil {
		return false, err
	}
	return true, p.out.Write(r.OutPath, html)
}

func (p *pass) copyStaticAssets() error {
	// themes without a static directory are fine
	if _, err := fs.Stat(p.theme, "static"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return fs.WalkDir(p.theme, "static", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(p.theme, name)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel("static", filepath.FromSlash(name))
		if err != nil {
			return err
		}
		return p.out.Write(path.Clean(filepath.ToSlash(rel)), data)
	})
}

func toHTML(b []byte) template.HTML {
	return template.HTML(b)
}
