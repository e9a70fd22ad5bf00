package serve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"d2c/internal/build"
	"d2c/internal/domain/config"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	eventsPath = "/_d2c/events"
	debounce   = 200 * time.Millisecond
)

// reloadScript is appended to served HTML so open pages refresh after a
// rebuild.
var reloadScript = []byte(`<script>new EventSource("` + eventsPath + `").onmessage=function(e){if(e.data==="reload")location.reload()}</script>`)

// Server previews the public directory and rebuilds it when sources change.
type Server struct {
	cfg     config.Config
	log     zerolog.Logger
	builder *build.Builder
	engine  *gin.Engine

	buildMu sync.Mutex

	sseMu    sync.Mutex
	sseConns map[chan string]struct{}

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		log:      logger,
		builder:  &build.Builder{Cfg: cfg, Logger: logger},
		sseConns: make(map[chan string]struct{}),
	}

	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(s.logRequests(), gin.CustomRecovery(s.recoverPanic))
	e.GET(eventsPath, s.handleSSE)
	e.NoRoute(s.handleFile)
	s.engine = e
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// ListenAndServe builds once, starts watching and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	if err := s.Watch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", addr).Msg("serving preview")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Rebuild runs one build; concurrent callers wait for each other.
func (s *Server) Rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	res, err := s.builder.Run(ctx)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	s.log.Info().
		Dur("took", time.Since(start)).
		Int("written", res.Written).
		Msg("rebuilt")
	s.broadcastSSE("reload")
	return nil
}

// Watch rebuilds the site whenever posts, pages or an on-disk theme change.
func (s *Server) Watch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		for _, dir := range s.watchedDirs() {
			if e := addTree(w, dir); e != nil {
				err = e
				return
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

// watchedDirs skips missing directories, which the build treats as empty.
func (s *Server) watchedDirs() []string {
	var dirs []string
	for _, d := range []string{s.cfg.Build.PostsDir, s.cfg.Build.PagesDir, s.cfg.Build.ThemeDir} {
		if d == "" {
			continue
		}
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info().Msg("watching for file changes")
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addTree(s.watcher, ev.Name)
				}
			}
			timer.Reset(debounce)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			rctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := s.Rebuild(rctx); err != nil {
				s.log.Error().Err(err).Msg("rebuild failed")
			}
			cancel()
		}
	}
}

func (s *Server) handleFile(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	urlPath := c.Request.URL.Path
	full := filepath.Join(s.cfg.Build.PublicDir, filepath.FromSlash(path.Clean("/"+urlPath)))

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		if !strings.HasSuffix(urlPath, "/") {
			c.Redirect(http.StatusMovedPermanently, urlPath+"/")
			return
		}
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil || info.IsDir() {
		s.notFound(c)
		return
	}

	if filepath.Ext(full) == ".html" {
		data, err := os.ReadFile(full)
		if err != nil {
			s.notFound(c)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", withReload(data))
		return
	}
	c.File(full)
}

func (s *Server) notFound(c *gin.Context) {
	data, err := os.ReadFile(filepath.Join(s.cfg.Build.PublicDir, "404.html"))
	if err != nil {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", withReload(data))
}

func withReload(page []byte) []byte {
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		return append(page, reloadScript...)
	}
	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:i]...)
	out = append(out, reloadScript...)
	return append(out, page[i:]...)
}

func (s *Server) handleSSE(c *gin.Context) {
	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		s.sseMu.Unlock()
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("message", "hello")
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case msg := <-ch:
			c.SSEvent("message", msg)
			c.Writer.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == eventsPath {
			return
		}
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("handler panic")
	c.AbortWithStatus(http.StatusInternalServerError)
}
