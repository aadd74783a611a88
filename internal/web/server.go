// Package web serves the redirector over HTTP: the search endpoint, the
// variable forms, the account pages and the bookmark API.
package web

import (
	"context"
	"crypto/rand"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/jrodal98/brunnylol/internal/redirect"
	"github.com/jrodal98/brunnylol/internal/store"
	"github.com/jrodal98/brunnylol/internal/web/features/auth"
	"github.com/jrodal98/brunnylol/internal/web/features/bookmarks"
	"github.com/jrodal98/brunnylol/internal/web/features/common"
	"github.com/jrodal98/brunnylol/internal/web/features/home"
	"github.com/jrodal98/brunnylol/internal/web/features/search"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds configuration for the web server.
type Config struct {
	Addr          string
	SessionSecret string
	// SeedsFile, when set, is watched for changes and re-imported into the
	// global bookmark set on save.
	SeedsFile string
	Store     *store.Store
	Cache     *store.Cache
	Redirect  *redirect.Service
	Logger    *slog.Logger
}

// Server is the HTTP server for the redirector.
type Server struct {
	addr      string
	seedsFile string
	deps      *common.Deps
	logger    *slog.Logger
}

// NewServer creates a web server. An empty session secret gets a random one,
// which invalidates cookies across restarts.
func NewServer(cfg Config) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		cfg.Logger.Warn("no session secret configured, sessions will not survive restarts")
	}

	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		addr:      cfg.Addr,
		seedsFile: cfg.SeedsFile,
		logger:    cfg.Logger,
		deps: &common.Deps{
			Store:     cfg.Store,
			Cache:     cfg.Cache,
			Redirect:  cfg.Redirect,
			Sessions:  sessionStore,
			Templates: tmpl,
			Logger:    cfg.Logger,
		},
	}, nil
}

// Handler builds the route tree. Exposed for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	home.SetupRoutes(r, s.deps)
	search.SetupRoutes(r, s.deps)
	auth.SetupRoutes(r, s.deps)
	bookmarks.SetupRoutes(r, s.deps)

	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting web server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.seedsFile != "" {
		eg.Go(func() error {
			return s.watchSeeds(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down web server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchSeeds re-imports the seeds file into the global bookmark set whenever
// it changes, then refreshes the command cache.
func (s *Server) watchSeeds(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files on save, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.seedsFile)); err != nil {
		s.logger.Error("failed to watch seeds file", "path", s.seedsFile, "error", err)
		return nil
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.seedsFile) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("seeds file changed, re-importing", "path", s.seedsFile)

				result, err := s.deps.Store.SeedGlobalsFromFile(ctx, s.seedsFile)
				if err != nil {
					s.logger.Error("failed to import seeds", "error", err)
					return
				}
				if err := s.deps.Cache.Reload(ctx); err != nil {
					s.logger.Error("failed to reload global commands", "error", err)
					return
				}
				s.logger.Info("re-imported seeds",
					"imported", result.Imported, "skipped", result.Skipped, "errors", len(result.Errors))
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}
