package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	shutdownTimeout = 5 * time.Second
	watchDebounce   = 300 * time.Millisecond
)

// Config carries everything the server needs. It is built once at startup
// and passed into New; there is no other configuration surface.
type Config struct {
	// Port to listen on, all interfaces.
	Port int

	// Dir is the directory to serve. Empty means the working directory.
	Dir string

	// MIMEOverrides is the extension overlay for the MIME table.
	// Nil selects DefaultOverrides.
	MIMEOverrides map[string]string

	// Fs is the filesystem Dir is resolved against. Nil means the OS
	// filesystem; tests substitute an afero.MemMapFs.
	Fs afero.Fs

	// LiveReload watches Dir and exposes a reload event stream at /events.
	LiveReload bool
}

// Server serves static files with the extended MIME table. Directory
// requests, range handling and error statuses are delegated to
// http.FileServer untouched.
type Server struct {
	cfg     Config
	mimes   *MIMETable
	hub     *reloadHub
	handler http.Handler

	mu   sync.Mutex
	addr net.Addr
}

// New constructs a server from cfg. The MIME table is built here and never
// changes afterwards.
func New(cfg Config) *Server {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}

	s := &Server{
		cfg:   cfg,
		mimes: NewMIMETable(cfg.MIMEOverrides),
	}

	mux := http.NewServeMux()
	if cfg.LiveReload {
		s.hub = newReloadHub()
		mux.HandleFunc("/events", s.hub.handleSSE)
	}
	mux.Handle("/", s.fileHandler())
	s.handler = mux
	return s
}

// Handler exposes the request handler for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound listener address, or nil before Run has bound the
// port. Tests that configure port 0 use this to find the ephemeral port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// fileHandler wraps http.FileServer so the MIME table decides the content
// type before the standard machinery runs. ServeContent keeps a
// Content-Type that is already set, and error responses overwrite it, so
// everything else passes through unchanged.
func (s *Server) fileHandler() http.Handler {
	httpFs := afero.NewHttpFs(s.cfg.Fs)
	fileServer := http.FileServer(httpFs.Dir(s.cfg.Dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if typ := s.mimes.Lookup(r.URL.Path); typ != "" {
			w.Header().Set("Content-Type", typ)
		}
		fileServer.ServeHTTP(w, r)
	})
}

// forwardReloads pushes debounced watcher signals into the hub until ctx is
// cancelled or the watcher stops.
func (s *Server) forwardReloads(ctx context.Context, w *Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.C:
			if !ok {
				return
			}
			s.hub.broadcast()
		}
	}
}

// Run binds the listening port and serves until ctx is cancelled, then
// shuts down gracefully. A bind failure is returned as-is; per-request
// errors become HTTP statuses and never reach here.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.LiveReload {
		watcher, err := NewWatcher(s.cfg.Dir, watchDebounce)
		if err != nil {
			// Reload is a convenience; serving still works without it.
			log.Printf("Failed to watch %s: %v", s.cfg.Dir, err)
		} else {
			defer watcher.Close()
			go s.forwardReloads(ctx, watcher)
		}
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	httpServer := &http.Server{Handler: s.handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP server shutdown error", "error", err)
		}
	}()

	if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
