// Package web serves the scan dashboard: a small HTML surface over the
// orchestrator for manual entry, history review and lookup queries.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/partscan/internal/config"
	"github.com/example/partscan/internal/engine"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Server hosts the web UI.
type Server struct {
	engine     *engine.Engine
	ui         *UIState
	renderer   *Renderer
	mux        *http.ServeMux
	addr       string
	version    string
	historyCap int
}

// NewServer creates a web server over the orchestrator. The returned
// UIState must be registered as the engine's notifier by the caller.
func NewServer(cfg *config.Config, eng *engine.Engine, ui *UIState, version string) *Server {
	templates, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates missing: %v", err))
	}

	s := &Server{
		engine:     eng,
		ui:         ui,
		renderer:   NewRenderer(templates, version),
		mux:        http.NewServeMux(),
		addr:       fmt.Sprintf("%s:%d", cfg.WebBind, cfg.WebPort),
		version:    version,
		historyCap: cfg.HistoryCap,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/scan", http.StatusFound)
	})
	s.mux.HandleFunc("GET /scan", s.handleScanPage)
	s.mux.HandleFunc("POST /scan/manual", s.handleManual)
	s.mux.HandleFunc("POST /scan/use/{id}", s.handleUseRecord)
	s.mux.HandleFunc("POST /scan/query", s.handleQuery)
	s.mux.HandleFunc("GET /history", s.handleHistoryPage)
	s.mux.HandleFunc("POST /history/clear", s.handleHistoryClear)
	s.mux.HandleFunc("POST /session/start", s.handleSessionStart)
	s.mux.HandleFunc("POST /session/stop", s.handleSessionStop)
	s.mux.HandleFunc("POST /session/cycle", s.handleSessionCycle)
	s.mux.Handle("GET /static/", http.FileServer(http.FS(staticFS)))
}

// Handler returns the routed handler with security headers applied.
func (s *Server) Handler() http.Handler {
	return securityHeaders(s.mux)
}

// pageData builds the common template fields.
func (s *Server) pageData(title, nav string) PageData {
	return PageData{Title: title, Version: s.version, Nav: nav}
}

// securityHeaders sets a conservative header set on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self'; img-src 'self' data:; form-action 'self'")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled or a
// shutdown signal arrives.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("web UI listening on http://%s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Println("shutting down web UI")
	return srv.Shutdown(shutdownCtx)
}
