// Package server serves the interactive dashboard over HTTP.
//
// Each visitor gets a session (a UUID cookie) holding its method selection
// and a live diagram set. Pointer events posted by the page are applied to
// that set under the session lock, so the single-threaded diagram engine
// never sees concurrent calls. Responses carry the live positions and edge
// segments the page redraws from.
//
// # Routes
//
//	GET  /                               dashboard page
//	POST /select/{methodID}              toggle selection, reseed, redirect
//	GET  /api/methods                    catalogue
//	GET  /api/diagrams                   current set snapshot
//	GET  /api/diagrams/{key}/svg         one diagram
//	GET  /api/diagrams/{key}/panel       its chart panel
//	GET  /api/diagrams/{key}/export      dot, svg, png or json
//	POST /api/diagrams/{key}/pointer     apply a pointer event
//	GET  /healthz                        liveness
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/export"
	"github.com/matzehuels/mlviz/pkg/session"
)

// cookieName is the session cookie.
const cookieName = "mlviz_session"

// Options configures a Server.
type Options struct {
	Catalogue *catalogue.Catalogue
	Store     session.Store         // nil uses a MemoryStore
	Registry  *diagram.Registry     // nil uses one logging to Logger
	Supplier  diagram.PanelSupplier // nil renders no panels
	Exporter  export.Renderer
	Logger    *log.Logger // nil discards
	// SessionTTL is the idle lifetime of new sessions.
	SessionTTL time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	cat      *catalogue.Catalogue
	store    session.Store
	reg      *diagram.Registry
	supplier diagram.PanelSupplier
	exporter export.Renderer
	logger   *log.Logger
	ttl      time.Duration
	router   chi.Router
}

// New creates a server and builds its router.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Catalogue == nil {
		opts.Catalogue = catalogue.MustEmbedded()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore(opts.SessionTTL)
	}
	if opts.Registry == nil {
		opts.Registry = diagram.NewRegistry(opts.Logger)
	}

	s := &Server{
		cat:      opts.Catalogue,
		store:    opts.Store,
		reg:      opts.Registry,
		supplier: opts.Supplier,
		exporter: opts.Exporter,
		logger:   opts.Logger,
		ttl:      opts.SessionTTL,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/select/{methodID}", s.handleSelect)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/methods", s.handleMethods)
		r.Get("/diagrams", s.handleDiagrams)
		r.Route("/diagrams/{key}", func(r chi.Router) {
			r.Get("/svg", s.handleDiagramSVG)
			r.Get("/panel", s.handlePanel)
			r.Get("/export", s.handleExport)
			r.Post("/pointer", s.handlePointer)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
