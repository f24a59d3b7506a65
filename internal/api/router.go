// Package api serves grouped report pages over HTTP.
package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/FPI-TW/report-sub000/reporttypes"
)

// Lister produces report pages. *reports.Client implements it.
type Lister interface {
	ListGroupedReports(
		ctx context.Context,
		prefix string,
		page, groupsPerPage int,
		opts ...reporttypes.ListOption,
	) (*reporttypes.Page, error)
}

// Scope is a public report category backed by a store prefix.
type Scope struct {
	Prefix    string
	FileTypes []string
}

// Options configures the router.
type Options struct {
	// Scopes maps the {scope} path segment to a prefix
	Scopes map[string]Scope

	// DefaultMonths is used when the months parameter is missing or invalid
	DefaultMonths int

	// MaxMonths caps the months parameter
	MaxMonths int

	// RequestTimeout bounds each request (0 = 30s)
	RequestTimeout time.Duration

	Logger *slog.Logger
}

// NewRouter creates the HTTP router with all v1 endpoints.
func NewRouter(lister Lister, opts Options) http.Handler {
	if opts.DefaultMonths < 1 {
		opts.DefaultMonths = 6
	}
	if opts.MaxMonths < opts.DefaultMonths {
		opts.MaxMonths = max(opts.DefaultMonths, 120)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(opts.RequestTimeout))

	h := &handlers{lister: lister, opts: opts, logger: opts.Logger}

	r.Get("/v1/health", h.GetHealth)
	r.Get("/v1/scopes", h.ListScopes)
	r.Get("/v1/reports/{scope}", h.GetReports)

	return r
}

type handlers struct {
	lister Lister
	opts   Options
	logger *slog.Logger
}
