package reports

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/FPI-TW/report-sub000/errors"
	"github.com/FPI-TW/report-sub000/internal/operations/list"
	"github.com/FPI-TW/report-sub000/reporttypes"
	"github.com/FPI-TW/report-sub000/urlmap"
)

// DefaultLoadTimeout bounds a shared cache load when WithLoadTimeout is not set.
const DefaultLoadTimeout = 2 * time.Minute

// Client lists and groups report objects from one store.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	// lister exhausts store listings through the injected PageSource
	lister *list.Lister

	// config holds the applied options
	config reporttypes.ClientConfig

	// logger is used for structured logging of listings
	logger *slog.Logger
}

// New creates a client over the given store primitive.
//
// Example:
//
//	client, err := reports.New(store,
//	    reports.WithMaxPages(50),
//	    reports.WithLogger(slog.Default()),
//	)
func New(source reporttypes.PageSource, opts ...reporttypes.Option) (*Client, error) {
	if source == nil {
		return nil, errors.NewError("client initialization", errors.ErrInvalidInput,
			fmt.Errorf("page source cannot be nil"))
	}

	cfg := reporttypes.ClientConfig{
		MaxKeys:     list.MaxKeysLimit,
		MaxPages:    list.DefaultMaxPages,
		LoadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.URLMapper == nil {
		cfg.URLMapper = urlmap.Identity
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		lister: list.New(source),
		config: cfg,
		logger: logger,
	}, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() reporttypes.ClientConfig {
	return c.config
}
