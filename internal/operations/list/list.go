package list

import (
	"context"
	stderrors "errors"

	"github.com/FPI-TW/report-sub000/errors"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

const (
	// MaxKeysLimit is the largest per-call item cap S3-style stores accept.
	MaxKeysLimit int32 = 1000

	// DefaultMaxPages bounds the number of store pages fetched per listing.
	DefaultMaxPages = 100
)

// PageSource is the low-level store listing primitive.
type PageSource = reporttypes.PageSource

// Lister handles exhaustive listing of store objects.
type Lister struct {
	source PageSource
}

// New creates a new Lister.
func New(source PageSource) *Lister {
	return &Lister{
		source: source,
	}
}

// Config holds configuration for list operations.
type Config struct {
	Prefix   string
	MaxKeys  int32 // Per-call item cap, clamped to 1..1000
	MaxPages int   // Page fetch bound, DefaultMaxPages when <= 0
}

// Result represents the result of an exhaustive listing.
type Result struct {
	Objects      []reporttypes.RawObject
	PagesFetched int
	BoundReached bool // More pages existed when the fetch bound stopped the listing
}

// ListAll fetches every page under the prefix, in sequence.
// A failed or cancelled page fails the whole listing and discards what was accumulated.
// Reaching the page fetch bound is not an error; the result is returned with BoundReached set.
func (l *Lister) ListAll(ctx context.Context, config *Config) (*Result, error) {
	paginator := l.ListWithPaginator(config)
	result := &Result{}

	for paginator.HasMorePages() {
		if paginator.PagesFetched() >= paginator.maxPages {
			result.BoundReached = true
			break
		}

		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		result.Objects = append(result.Objects, page.Objects...)
	}

	result.PagesFetched = paginator.PagesFetched()
	return result, nil
}

// ListWithPaginator creates a paginator for page-by-page listing.
func (l *Lister) ListWithPaginator(config *Config) *Paginator {
	maxPages := config.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Paginator{
		source:    l.source,
		prefix:    config.Prefix,
		pageSize:  OptimalPageSize(config.MaxKeys),
		maxPages:  maxPages,
		firstPage: true,
	}
}

// Paginator walks store pages by continuation token.
type Paginator struct {
	source       PageSource
	prefix       string
	pageSize     int32
	maxPages     int
	nextToken    string
	hasMorePages bool
	firstPage    bool
	fetched      int
}

// HasMorePages returns true if there are more pages to fetch.
func (p *Paginator) HasMorePages() bool {
	return p.firstPage || p.hasMorePages
}

// PagesFetched returns the number of pages fetched so far.
func (p *Paginator) PagesFetched() int {
	return p.fetched
}

// NextPage fetches the next page of results.
func (p *Paginator) NextPage(ctx context.Context) (*reporttypes.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError("listPage", p.prefix, err)
	}

	token := ""
	if !p.firstPage {
		token = p.nextToken
	}

	page, err := p.source.ListPage(ctx, p.prefix, token, p.pageSize)
	if err != nil {
		return nil, classify(ctx, p.prefix, err)
	}
	if page == nil {
		page = &reporttypes.ListPage{}
	}

	p.firstPage = false
	p.fetched++
	p.nextToken = page.NextToken
	// A truncated page without a token cannot be continued.
	p.hasMorePages = page.IsTruncated && page.NextToken != ""

	return page, nil
}

// OptimalPageSize clamps the requested per-call item cap to what stores accept.
func OptimalPageSize(maxKeys int32) int32 {
	if maxKeys > 0 && maxKeys <= MaxKeysLimit {
		return maxKeys
	}
	// Default to maximum for efficiency
	return MaxKeysLimit
}

// classify maps a store failure to ErrCancelled or ErrListFailed.
// Only the caller's context counts as cancellation; a store-side timeout is a list failure.
func classify(ctx context.Context, prefix string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if !stderrors.Is(err, ctxErr) {
			err = stderrors.Join(ctxErr, err)
		}
		return errors.NewCancelledError("listPage", prefix, err)
	}
	return errors.NewListError("listPage", prefix, err)
}
