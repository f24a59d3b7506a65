package reports

import (
	"context"

	"github.com/FPI-TW/report-sub000/errors"
	"github.com/FPI-TW/report-sub000/internal/filetype"
	"github.com/FPI-TW/report-sub000/internal/grouping"
	"github.com/FPI-TW/report-sub000/internal/keydate"
	"github.com/FPI-TW/report-sub000/internal/operations/list"
	"github.com/FPI-TW/report-sub000/internal/pager"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

// ListGroupedReports lists the prefix and returns one page of year/month groups.
//
// page and groupsPerPage below 1 are clamped to 1. A page past the last group is
// empty with HasNext false. An empty but successful listing returns a page with
// TotalGroups 0 and a nil error.
//
// Returns:
//   - *Page: The visible groups, navigation flags and diagnostics
//   - error: Returns an error if the listing fails; no partial page is ever returned
//
// Errors:
//   - ErrListFailed: A store call failed; the cause is wrapped
//   - ErrCancelled: ctx was cancelled or expired during the listing
//   - ErrInvalidInput: An unknown MIME type was passed to WithFileTypes
//
// Example:
//
//	page, err := client.ListGroupedReports(ctx, "daily-report/pdf/", 1, 6,
//	    reports.WithFileTypes("application/pdf"),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, g := range page.Groups {
//	    fmt.Printf("%d-%02d: %d reports\n", g.Year, g.Month, len(g.Items))
//	}
func (c *Client) ListGroupedReports(
	ctx context.Context,
	prefix string,
	page, groupsPerPage int,
	opts ...reporttypes.ListOption,
) (*reporttypes.Page, error) {
	groups, diag, err := c.ListGroups(ctx, prefix, opts...)
	if err != nil {
		return nil, err
	}

	p := pager.Paginate(groups, page, groupsPerPage)
	p.Diagnostics = *diag
	return &p, nil
}

// ListGroups lists the prefix and returns the complete ordered group collection.
// Groups are ordered by year and month descending, items by date descending.
func (c *Client) ListGroups(
	ctx context.Context,
	prefix string,
	opts ...reporttypes.ListOption,
) ([]reporttypes.Group, *reporttypes.Diagnostics, error) {
	config := &reporttypes.ListOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	filter, err := filetype.NewFilter(config.FileTypes)
	if err != nil {
		return nil, nil, err
	}

	listing, fromCache, err := c.listing(ctx, prefix, config)
	if err != nil {
		c.logger.Debug("listing failed", "prefix", prefix, "error", err)
		return nil, nil, err
	}

	diag := &reporttypes.Diagnostics{
		PagesFetched: listing.PagesFetched,
		BoundReached: listing.BoundReached,
		FromCache:    fromCache,
	}

	items := make([]reporttypes.DatedItem, 0, len(listing.Objects))
	for _, obj := range listing.Objects {
		if !filter.Match(obj.Key) {
			diag.FilteredCount++
			continue
		}
		date, ok := keydate.ParseWith(obj.Key, c.config.DatePolicy)
		if !ok {
			diag.SkippedCount++
			if c.config.KeepSkippedKeys {
				diag.SkippedKeys = append(diag.SkippedKeys, obj.Key)
			}
			continue
		}
		items = append(items, reporttypes.DatedItem{
			Key:  obj.Key,
			Date: date,
			URL:  c.config.URLMapper(obj.Key),
		})
	}

	if diag.SkippedCount > 0 {
		c.logger.Debug("skipped keys without a date",
			"prefix", prefix,
			"skipped", diag.SkippedCount,
		)
	}

	return grouping.Group(items), diag, nil
}

// ListAllObjects lists every object under the prefix, following continuation tokens.
// It never uses the listing cache. When the page fetch bound is reached the
// objects fetched so far are returned and a warning is logged.
func (c *Client) ListAllObjects(ctx context.Context, prefix string) ([]reporttypes.RawObject, error) {
	listing, err := c.listStore(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return listing.Objects, nil
}

// listing returns the raw listing of prefix, through the cache when one is configured.
func (c *Client) listing(
	ctx context.Context,
	prefix string,
	config *reporttypes.ListOptionConfig,
) (*reporttypes.Listing, bool, error) {
	if c.config.Cache == nil {
		listing, err := c.listStore(ctx, prefix)
		return listing, false, err
	}

	// The cache holds unfiltered listings, so the prefix alone is the key.
	key := prefix

	if config.BypassCache {
		listing, err := c.listStore(ctx, prefix)
		if err != nil {
			return nil, false, err
		}
		c.config.Cache.Set(key, listing)
		return listing, false, nil
	}

	if loader, ok := c.config.Cache.(reporttypes.Loader); ok {
		listing, hit, err := loader.Load(ctx, key, c.sharedLoad(ctx, prefix))
		if err != nil && ctx.Err() != nil && !errors.IsCancelled(err) {
			err = errors.NewCancelledError("listAll", prefix, err)
		}
		return listing, hit, err
	}

	if listing, ok := c.config.Cache.Get(key); ok {
		return listing, true, nil
	}
	listing, err := c.listStore(ctx, prefix)
	if err != nil {
		return nil, false, err
	}
	c.config.Cache.Set(key, listing)
	return listing, false, nil
}

// sharedLoad lists prefix on behalf of every caller waiting on one cache key.
// It keeps the values of ctx but not its cancellation, and is bounded by
// LoadTimeout instead.
func (c *Client) sharedLoad(ctx context.Context, prefix string) func() (*reporttypes.Listing, error) {
	return func() (*reporttypes.Listing, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.LoadTimeout)
		defer cancel()

		listing, err := c.listStore(loadCtx, prefix)
		if err != nil && loadCtx.Err() != nil {
			c.logger.Warn("shared listing timed out",
				"prefix", prefix,
				"timeout", c.config.LoadTimeout,
				"error", err,
			)
			return nil, errors.NewListError("listAll", prefix, loadCtx.Err()).
				WithMessage("shared listing timed out")
		}
		return listing, err
	}
}

// listStore runs the exhaustive store listing.
func (c *Client) listStore(ctx context.Context, prefix string) (*reporttypes.Listing, error) {
	result, err := c.lister.ListAll(ctx, &list.Config{
		Prefix:   prefix,
		MaxKeys:  c.config.MaxKeys,
		MaxPages: c.config.MaxPages,
	})
	if err != nil {
		return nil, err
	}

	if result.BoundReached {
		c.logger.Warn("listing stopped at page fetch bound; results may be incomplete",
			"prefix", prefix,
			"pages", result.PagesFetched,
			"objects", len(result.Objects),
		)
	}
	c.logger.Debug("listed prefix",
		"prefix", prefix,
		"pages", result.PagesFetched,
		"objects", len(result.Objects),
	)

	return &reporttypes.Listing{
		Objects:      result.Objects,
		PagesFetched: result.PagesFetched,
		BoundReached: result.BoundReached,
	}, nil
}

// ParseDate returns the first YYYY-MM-DD calendar date found in key.
func ParseDate(key string) (string, bool) {
	return keydate.Parse(key)
}

// Group partitions dated items into ordered year/month groups.
func Group(items []reporttypes.DatedItem) []reporttypes.Group {
	return grouping.Group(items)
}

// Paginate returns one page of an ordered group collection.
func Paginate(groups []reporttypes.Group, page, groupsPerPage int) reporttypes.Page {
	return pager.Paginate(groups, page, groupsPerPage)
}
