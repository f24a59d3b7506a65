// Package reports lists dated report objects from a prefix-organized object store
// and serves them grouped by calendar month, one page of groups at a time.
//
// A listing request runs one sequential pipeline: the store is listed
// exhaustively under a prefix (following continuation tokens up to a fetch
// bound), a YYYY-MM-DD date is taken from every key, keys without one are
// dropped, the dated items are grouped by year and month in a deterministic
// order, and the requested page of groups is cut out of the result.
//
// Key features:
//   - Pluggable store primitive (AWS S3, MinIO, or any PageSource)
//   - Deterministic grouping independent of store listing order
//   - Lenient pagination that clamps out-of-range requests
//   - Distinct errors for store failures and cancellation
//   - Optional listing cache and diagnostics for dropped keys
//
// Example usage:
//
//	store, err := s3store.New(ctx, "reports-bucket", s3store.WithRegion("ap-northeast-1"))
//	if err != nil {
//	    return err
//	}
//	client, err := reports.New(store, reports.WithURLMapper(urlmap.BaseURL("https://cdn.example.com")))
//	if err != nil {
//	    return err
//	}
//
//	page, err := client.ListGroupedReports(ctx, "daily-report/pdf/", 1, 6)
//	if err != nil {
//	    return err
//	}
package reports
