// Package s3store serves report listings from an Amazon S3 bucket.
//
// A Store implements reporttypes.PageSource over ListObjectsV2. Continuation
// tokens are the opaque NextContinuationToken values returned by S3. Access
// and missing-bucket failures are translated to the errors package sentinels;
// the AWS error stays in the chain.
//
// Example:
//
//	store, err := s3store.New(ctx, "reports-bucket",
//	    s3store.WithRegion("ap-northeast-1"),
//	    s3store.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	client, err := reports.New(store)
package s3store
