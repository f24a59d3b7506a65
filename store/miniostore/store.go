// Package miniostore serves report listings from a MinIO (or other S3-compatible) bucket.
//
// MinIO streams listings over a channel instead of returning pages, so the store
// builds pages itself: the continuation token is the last key of the previous
// page and is passed back as StartAfter. A page is truncated when one more
// object than requested is available.
package miniostore

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/time/rate"

	reporterrors "github.com/FPI-TW/report-sub000/errors"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

// ListAPI is the MinIO listing call used by the store.
type ListAPI interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

var _ ListAPI = (*minio.Client)(nil)

// Store lists report objects in one MinIO bucket.
type Store struct {
	api     ListAPI
	bucket  string
	cfg     storeConfig
	limiter *rate.Limiter
}

var _ reporttypes.PageSource = (*Store)(nil)

// New connects to the MinIO endpoint (host:port, no scheme) for bucket.
func New(endpoint, bucket string, opts ...Option) (*Store, error) {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if endpoint == "" || bucket == "" {
		return nil, reporterrors.NewError("store initialization", reporterrors.ErrInvalidInput,
			fmt.Errorf("endpoint and bucket are required"))
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, reporterrors.NewError("store initialization", reporterrors.ErrInvalidInput, err)
	}

	return newStore(client, bucket, cfg), nil
}

// NewWithClient creates a store over a custom ListAPI implementation.
func NewWithClient(api ListAPI, bucket string, opts ...Option) *Store {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newStore(api, bucket, cfg)
}

func newStore(api ListAPI, bucket string, cfg storeConfig) *Store {
	s := &Store{api: api, bucket: bucket, cfg: cfg}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(cfg.RateLimit, cfg.Burst)
	}
	return s
}

// Bucket returns the listed bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// ListPage lists up to maxKeys objects under prefix, after the key in token.
func (s *Store) ListPage(
	ctx context.Context,
	prefix, token string,
	maxKeys int32,
) (*reporttypes.ListPage, error) {
	maxKeys = max(maxKeys, 1)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	callCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	// One object past maxKeys tells whether the page is truncated.
	listCtx, cancel := context.WithCancel(callCtx)
	objects := s.api.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: token,
		MaxKeys:    int(maxKeys) + 1,
	})
	// Stop the producer and let it close the channel on every return path.
	defer func() {
		cancel()
		for range objects {
		}
	}()

	page := &reporttypes.ListPage{
		Objects: make([]reporttypes.RawObject, 0, maxKeys),
	}
	for obj := range objects {
		if obj.Err != nil {
			return nil, translateError(prefix, obj.Err)
		}
		if len(page.Objects) == int(maxKeys) {
			page.IsTruncated = true
			break
		}
		page.Objects = append(page.Objects, reporttypes.RawObject{
			Key:          obj.Key,
			LastModified: obj.LastModified,
			Size:         obj.Size,
			ETag:         obj.ETag,
		})
	}

	// A producer that stops on a done context closes the channel without an error.
	if err := callCtx.Err(); err != nil {
		return nil, err
	}

	if page.IsTruncated && len(page.Objects) > 0 {
		page.NextToken = page.Objects[len(page.Objects)-1].Key
	}
	return page, nil
}

// translateError classifies MinIO error responses. Unrecognized errors are returned unchanged.
func translateError(prefix string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket":
		return reporterrors.NewError("listPage", reporterrors.ErrBucketNotFound, err).WithPrefix(prefix)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return reporterrors.NewError("listPage", reporterrors.ErrAccessDenied, err).WithPrefix(prefix)
	}
	return err
}
