package s3store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"golang.org/x/time/rate"

	reporterrors "github.com/FPI-TW/report-sub000/errors"
	"github.com/FPI-TW/report-sub000/internal/s3api"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

// Store lists report objects in one S3 bucket.
// It is safe for concurrent use.
type Store struct {
	// api is the underlying S3 client
	api s3api.S3API

	// bucket is the listed bucket
	bucket string

	// cfg holds the applied options
	cfg storeConfig

	// limiter throttles listing calls (nil = unlimited)
	limiter *rate.Limiter
}

var _ reporttypes.PageSource = (*Store)(nil)

// New creates a store for bucket, loading AWS credentials with the default
// credential chain unless static credentials or a custom config are given.
func New(ctx context.Context, bucket string, opts ...Option) (*Store, error) {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if bucket == "" {
		return nil, reporterrors.NewError("store initialization", reporterrors.ErrInvalidInput,
			fmt.Errorf("bucket name cannot be empty"))
	}

	awsCfg, err := loadAWSConfig(ctx, &cfg)
	if err != nil {
		return nil, reporterrors.NewError("store initialization", reporterrors.ErrInvalidInput, err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return newStore(s3.NewFromConfig(awsCfg, s3Opts...), bucket, cfg), nil
}

// NewWithClient creates a store over a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(api s3api.S3API, bucket string, opts ...Option) *Store {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newStore(api, bucket, cfg)
}

func newStore(api s3api.S3API, bucket string, cfg storeConfig) *Store {
	s := &Store{
		api:    api,
		bucket: bucket,
		cfg:    cfg,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(cfg.RateLimit, cfg.Burst)
	}
	return s
}

func loadAWSConfig(ctx context.Context, cfg *storeConfig) (aws.Config, error) {
	var awsCfg aws.Config
	if cfg.AWSConfig != nil {
		awsCfg = *cfg.AWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AccessKeyID != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
			))
		}

		var err error
		awsCfg, err = config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return aws.Config{}, err
		}
	}

	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}
	if cfg.MaxRetries > 0 {
		awsCfg.RetryMaxAttempts = cfg.MaxRetries
	}
	return awsCfg, nil
}

// Bucket returns the listed bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// ListPage lists one page of objects under prefix.
// An empty token requests the first page.
func (s *Store) ListPage(
	ctx context.Context,
	prefix, token string,
	maxKeys int32,
) (*reporttypes.ListPage, error) {
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

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(maxKeys),
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	output, err := s.api.ListObjectsV2(callCtx, input)
	if err != nil {
		return nil, convertAWSError(prefix, err)
	}
	return convertOutput(output), nil
}

// convertOutput converts S3 output to a store page.
func convertOutput(output *s3.ListObjectsV2Output) *reporttypes.ListPage {
	if output == nil {
		return &reporttypes.ListPage{}
	}

	page := &reporttypes.ListPage{
		Objects:     make([]reporttypes.RawObject, 0, len(output.Contents)),
		NextToken:   aws.ToString(output.NextContinuationToken),
		IsTruncated: aws.ToBool(output.IsTruncated),
	}
	for _, obj := range output.Contents {
		page.Objects = append(page.Objects, reporttypes.RawObject{
			Key:          aws.ToString(obj.Key),
			LastModified: aws.ToTime(obj.LastModified),
			Size:         aws.ToInt64(obj.Size),
			ETag:         strings.Trim(aws.ToString(obj.ETag), `"`),
		})
	}
	return page
}

// convertAWSError classifies AWS SDK errors. Unrecognized errors are returned unchanged.
func convertAWSError(prefix string, err error) error {
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return reporterrors.NewError("listPage", reporterrors.ErrBucketNotFound, err).WithPrefix(prefix)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return reporterrors.NewError("listPage", reporterrors.ErrBucketNotFound, err).WithPrefix(prefix)
		case "AccessDenied", "AllAccessDisabled", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return reporterrors.NewError("listPage", reporterrors.ErrAccessDenied, err).WithPrefix(prefix)
		}
	}
	return err
}
