// Package testutil provides test utilities and mocks for listing operations.
// This package is internal and should only be used for testing within this module.
package testutil

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/FPI-TW/report-sub000/internal/s3api"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
type MockS3Client struct {
	ListObjectsV2Func func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// ListObjectsV2 mocks the S3 ListObjectsV2 operation.
func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

var _ s3api.S3API = (*MockS3Client)(nil)

// PageCall records one ListPage invocation.
type PageCall struct {
	Prefix  string
	Token   string
	MaxKeys int32
}

// MockPageSource is a mock listPage primitive.
// When ListPageFunc is nil it serves an empty, complete listing.
type MockPageSource struct {
	ListPageFunc func(ctx context.Context, prefix, token string, maxKeys int32) (*reporttypes.ListPage, error)

	mu    sync.Mutex
	calls []PageCall
}

// ListPage mocks the store listing primitive and records the call.
func (m *MockPageSource) ListPage(
	ctx context.Context,
	prefix, token string,
	maxKeys int32,
) (*reporttypes.ListPage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, PageCall{Prefix: prefix, Token: token, MaxKeys: maxKeys})
	m.mu.Unlock()

	if m.ListPageFunc != nil {
		return m.ListPageFunc(ctx, prefix, token, maxKeys)
	}
	return &reporttypes.ListPage{}, nil
}

// Calls returns a copy of the recorded calls.
func (m *MockPageSource) Calls() []PageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PageCall(nil), m.calls...)
}
