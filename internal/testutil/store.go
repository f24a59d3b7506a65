package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/FPI-TW/report-sub000/reporttypes"
)

// FakeStore is an in-memory paginated store.
// It lists keys in lexicographic order and hands out index tokens,
// the way S3 serves ListObjectsV2.
type FakeStore struct {
	// Err, when set, is returned by the call numbered FailOnCall (1-based; 0 means every call)
	Err        error
	FailOnCall int

	// Loop makes every page truncated with the same token, simulating a broken store
	Loop bool

	mu      sync.Mutex
	objects []reporttypes.RawObject
	calls   []PageCall
}

// NewFakeStore creates a store holding the given keys.
func NewFakeStore(keys ...string) *FakeStore {
	s := &FakeStore{}
	for _, k := range keys {
		s.objects = append(s.objects, reporttypes.RawObject{Key: k})
	}
	sort.Slice(s.objects, func(i, j int) bool { return s.objects[i].Key < s.objects[j].Key })
	return s
}

// ListPage serves one page of keys under prefix.
func (s *FakeStore) ListPage(
	ctx context.Context,
	prefix, token string,
	maxKeys int32,
) (*reporttypes.ListPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, PageCall{Prefix: prefix, Token: token, MaxKeys: maxKeys})
	if s.Err != nil && (s.FailOnCall == 0 || s.FailOnCall == len(s.calls)) {
		return nil, s.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matching []reporttypes.RawObject
	for _, obj := range s.objects {
		if strings.HasPrefix(obj.Key, prefix) {
			matching = append(matching, obj)
		}
	}

	start := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, err
		}
		start = n
	}
	if start > len(matching) {
		start = len(matching)
	}
	end := start + int(maxKeys)
	if end > len(matching) {
		end = len(matching)
	}

	page := &reporttypes.ListPage{
		Objects: append([]reporttypes.RawObject(nil), matching[start:end]...),
	}
	if end < len(matching) || s.Loop {
		page.IsTruncated = true
		page.NextToken = strconv.Itoa(end)
		if s.Loop {
			page.NextToken = token + "0"
		}
	}
	return page, nil
}

// Calls returns a copy of the recorded calls.
func (s *FakeStore) Calls() []PageCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PageCall(nil), s.calls...)
}
