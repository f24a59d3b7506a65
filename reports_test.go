// Package reports provides tests for grouped report listing.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FPI-TW/report-sub000/cache"
	reporterrors "github.com/FPI-TW/report-sub000/errors"
	"github.com/FPI-TW/report-sub000/internal/testutil"
	"github.com/FPI-TW/report-sub000/reporttypes"
)

const dailyPrefix = "daily-report/pdf/"

func dailyStore() *testutil.FakeStore {
	return testutil.NewFakeStore(
		dailyPrefix+"a-2024-07-05.pdf",
		dailyPrefix+"b-2024-07-01.pdf",
		dailyPrefix+"c-2024-12-20.pdf",
		dailyPrefix+"bad.pdf",
	)
}

func groupKeys(g reporttypes.Group) []string {
	keys := make([]string, len(g.Items))
	for i, item := range g.Items {
		keys[i] = item.Key
	}
	return keys
}

// TestClient_ListGroupedReports tests the whole listing pipeline on a small store.
func TestClient_ListGroupedReports(t *testing.T) {
	client, err := New(dailyStore())
	require.NoError(t, err)

	page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 6, page.GroupsPerPage)
	assert.False(t, page.HasPrev)
	assert.False(t, page.HasNext)
	assert.Equal(t, 2, page.TotalGroups)
	require.Len(t, page.Groups, 2)

	assert.Equal(t, 2024, page.Groups[0].Year)
	assert.Equal(t, 12, page.Groups[0].Month)
	assert.Equal(t, []string{dailyPrefix + "c-2024-12-20.pdf"}, groupKeys(page.Groups[0]))

	assert.Equal(t, 2024, page.Groups[1].Year)
	assert.Equal(t, 7, page.Groups[1].Month)
	assert.Equal(t,
		[]string{dailyPrefix + "a-2024-07-05.pdf", dailyPrefix + "b-2024-07-01.pdf"},
		groupKeys(page.Groups[1]),
	)

	assert.Equal(t, 1, page.Diagnostics.SkippedCount)
	assert.Equal(t, 1, page.Diagnostics.PagesFetched)
	assert.False(t, page.Diagnostics.BoundReached)
	assert.Nil(t, page.Diagnostics.SkippedKeys)
}

// TestClient_ListGroupedReports_OneGroupPerPage tests paging through groups one at a time.
func TestClient_ListGroupedReports_OneGroupPerPage(t *testing.T) {
	client, err := New(dailyStore())
	require.NoError(t, err)

	first, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 1)
	require.NoError(t, err)
	require.Len(t, first.Groups, 1)
	assert.Equal(t, 12, first.Groups[0].Month)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)
	assert.Equal(t, 2, first.TotalGroups)

	second, err := client.ListGroupedReports(t.Context(), dailyPrefix, 2, 1)
	require.NoError(t, err)
	require.Len(t, second.Groups, 1)
	assert.Equal(t, 7, second.Groups[0].Month)
	assert.True(t, second.HasPrev)
	assert.False(t, second.HasNext)

	past, err := client.ListGroupedReports(t.Context(), dailyPrefix, 3, 1)
	require.NoError(t, err)
	assert.Empty(t, past.Groups)
	assert.NotNil(t, past.Groups)
	assert.True(t, past.HasPrev)
	assert.False(t, past.HasNext)
	assert.Equal(t, 2, past.TotalGroups)
}

// TestClient_ListGroupedReports_Clamp tests that non-positive paging inputs are clamped.
func TestClient_ListGroupedReports_Clamp(t *testing.T) {
	client, err := New(dailyStore())
	require.NoError(t, err)

	page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 0, -4)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.GroupsPerPage)
	require.Len(t, page.Groups, 1)
	assert.True(t, page.HasNext)
}

// TestClient_ListGroupedReports_Empty tests that an empty listing is a successful empty page.
func TestClient_ListGroupedReports_Empty(t *testing.T) {
	tests := []struct {
		name  string
		store *testutil.FakeStore
	}{
		{name: "no objects", store: testutil.NewFakeStore()},
		{name: "only undated objects", store: testutil.NewFakeStore(dailyPrefix+"bad.pdf", dailyPrefix+"readme.txt")},
		{name: "objects under another prefix", store: testutil.NewFakeStore("weekly/2024-01-01.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.store)
			require.NoError(t, err)

			page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
			require.NoError(t, err)
			assert.NotNil(t, page.Groups)
			assert.Empty(t, page.Groups)
			assert.Equal(t, 0, page.TotalGroups)
			assert.False(t, page.HasPrev)
			assert.False(t, page.HasNext)
		})
	}
}

// TestClient_ListGroupedReports_ListFailed tests that a failing store call fails the whole request.
func TestClient_ListGroupedReports_ListFailed(t *testing.T) {
	cause := errors.New("connection reset")
	store := dailyStore()
	store.Err = cause

	client, err := New(store)
	require.NoError(t, err)

	page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.Error(t, err)
	assert.Nil(t, page)
	assert.True(t, reporterrors.IsListFailed(err))
	assert.ErrorIs(t, err, cause)
}

// TestClient_ListGroupedReports_Cancelled tests that a cancelled context aborts the listing.
func TestClient_ListGroupedReports_Cancelled(t *testing.T) {
	client, err := New(dailyStore())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	page, err := client.ListGroupedReports(ctx, dailyPrefix, 1, 6)
	require.Error(t, err)
	assert.Nil(t, page)
	assert.True(t, reporterrors.IsCancelled(err))
}

// TestClient_ListGroupedReports_ContinuationTokens tests that every store page is aggregated.
func TestClient_ListGroupedReports_ContinuationTokens(t *testing.T) {
	keys := testutil.NewTestDataGenerator(42).GenerateDatedKeys(1500, dailyPrefix)
	store := testutil.NewFakeStore(keys...)

	client, err := New(store)
	require.NoError(t, err)

	groups, diag, err := client.ListGroups(t.Context(), dailyPrefix)
	require.NoError(t, err)

	calls := store.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "", calls[0].Token)
	assert.Equal(t, "1000", calls[1].Token)
	assert.Equal(t, int32(1000), calls[0].MaxKeys)
	assert.Equal(t, 2, diag.PagesFetched)

	total := 0
	for _, g := range groups {
		total += len(g.Items)
	}
	assert.Equal(t, 1500, total)
}

// TestClient_ListGroupedReports_BoundReached tests that the page fetch bound stops a runaway store.
func TestClient_ListGroupedReports_BoundReached(t *testing.T) {
	store := dailyStore()
	store.Loop = true

	client, err := New(store, WithMaxKeys(2), WithMaxPages(5))
	require.NoError(t, err)

	page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.NoError(t, err)
	assert.True(t, page.Diagnostics.BoundReached)
	assert.Equal(t, 5, page.Diagnostics.PagesFetched)
	assert.Len(t, store.Calls(), 5)
}

// TestClient_ListGroupedReports_Idempotent tests that repeated calls over an unchanged store agree.
func TestClient_ListGroupedReports_Idempotent(t *testing.T) {
	keys := testutil.NewTestDataGenerator(7).GenerateDatedKeys(300, dailyPrefix)
	client, err := New(testutil.NewFakeStore(keys...), WithMaxKeys(50))
	require.NoError(t, err)

	first, err := client.ListGroupedReports(t.Context(), dailyPrefix, 2, 4)
	require.NoError(t, err)
	second, err := client.ListGroupedReports(t.Context(), dailyPrefix, 2, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestClient_ListGroupedReports_Permutation tests that store order does not change the result.
func TestClient_ListGroupedReports_Permutation(t *testing.T) {
	gen := testutil.NewTestDataGenerator(11)
	keys := gen.GenerateDatedKeys(200, dailyPrefix)

	items := make([]reporttypes.DatedItem, 0, len(keys))
	for _, k := range keys {
		date, ok := ParseDate(k)
		require.True(t, ok)
		items = append(items, reporttypes.DatedItem{Key: k, Date: date, URL: k})
	}
	shuffled := make([]reporttypes.DatedItem, len(items))
	for i, k := range gen.Shuffle(keys) {
		date, _ := ParseDate(k)
		shuffled[i] = reporttypes.DatedItem{Key: k, Date: date, URL: k}
	}

	assert.Equal(t, Group(items), Group(shuffled))
}

// TestClient_ListGroupedReports_FileTypes tests MIME type filtering of listed keys.
func TestClient_ListGroupedReports_FileTypes(t *testing.T) {
	store := testutil.NewFakeStore(
		dailyPrefix+"a-2024-07-05.pdf",
		dailyPrefix+"a-2024-07-05.csv",
		dailyPrefix+"b-2024-08-01.PDF",
		dailyPrefix+"notes-2024-08-02.txt",
	)
	client, err := New(store)
	require.NoError(t, err)

	page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6, WithFileTypes("application/pdf"))
	require.NoError(t, err)
	require.Len(t, page.Groups, 2)
	assert.Equal(t, []string{dailyPrefix + "b-2024-08-01.PDF"}, groupKeys(page.Groups[0]))
	assert.Equal(t, []string{dailyPrefix + "a-2024-07-05.pdf"}, groupKeys(page.Groups[1]))
	assert.Equal(t, 2, page.Diagnostics.FilteredCount)

	_, err = client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6, WithFileTypes("application/x-not-a-type"))
	require.Error(t, err)
	assert.True(t, reporterrors.IsInvalidInput(err))
}

// TestClient_ListGroupedReports_DatePolicy tests first and last match date selection.
func TestClient_ListGroupedReports_DatePolicy(t *testing.T) {
	key := dailyPrefix + "2023-11-30-to-2024-01-02.pdf"

	tests := []struct {
		name      string
		policy    reporttypes.DatePolicy
		wantYear  int
		wantMonth int
		wantDate  string
	}{
		{name: "first match", policy: reporttypes.DateFirstMatch, wantYear: 2023, wantMonth: 11, wantDate: "2023-11-30"},
		{name: "last match", policy: reporttypes.DateLastMatch, wantYear: 2024, wantMonth: 1, wantDate: "2024-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(testutil.NewFakeStore(key), WithDatePolicy(tt.policy))
			require.NoError(t, err)

			page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
			require.NoError(t, err)
			require.Len(t, page.Groups, 1)
			assert.Equal(t, tt.wantYear, page.Groups[0].Year)
			assert.Equal(t, tt.wantMonth, page.Groups[0].Month)
			assert.Equal(t, tt.wantDate, page.Groups[0].Items[0].Date)
		})
	}
}

// TestClient_ListGroupedReports_SkippedKeys tests the skipped key diagnostics.
func TestClient_ListGroupedReports_SkippedKeys(t *testing.T) {
	client, err := New(dailyStore(), WithSkippedKeys(true))
	require.NoError(t, err)

	page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Diagnostics.SkippedCount)
	assert.Equal(t, []string{dailyPrefix + "bad.pdf"}, page.Diagnostics.SkippedKeys)
}

// TestClient_ListGroupedReports_MixedKeys tests that undated keys never reach a group.
func TestClient_ListGroupedReports_MixedKeys(t *testing.T) {
	gen := testutil.NewTestDataGenerator(21)
	dated := gen.GenerateDatedKeys(40, dailyPrefix)
	undated := gen.GenerateUndatedKeys(15, dailyPrefix)

	client, err := New(testutil.NewFakeStore(gen.Shuffle(append(dated, undated...))...))
	require.NoError(t, err)

	groups, diag, err := client.ListGroups(t.Context(), dailyPrefix)
	require.NoError(t, err)
	assert.Equal(t, 15, diag.SkippedCount)

	total := 0
	for _, g := range groups {
		for _, item := range g.Items {
			assert.NotContains(t, item.Key, "notes-")
		}
		total += len(g.Items)
	}
	assert.Equal(t, 40, total)
}

// TestClient_ListGroupedReports_Cache tests that a cached listing serves repeated requests.
func TestClient_ListGroupedReports_Cache(t *testing.T) {
	store := dailyStore()
	client, err := New(store, WithCache(cache.New(time.Minute, 10)))
	require.NoError(t, err)

	first, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 1)
	require.NoError(t, err)
	assert.False(t, first.Diagnostics.FromCache)

	second, err := client.ListGroupedReports(t.Context(), dailyPrefix, 2, 1)
	require.NoError(t, err)
	assert.True(t, second.Diagnostics.FromCache)
	assert.Equal(t, 7, second.Groups[0].Month)
	assert.Len(t, store.Calls(), 1)

	_, err = client.ListGroupedReports(t.Context(), dailyPrefix, 1, 1, WithBypassCache())
	require.NoError(t, err)
	assert.Len(t, store.Calls(), 2)

	// file type filters apply to the cached listing
	filtered, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6, WithFileTypes("text/csv"))
	require.NoError(t, err)
	assert.True(t, filtered.Diagnostics.FromCache)
	assert.Equal(t, 4, filtered.Diagnostics.FilteredCount)
	assert.Equal(t, 0, filtered.TotalGroups)
	assert.Len(t, store.Calls(), 2)
}

// gatedSource serves store pages only once release is closed.
func gatedSource(store *testutil.FakeStore, started, release chan struct{}) reporttypes.PageSource {
	var once sync.Once
	return reporttypes.PageSourceFunc(func(
		ctx context.Context,
		prefix, token string,
		maxKeys int32,
	) (*reporttypes.ListPage, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return store.ListPage(ctx, prefix, token, maxKeys)
	})
}

// TestClient_ListGroupedReports_SharedLoadCancel tests that a caller giving up
// does not fail other callers waiting on the same cached listing.
func TestClient_ListGroupedReports_SharedLoadCancel(t *testing.T) {
	store := dailyStore()
	started := make(chan struct{})
	release := make(chan struct{})

	client, err := New(gatedSource(store, started, release), WithCache(cache.New(time.Minute, 10)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.ListGroupedReports(ctx, dailyPrefix, 1, 6)
		firstErr <- err
	}()
	<-started

	type result struct {
		page *reporttypes.Page
		err  error
	}
	second := make(chan result, 1)
	go func() {
		page, err := client.ListGroupedReports(context.Background(), dailyPrefix, 1, 6)
		second <- result{page: page, err: err}
	}()

	cancel()
	err = <-firstErr
	require.Error(t, err)
	assert.True(t, reporterrors.IsCancelled(err))

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 2, got.page.TotalGroups)
	assert.Len(t, store.Calls(), 1)

	// the shared listing still filled the cache
	cached, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.NoError(t, err)
	assert.True(t, cached.Diagnostics.FromCache)
}

// TestClient_ListGroupedReports_SharedLoadTimeout tests that a stuck shared
// listing fails as a listing failure, not as a cancellation.
func TestClient_ListGroupedReports_SharedLoadTimeout(t *testing.T) {
	source := reporttypes.PageSourceFunc(func(
		ctx context.Context,
		prefix, token string,
		maxKeys int32,
	) (*reporttypes.ListPage, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	client, err := New(source,
		WithCache(cache.New(time.Minute, 10)),
		WithLoadTimeout(20*time.Millisecond),
	)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, client.Config().LoadTimeout)

	_, err = client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.Error(t, err)
	assert.True(t, reporterrors.IsListFailed(err))
	assert.False(t, reporterrors.IsCancelled(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestClient_ListGroupedReports_CacheFailure tests that failed listings are not cached.
func TestClient_ListGroupedReports_CacheFailure(t *testing.T) {
	store := dailyStore()
	store.Err = errors.New("throttled")
	store.FailOnCall = 1

	client, err := New(store, WithCache(cache.New(time.Minute, 10)))
	require.NoError(t, err)

	_, err = client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.Error(t, err)

	page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalGroups)
	assert.False(t, page.Diagnostics.FromCache)
}

// mapCache is a Cache without Loader support.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]*reporttypes.Listing
	gets    atomic.Int32
}

func (m *mapCache) Get(key string) (*reporttypes.Listing, bool) {
	m.gets.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.entries[key]
	return l, ok
}

func (m *mapCache) Set(key string, listing *reporttypes.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = listing
}

// TestClient_ListGroupedReports_PlainCache tests caches that only implement Get and Set.
func TestClient_ListGroupedReports_PlainCache(t *testing.T) {
	store := dailyStore()
	c := &mapCache{entries: make(map[string]*reporttypes.Listing)}
	client, err := New(store, WithCache(c))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
		require.NoError(t, err)
	}
	assert.Len(t, store.Calls(), 1)
	assert.Equal(t, int32(3), c.gets.Load())
	assert.Contains(t, c.entries, dailyPrefix)
}

// TestClient_ListGroupedReports_Concurrent tests concurrent requests against one client.
func TestClient_ListGroupedReports_Concurrent(t *testing.T) {
	keys := testutil.NewTestDataGenerator(3).GenerateDatedKeys(120, dailyPrefix)
	client, err := New(testutil.NewFakeStore(keys...), WithMaxKeys(25))
	require.NoError(t, err)

	want, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 3)
	require.NoError(t, err)

	const numGoroutines = 10
	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 3)
			if err != nil {
				errs <- err
				return
			}
			if got.TotalGroups != want.TotalGroups || len(got.Groups) != len(want.Groups) {
				errs <- fmt.Errorf("got %d groups, want %d", got.TotalGroups, want.TotalGroups)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// TestClient_ListAllObjects tests raw listing without grouping.
func TestClient_ListAllObjects(t *testing.T) {
	client, err := New(dailyStore(), WithMaxKeys(3))
	require.NoError(t, err)

	objects, err := client.ListAllObjects(t.Context(), dailyPrefix)
	require.NoError(t, err)
	assert.Len(t, objects, 4)
}

// TestPage_JSON tests the serialized page shape.
func TestPage_JSON(t *testing.T) {
	client, err := New(testutil.NewFakeStore(dailyPrefix + "c-2024-12-20.pdf"))
	require.NoError(t, err)

	page, err := client.ListGroupedReports(t.Context(), dailyPrefix, 1, 6)
	require.NoError(t, err)

	data, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"page": 1,
		"months": 6,
		"hasPrev": false,
		"hasNext": false,
		"groups": [
			{"year": 2024, "month": 12, "items": [
				{"key": "daily-report/pdf/c-2024-12-20.pdf", "date": "2024-12-20", "url": "daily-report/pdf/c-2024-12-20.pdf"}
			]}
		],
		"totalGroups": 1
	}`, string(data))

	empty := Paginate(nil, 1, 6)
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1,"months":6,"hasPrev":false,"hasNext":false,"groups":[],"totalGroups":0}`, string(data))
}
