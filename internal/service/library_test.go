package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/reel/internal/api"
	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/log"
	"github.com/jharlow/reel/internal/query"
	"github.com/jharlow/reel/internal/store"
)

// fakeCatalog serves canned pages and can block requests to simulate a
// slow server.
type fakeCatalog struct {
	mu       sync.Mutex
	pages    map[string]api.MediaPage
	media    map[int]domain.Media
	requests int
	block    chan struct{} // when set, MediaList waits until closed
	entered  chan struct{} // signaled when a MediaList request arrives
	err      error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages: map[string]api.MediaPage{},
		media: map[int]domain.Media{},
	}
}

func (f *fakeCatalog) MediaList(ctx context.Context, filter api.MediaFilter, first int, after string) (api.MediaPage, error) {
	f.mu.Lock()
	f.requests++
	block := f.block
	entered := f.entered
	err := f.err
	page := f.pages[after]
	f.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return api.MediaPage{}, ctx.Err()
		}
	}
	if err != nil {
		return api.MediaPage{}, err
	}
	return page, nil
}

func (f *fakeCatalog) MediaByID(ctx context.Context, id int) (domain.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Media{}, f.err
	}
	m, ok := f.media[id]
	if !ok {
		return domain.Media{}, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeCatalog) Seasons(ctx context.Context, showID int) ([]int, error) {
	return []int{1, 2}, nil
}

func (f *fakeCatalog) FetchImage(ctx context.Context, original string, height int) ([]byte, error) {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()
	return []byte("img:" + original), nil
}

func (f *fakeCatalog) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func mediaItems(ids ...int) []domain.Media {
	items := make([]domain.Media, len(ids))
	for i, id := range ids {
		items[i] = domain.Media{ID: id, Name: fmt.Sprintf("Item %d", id), Type: domain.MediaTypeMovie}
	}
	return items
}

func newTestLibrary(t *testing.T, client *fakeCatalog) *LibraryService {
	t.Helper()
	st, err := store.New("", "")
	require.NoError(t, err)
	return NewLibraryService(client, st, log.NullLogger())
}

func TestListCachesPage(t *testing.T) {
	client := newFakeCatalog()
	client.pages[""] = api.MediaPage{Media: mediaItems(1, 2), EndCursor: "c2", HasNextPage: true}
	svc := newTestLibrary(t, client)

	page, err := svc.List(context.Background(), "/", query.State{})
	require.NoError(t, err)
	assert.Len(t, page.Media, 2)
	assert.True(t, page.HasNextPage)

	cached, ok := svc.CachedPage("/")
	require.True(t, ok)
	assert.Equal(t, page.Media, cached.Media)
}

func TestListSupersedesInFlightRequest(t *testing.T) {
	client := newFakeCatalog()
	client.pages[""] = api.MediaPage{Media: mediaItems(1)}
	svc := newTestLibrary(t, client)

	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	client.block = block
	client.entered = entered

	slowDone := make(chan error, 1)
	go func() {
		_, err := svc.List(context.Background(), "/", query.State{})
		slowDone <- err
	}()
	<-entered

	// Second request for the same route supersedes the first
	client.mu.Lock()
	client.block = nil
	client.mu.Unlock()
	_, err := svc.List(context.Background(), "/", query.State{})
	require.NoError(t, err)

	// Let the slow request resolve; it must come back stale
	close(block)
	assert.ErrorIs(t, <-slowDone, ErrStale)
}

func TestFetchMoreIsIdempotentWhileOutstanding(t *testing.T) {
	client := newFakeCatalog()
	client.pages["c1"] = api.MediaPage{Media: mediaItems(3, 4)}
	svc := newTestLibrary(t, client)

	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	client.block = block
	client.entered = entered

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.FetchMore(context.Background(), "/", query.State{}, "c1")
		firstDone <- err
	}()
	<-entered

	// Rapid re-triggers drop immediately instead of queueing
	_, err := svc.FetchMore(context.Background(), "/", query.State{}, "c1")
	assert.ErrorIs(t, err, ErrFetchInFlight)

	close(block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, client.requestCount(), "the dropped trigger must not reach the server")
}

func TestFetchMoreDroppedWhenRouteSuperseded(t *testing.T) {
	client := newFakeCatalog()
	client.pages[""] = api.MediaPage{Media: mediaItems(1)}
	client.pages["c1"] = api.MediaPage{Media: mediaItems(2)}
	svc := newTestLibrary(t, client)

	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	client.block = block
	client.entered = entered

	fetchDone := make(chan error, 1)
	go func() {
		_, err := svc.FetchMore(context.Background(), "/", query.State{}, "c1")
		fetchDone <- err
	}()
	<-entered

	// A fresh List for the route bumps the generation
	client.mu.Lock()
	client.block = nil
	client.mu.Unlock()
	_, err := svc.List(context.Background(), "/", query.State{})
	require.NoError(t, err)

	close(block)
	assert.ErrorIs(t, <-fetchDone, ErrStale)
}

func TestMediaByIDFallsBackToCache(t *testing.T) {
	client := newFakeCatalog()
	client.media[7] = domain.Media{ID: 7, Name: "Heat", Type: domain.MediaTypeMovie}
	svc := newTestLibrary(t, client)

	fresh, err := svc.MediaByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Heat", fresh.Name)

	// Server goes away; the cached detail still serves
	client.mu.Lock()
	client.err = domain.ErrServerOffline
	client.mu.Unlock()

	cached, err := svc.MediaByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Heat", cached.Name)
}

func TestViewStateRoundTrip(t *testing.T) {
	svc := newTestLibrary(t, newFakeCatalog())

	watched := false
	state := query.State{Watched: &watched, OrderBy: query.OrderRating}
	svc.SaveViewState("/", state)

	got := svc.ViewState("/")
	assert.Equal(t, state, got)

	// Unknown routes come back with the default
	assert.True(t, svc.ViewState("/series/9").IsZero())
}

func TestPosterUsesImageCache(t *testing.T) {
	client := newFakeCatalog()
	svc := newTestLibrary(t, client)

	first, err := svc.Poster(context.Background(), "http://img/poster.jpg", 64)
	require.NoError(t, err)
	assert.Equal(t, []byte("img:http://img/poster.jpg"), first)

	before := client.requestCount()
	second, err := svc.Poster(context.Background(), "http://img/poster.jpg", 64)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, before, client.requestCount(), "second read must hit the cache")
}
