package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jharlow/reel/internal/api"
	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/query"
	"github.com/jharlow/reel/internal/store"
)

const defaultPageSize = 60

var (
	// ErrFetchInFlight means a fetch-more for this route is already
	// outstanding; the trigger is dropped, not queued
	ErrFetchInFlight = errors.New("page fetch already outstanding")

	// ErrStale means a newer request superseded this one while it was in
	// flight; its result must not be applied
	ErrStale = errors.New("superseded by a newer request")
)

// catalogClient abstracts the API surface the library service needs
// (consumer-defined interface)
type catalogClient interface {
	MediaList(ctx context.Context, filter api.MediaFilter, first int, after string) (api.MediaPage, error)
	MediaByID(ctx context.Context, id int) (domain.Media, error)
	Seasons(ctx context.Context, showID int) ([]int, error)
	FetchImage(ctx context.Context, original string, height int) ([]byte, error)
}

// LibraryService orchestrates catalog reads: cached first render, fresh
// fetch, and cursor-paginated fetch-more with stale-response guarding.
type LibraryService struct {
	client   catalogClient
	store    *store.Store
	logger   *slog.Logger
	pageSize int

	mu       sync.Mutex
	live     map[string]uint64 // route key -> generation of the live request
	fetching map[string]bool   // route key -> fetch-more outstanding
}

// NewLibraryService creates a new library service
func NewLibraryService(client catalogClient, st *store.Store, logger *slog.Logger) *LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryService{
		client:   client,
		store:    st,
		logger:   logger,
		pageSize: defaultPageSize,
		live:     map[string]uint64{},
		fetching: map[string]bool{},
	}
}

// CachedPage returns the cached first page for a route, for instant render
// while a refresh is in flight
func (s *LibraryService) CachedPage(routeKey string) (store.Page, bool) {
	return s.store.GetPage(routeKey, "")
}

// List fetches the first page for a route. Calling it again for the same
// route supersedes any slower request still in flight: the older response
// comes back as ErrStale and must be dropped, which guards against a slow
// fetch resolving after the user has already changed filters or navigated.
func (s *LibraryService) List(ctx context.Context, routeKey string, state query.State) (store.Page, error) {
	gen := s.begin(routeKey)

	result, err := s.client.MediaList(ctx, api.FilterFromState(state), s.pageSize, "")
	if err != nil {
		return store.Page{}, err
	}
	if !s.isLive(routeKey, gen) {
		return store.Page{}, ErrStale
	}

	page := store.Page{
		Media:       result.Media,
		EndCursor:   result.EndCursor,
		HasNextPage: result.HasNextPage,
		FetchedAt:   time.Now().Unix(),
	}
	s.store.InvalidateRoute(routeKey)
	if err := s.store.PutPage(routeKey, "", page); err != nil {
		s.logger.Warn("failed to cache page", "route", routeKey, "error", err)
	}
	return page, nil
}

// FetchMore fetches the page after the given cursor. It is idempotent
// against rapid repeated triggers: while a fetch for the route is
// outstanding, further calls return ErrFetchInFlight immediately.
func (s *LibraryService) FetchMore(ctx context.Context, routeKey string, state query.State, after string) (store.Page, error) {
	if !s.acquire(routeKey) {
		return store.Page{}, ErrFetchInFlight
	}
	defer s.release(routeKey)

	gen := s.currentGen(routeKey)

	result, err := s.client.MediaList(ctx, api.FilterFromState(state), s.pageSize, after)
	if err != nil {
		return store.Page{}, err
	}
	if !s.isLive(routeKey, gen) {
		return store.Page{}, ErrStale
	}

	page := store.Page{
		Media:       result.Media,
		EndCursor:   result.EndCursor,
		HasNextPage: result.HasNextPage,
		FetchedAt:   time.Now().Unix(),
	}
	if err := s.store.PutPage(routeKey, after, page); err != nil {
		s.logger.Warn("failed to cache page", "route", routeKey, "error", err)
	}
	return page, nil
}

// MediaByID fetches a media detail record, caching it for revisits
func (s *LibraryService) MediaByID(ctx context.Context, id int) (domain.Media, error) {
	media, err := s.client.MediaByID(ctx, id)
	if err != nil {
		if cached, ok := s.store.GetMedia(id); ok {
			s.logger.Warn("serving cached media after fetch error", "id", id, "error", err)
			return cached, nil
		}
		return domain.Media{}, err
	}
	if err := s.store.PutMedia(media); err != nil {
		s.logger.Warn("failed to cache media", "id", id, "error", err)
	}
	return media, nil
}

// Seasons returns the season numbers of a show
func (s *LibraryService) Seasons(ctx context.Context, showID int) ([]int, error) {
	return s.client.Seasons(ctx, showID)
}

// Poster fetches a proxied poster image, serving the disk cache first
func (s *LibraryService) Poster(ctx context.Context, url string, height int) ([]byte, error) {
	if data, ok := s.store.GetImage(url, height); ok {
		return data, nil
	}
	data, err := s.client.FetchImage(ctx, url, height)
	if err != nil {
		return nil, err
	}
	if err := s.store.PutImage(url, height, data); err != nil {
		s.logger.Warn("failed to cache image", "url", url, "error", err)
	}
	return data, nil
}

// SaveViewState persists the encoded filter/sort state for a route
func (s *LibraryService) SaveViewState(routeKey string, state query.State) {
	if err := s.store.PutViewState(routeKey, query.Encode(state)); err != nil {
		s.logger.Warn("failed to save view state", "route", routeKey, "error", err)
	}
}

// ViewState restores the persisted filter/sort state for a route
func (s *LibraryService) ViewState(routeKey string) query.State {
	encoded, ok := s.store.GetViewState(routeKey)
	if !ok {
		return query.State{}
	}
	return query.Decode(encoded)
}

// === request bookkeeping ===

func (s *LibraryService) begin(routeKey string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[routeKey]++
	return s.live[routeKey]
}

func (s *LibraryService) currentGen(routeKey string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[routeKey]
}

func (s *LibraryService) isLive(routeKey string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[routeKey] == gen
}

func (s *LibraryService) acquire(routeKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetching[routeKey] {
		return false
	}
	s.fetching[routeKey] = true
	return true
}

func (s *LibraryService) release(routeKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fetching, routeKey)
}
