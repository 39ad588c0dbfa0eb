package service

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/jharlow/reel/internal/api"
	"github.com/jharlow/reel/internal/domain"
)

const searchPageSize = 50

// SearchService runs the search overlay's queries: a debounced remote
// search plus instant fuzzy narrowing over whatever is already loaded.
type SearchService struct {
	client catalogClient
	logger *slog.Logger

	// Generation counter: each keystroke arms a new debounce; only the
	// newest token survives to fire a remote query. Armed on the update
	// loop, read from command goroutines.
	gen atomic.Uint64
}

// NewSearchService creates a new search service
func NewSearchService(client catalogClient, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{client: client, logger: logger}
}

// Arm registers fresh input and returns the debounce token for it
func (s *SearchService) Arm() uint64 {
	return s.gen.Add(1)
}

// Current reports whether the token still belongs to the newest input
func (s *SearchService) Current(token uint64) bool {
	return token == s.gen.Load()
}

// Search runs the remote search query for a debounce token. Results
// for superseded tokens come back as ErrStale and must be discarded.
func (s *SearchService) Search(ctx context.Context, token uint64, term string) ([]domain.Media, error) {
	if !s.Current(token) {
		return nil, ErrStale
	}
	page, err := s.client.MediaList(ctx, api.MediaFilter{Search: term}, searchPageSize, "")
	if err != nil {
		return nil, err
	}
	if !s.Current(token) {
		return nil, ErrStale
	}
	return page.Media, nil
}

// Narrow ranks already-loaded items against the term locally, so the
// overlay reacts instantly while the remote query is still in flight
func Narrow(items []domain.Media, term string) []domain.Media {
	if term == "" {
		return items
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.DisplayTitle()
	}

	ranks := fuzzy.RankFindNormalizedFold(term, titles)
	sort.Sort(ranks)

	narrowed := make([]domain.Media, 0, len(ranks))
	for _, rank := range ranks {
		narrowed = append(narrowed, items[rank.OriginalIndex])
	}
	return narrowed
}

// HighlightIndexes returns the rune positions of term's match within title,
// for highlighting in the overlay. Nil when the title doesn't match.
func HighlightIndexes(term, title string) []int {
	matches := sahilm.Find(term, []string{title})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}
