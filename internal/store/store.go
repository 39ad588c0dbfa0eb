package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jharlow/reel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPages  = []byte("pages")  // media list pages keyed by route+cursor
	bucketMedia  = []byte("media")  // media details keyed by id
	bucketImages = []byte("images") // proxied poster bytes keyed by url+height
	bucketViews  = []byte("views")  // per-route encoded view state
)

// Page is a cached media list page
type Page struct {
	Media       []domain.Media `json:"media"`
	EndCursor   string         `json:"endCursor"`
	HasNextPage bool           `json:"hasNextPage"`
	FetchedAt   int64          `json:"fetchedAt"`
}

// Store caches server state on disk with bbolt so views render instantly
// on revisit while a refresh is in flight.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// New opens (or creates) the cache for one server. An empty baseCacheDir
// yields a memory-only store, which the tests use.
func New(baseCacheDir, serverURL string) (*Store, error) {
	if baseCacheDir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "reel.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPages, bucketMedia, bucketImages, bucketViews} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Typed accessors ===

// PutPage caches one list page for a route key
func (s *Store) PutPage(routeKey, cursor string, page Page) error {
	return s.set(bucketPages, pageKey(routeKey, cursor), page)
}

// GetPage returns the cached page for a route key, if any
func (s *Store) GetPage(routeKey, cursor string) (Page, bool) {
	var page Page
	ok := s.get(bucketPages, pageKey(routeKey, cursor), &page)
	return page, ok
}

// InvalidateRoute drops all cached pages for a route
func (s *Store) InvalidateRoute(routeKey string) {
	s.deletePrefix(bucketPages, routeKey+"|")
}

func pageKey(routeKey, cursor string) string {
	return routeKey + "|" + cursor
}

// PutMedia caches a media detail record
func (s *Store) PutMedia(media domain.Media) error {
	return s.set(bucketMedia, fmt.Sprintf("%d", media.ID), media)
}

// GetMedia returns a cached media detail record
func (s *Store) GetMedia(id int) (domain.Media, bool) {
	var media domain.Media
	ok := s.get(bucketMedia, fmt.Sprintf("%d", id), &media)
	return media, ok
}

// PutImage caches proxied image bytes
func (s *Store) PutImage(url string, height int, data []byte) error {
	return s.setRaw(bucketImages, imageKey(url, height), data)
}

// GetImage returns cached proxied image bytes
func (s *Store) GetImage(url string, height int) ([]byte, bool) {
	return s.getRaw(bucketImages, imageKey(url, height))
}

func imageKey(url string, height int) string {
	return fmt.Sprintf("%s@%d", url, height)
}

// PutViewState persists the encoded filter/sort state for a route
func (s *Store) PutViewState(routeKey, encoded string) error {
	return s.setRaw(bucketViews, routeKey, []byte(encoded))
}

// GetViewState returns the encoded view state for a route
func (s *Store) GetViewState(routeKey string) (string, bool) {
	data, ok := s.getRaw(bucketViews, routeKey)
	return string(data), ok
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest any) bool {
	data, ok := s.getRaw(bucket, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.setRaw(bucket, key, data)
}

func (s *Store) getRaw(bucket []byte, key string) ([]byte, bool) {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, true
}

func (s *Store) setRaw(bucket []byte, key string, data []byte) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *Store) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			c.Delete()
		}
		return nil
	})
}
