package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", log.NullLogger())
}

func TestInitState(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/init", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, `{"state":"create_first_user"}`)
	})

	state, err := client.InitState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, InitStateCreateFirstUser, state)
}

func TestInitStateUnknownValue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"state":"bogus"}`)
	})

	_, err := client.InitState(context.Background())
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alex", creds["username"])
		assert.Equal(t, "secret", creds["password"])

		fmt.Fprint(w, `{"token":"fresh-token"}`)
	})

	token, err := client.Login(context.Background(), "alex", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestLoginRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Login(context.Background(), "alex", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// SetToken runs on auth command goroutines while an init poll may be
// mid-request on another; the token swap must be safe under that overlap,
// and requests after the swap must carry the new token.
func TestSetTokenDuringRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"state":"ready"}`)
	})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := client.InitState(context.Background())
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			client.SetToken(fmt.Sprintf("token-%d", i))
		}
	}()
	wg.Wait()

	var got string
	swapped := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"state":"ready"}`)
	})
	swapped.SetToken("rotated")
	_, err := swapped.InitState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer rotated", got)
}

func TestMediaList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/graphql", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "mediaList")
		assert.EqualValues(t, 60, req.Variables["first"])
		assert.Equal(t, "cursor-1", req.Variables["after"])

		fmt.Fprint(w, `{"data":{"mediaList":{
			"edges":[
				{"node":{"id":1,"name":"Heat","mediaType":"MOVIE","defaultConnection":{"id":11,"key":"k","backendName":"local"}}},
				{"node":{"id":2,"name":"Pilot","mediaType":"EPISODE","seasonNumber":1,"episodeNumber":1,"parent":{"id":9,"name":"Mr. Robot"}}}
			],
			"pageInfo":{"endCursor":"cursor-2","hasNextPage":true}
		}}}`)
	})

	page, err := client.MediaList(context.Background(), MediaFilter{}, 60, "cursor-1")
	require.NoError(t, err)
	require.Len(t, page.Media, 2)
	assert.Equal(t, "cursor-2", page.EndCursor)
	assert.True(t, page.HasNextPage)

	movie := page.Media[0]
	assert.Equal(t, domain.MediaTypeMovie, movie.Type)
	require.NotNil(t, movie.DefaultConnection)
	assert.Equal(t, 11, movie.DefaultConnection.ID)

	episode := page.Media[1]
	assert.Equal(t, domain.MediaTypeEpisode, episode.Type)
	require.NotNil(t, episode.ParentID)
	assert.Equal(t, 9, *episode.ParentID)
	assert.Equal(t, "Mr. Robot", episode.ParentName)
}

func TestMediaListGraphQLError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"unauthorized"}]}`)
	})

	_, err := client.MediaList(context.Background(), MediaFilter{}, 60, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMediaByIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"media":null}}`)
	})

	_, err := client.MediaByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSignupSendsSetupCodeHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "123456", r.Header.Get("x-setup-code"))
		fmt.Fprint(w, `{"data":{"signup":{"id":1,"username":"alex","token":"signup-token"}}}`)
	})

	token, err := client.Signup(context.Background(), "alex", "secret", "123456")
	require.NoError(t, err)
	assert.Equal(t, "signup-token", token)
}

func TestServerOffline(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", log.NullLogger())

	_, err := client.InitState(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestImageProxyPath(t *testing.T) {
	path := ImageProxyPath("https://img.example.com/poster.jpg", 300)
	assert.Equal(t, "/api/image-proxy/https:%2F%2Fimg.example.com%2Fposter.jpg?height=300", path)
}

func TestStreamManifestURL(t *testing.T) {
	client := NewClient("http://server:8000/", "", log.NullLogger())
	assert.Equal(t, "http://server:8000/api/hls/stream/42/index.m3u8", client.StreamManifestURL(42))
}
