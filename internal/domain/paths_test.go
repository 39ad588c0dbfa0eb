package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestPathForMediaShow(t *testing.T) {
	path, err := PathForMedia(Media{ID: 42, Type: MediaTypeShow})
	require.NoError(t, err)
	assert.Equal(t, "/series/42", path)
}

func TestPathForMediaMovie(t *testing.T) {
	path, err := PathForMedia(Media{ID: 7, Type: MediaTypeMovie})
	require.NoError(t, err)
	assert.Equal(t, "/movie/7", path)
}

func TestPathForMediaEpisode(t *testing.T) {
	path, err := PathForMedia(Media{
		ID:           100,
		Type:         MediaTypeEpisode,
		ParentID:     intPtr(42),
		SeasonNumber: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "/series/42?season=3", path)
}

func TestPathForMediaEpisodeWithoutSeason(t *testing.T) {
	path, err := PathForMedia(Media{
		ID:       100,
		Type:     MediaTypeEpisode,
		ParentID: intPtr(42),
	})
	require.NoError(t, err)
	assert.Equal(t, "/series/42", path)
}

func TestPathForMediaEpisodeWithoutParent(t *testing.T) {
	_, err := PathForMedia(Media{ID: 100, Type: MediaTypeEpisode})
	assert.Error(t, err)
}

func TestPathForMediaUnknownType(t *testing.T) {
	_, err := PathForMedia(Media{ID: 1, Type: MediaType("BOGUS")})
	assert.Error(t, err)
}

func TestEpisodeCode(t *testing.T) {
	m := Media{Type: MediaTypeEpisode, SeasonNumber: intPtr(2), EpisodeNumber: intPtr(5)}
	assert.Equal(t, "S02E05", m.EpisodeCode())

	assert.Empty(t, Media{Type: MediaTypeMovie}.EpisodeCode())
	assert.Empty(t, Media{Type: MediaTypeEpisode}.EpisodeCode())
}

func TestDisplayTitle(t *testing.T) {
	ep := Media{Type: MediaTypeEpisode, Name: "Pilot", ParentName: "Mr. Robot"}
	assert.Contains(t, ep.DisplayTitle(), "Mr. Robot")
	assert.Contains(t, ep.DisplayTitle(), "Pilot")

	movie := Media{Type: MediaTypeMovie, Name: "Heat"}
	assert.Equal(t, "Heat", movie.DisplayTitle())
}

func TestPlayable(t *testing.T) {
	assert.False(t, Media{Type: MediaTypeMovie}.Playable())
	assert.True(t, Media{
		Type:              MediaTypeMovie,
		DefaultConnection: &Connection{ID: 1},
	}.Playable())
}

func TestWatchProgress(t *testing.T) {
	assert.Zero(t, Media{}.WatchProgress())

	m := Media{WatchState: &Watch{Percentage: 50}}
	assert.InDelta(t, 50.0, m.WatchProgress(), 0.001)
}
