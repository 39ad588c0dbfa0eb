package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/reel/internal/domain"
)

func TestEncodeDefaultStateIsEmpty(t *testing.T) {
	assert.Empty(t, Encode(State{}))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	watched := true
	s := State{
		MediaTypes: []domain.MediaType{domain.MediaTypeMovie},
		Watched:    &watched,
		OrderBy:    OrderRating,
		Seasons:    []int{1, 3},
		Search:     "robot",
	}

	raw := Encode(s)
	require.NotEmpty(t, raw)

	decoded := Decode(raw)
	assert.Equal(t, s, decoded)
}

func TestDecodeGarbageYieldsDefault(t *testing.T) {
	assert.Equal(t, State{}, Decode("state=!!!not-base64!!!"))
	assert.Equal(t, State{}, Decode("state=aGVsbG8")) // valid base64, not JSON
	assert.Equal(t, State{}, Decode("%zz"))
	assert.Equal(t, State{}, Decode(""))
}

func TestToggleMediaTypeIsInvolution(t *testing.T) {
	var s State
	s.ToggleMediaType(domain.MediaTypeMovie)
	assert.Equal(t, []domain.MediaType{domain.MediaTypeMovie}, s.MediaTypes)

	s.ToggleMediaType(domain.MediaTypeShow)
	assert.Len(t, s.MediaTypes, 2)

	s.ToggleMediaType(domain.MediaTypeMovie)
	assert.Equal(t, []domain.MediaType{domain.MediaTypeShow}, s.MediaTypes)
}

func TestToggleWatchedExclusive(t *testing.T) {
	var s State

	// Select watched
	s.ToggleWatched(true)
	require.NotNil(t, s.Watched)
	assert.True(t, *s.Watched)

	// Switch to unwatched, not clear
	s.ToggleWatched(false)
	require.NotNil(t, s.Watched)
	assert.False(t, *s.Watched)

	// Re-select clears
	s.ToggleWatched(false)
	assert.Nil(t, s.Watched)
}

func TestSeasonSelection(t *testing.T) {
	var s State

	s.SelectSeason(2)
	assert.Equal(t, []int{2}, s.Seasons)

	// Plain select replaces
	s.SelectSeason(4)
	assert.Equal(t, []int{4}, s.Seasons)

	// Toggle adds alongside
	s.ToggleSeason(1)
	assert.ElementsMatch(t, []int{4, 1}, s.Seasons)

	// Toggle removes when present
	s.ToggleSeason(4)
	assert.Equal(t, []int{1}, s.Seasons)
}

func TestIsZero(t *testing.T) {
	assert.True(t, State{}.IsZero())

	id := 9
	assert.False(t, State{ParentID: &id}.IsZero())
	assert.False(t, State{Search: "x"}.IsZero())
}
