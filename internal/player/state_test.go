package player

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jharlow/reel/internal/domain"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()

	assert.Nil(t, s.Media())
	assert.False(t, s.Fullscreen())
	assert.Equal(t, 1.0, s.Volume())
	assert.False(t, s.Muted())
}

func TestSetMediaForcesFullscreenFromIdle(t *testing.T) {
	s := NewState()

	s.SetMedia(&domain.Media{ID: 1})
	assert.True(t, s.Fullscreen(), "starting playback from idle must open fullscreen")
}

func TestSetMediaKeepsModeOnReplacement(t *testing.T) {
	s := NewState()
	s.SetMedia(&domain.Media{ID: 1})
	s.SetFullscreen(false)

	// Swapping media mid-play keeps the user's windowed mode
	s.SetMedia(&domain.Media{ID: 2})
	assert.False(t, s.Fullscreen())
}

func TestSetMediaNilDoesNotForceFullscreen(t *testing.T) {
	s := NewState()
	s.SetMedia(nil)
	assert.False(t, s.Fullscreen())
}

func TestSetVolumeClamps(t *testing.T) {
	s := NewState()

	s.SetVolume(1.7)
	assert.Equal(t, 1.0, s.Volume())

	s.SetVolume(-0.2)
	assert.Equal(t, 0.0, s.Volume())
}
