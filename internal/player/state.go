package player

import "github.com/jharlow/reel/internal/domain"

// State is the process-wide playback UI state. It is owned by the
// composition root and injected wherever it is read; the named setters are
// the only mutation path. All access happens on the UI event loop, so
// writes are synchronous and last-write-wins.
type State struct {
	media      *domain.Media
	fullscreen bool
	volume     float64
	muted      bool
	loading    bool
}

// NewState returns the default state: nothing playing, full volume
func NewState() *State {
	return &State{volume: 1}
}

// SetMedia replaces the current media. Starting playback while nothing was
// playing forces fullscreen; swapping one item for another keeps whatever
// fullscreen setting the user already chose. nil dismisses playback.
func (s *State) SetMedia(media *domain.Media) {
	if s.media == nil && media != nil {
		s.fullscreen = true
	}
	s.media = media
}

// SetFullscreen records the actual fullscreen state
func (s *State) SetFullscreen(fullscreen bool) {
	s.fullscreen = fullscreen
}

// SetVolume records the playback volume (0-1)
func (s *State) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	s.volume = volume
}

// SetMuted records the mute flag
func (s *State) SetMuted(muted bool) {
	s.muted = muted
}

// SetLoading records whether the stream is buffering or attaching
func (s *State) SetLoading(loading bool) {
	s.loading = loading
}

func (s *State) Media() *domain.Media { return s.media }
func (s *State) Fullscreen() bool     { return s.fullscreen }
func (s *State) Volume() float64      { return s.volume }
func (s *State) Muted() bool          { return s.muted }
func (s *State) Loading() bool        { return s.loading }
