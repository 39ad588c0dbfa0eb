package player

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/log"
)

// fakeSurface records the commands the machine issues.
type fakeSurface struct {
	calls  []string
	events chan Event
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{events: make(chan Event, 16)}
}

func (f *fakeSurface) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSurface) Load(url string) error { f.record("load %s", url); return nil }
func (f *fakeSurface) Stop() error           { f.record("stop"); return nil }
func (f *fakeSurface) Play() error           { f.record("play"); return nil }
func (f *fakeSurface) Pause() error          { f.record("pause"); return nil }
func (f *fakeSurface) SetVolume(v float64) error {
	f.record("volume %.2f", v)
	return nil
}
func (f *fakeSurface) SetMuted(m bool) error       { f.record("muted %v", m); return nil }
func (f *fakeSurface) SetFullscreen(fs bool) error { f.record("fullscreen %v", fs); return nil }
func (f *fakeSurface) SeekTo(s float64) error      { f.record("seekTo %.1f", s); return nil }
func (f *fakeSurface) SeekBy(s float64) error      { f.record("seekBy %.1f", s); return nil }
func (f *fakeSurface) Events() <-chan Event        { return f.events }
func (f *fakeSurface) Close() error                { return nil }

func (f *fakeSurface) has(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func newTestMachine() (*Machine, *fakeSurface) {
	surface := newFakeSurface()
	manifest := func(id int) string { return fmt.Sprintf("http://server/api/hls/stream/%d/index.m3u8", id) }
	m := NewMachine(NewState(), surface, manifest, log.NullLogger())
	return m, surface
}

func playableMedia(id int) *domain.Media {
	return &domain.Media{
		ID:                id,
		Name:              "Item",
		Type:              domain.MediaTypeMovie,
		DefaultConnection: &domain.Connection{ID: id * 10},
	}
}

func TestSetMediaLoadsManifest(t *testing.T) {
	m, surface := newTestMachine()

	m.SetMedia(playableMedia(3))

	assert.Equal(t, StatusLoading, m.Status())
	assert.True(t, surface.has("load http://server/api/hls/stream/30/index.m3u8"))
	// Persisted volume/mute/fullscreen are pushed onto the new session
	assert.True(t, surface.has("volume 1.00"))
	assert.True(t, surface.has("muted false"))
	assert.True(t, surface.has("fullscreen true"))
}

func TestSetMediaWithoutConnection(t *testing.T) {
	m, surface := newTestMachine()

	m.SetMedia(&domain.Media{ID: 5, Type: domain.MediaTypeMovie})

	assert.Equal(t, StatusError, m.Status())
	assert.Equal(t, "This file isn't available right now", m.Message())
	// No stream session may be constructed
	for _, call := range surface.calls {
		assert.NotContains(t, call, "load")
	}
}

func TestDismissReleasesSession(t *testing.T) {
	m, surface := newTestMachine()
	m.SetMedia(playableMedia(1))

	m.Dismiss()

	assert.Equal(t, StatusIdle, m.Status())
	assert.Nil(t, m.State().Media())
	assert.True(t, surface.has("stop"))
}

func TestEventsDriveDisplayedState(t *testing.T) {
	m, _ := newTestMachine()
	m.SetMedia(playableMedia(1))
	now := time.Now()

	m.HandleEvent(Event{Kind: EventPlaying}, now)
	assert.Equal(t, StatusPlaying, m.Status())
	assert.True(t, m.Playing())

	m.HandleEvent(Event{Kind: EventPause}, now)
	assert.Equal(t, StatusPaused, m.Status())
	assert.False(t, m.Playing())
}

func TestTogglePlayPauseNeverMutatesState(t *testing.T) {
	m, surface := newTestMachine()
	m.SetMedia(playableMedia(1))

	// Not playing: issues play, but displayed state waits for the event
	m.TogglePlayPause()
	assert.True(t, surface.has("play"))
	assert.False(t, m.Playing())

	m.HandleEvent(Event{Kind: EventPlay}, time.Now())
	assert.True(t, m.Playing())

	m.TogglePlayPause()
	assert.True(t, surface.has("pause"))
	assert.True(t, m.Playing(), "pause only lands when the surface reports it")
}

func TestTimeUpdateThrottle(t *testing.T) {
	m, _ := newTestMachine()
	m.SetMedia(playableMedia(1))
	base := time.Now()

	m.HandleEvent(Event{Kind: EventTimeUpdate, Position: 10, Duration: 100}, base)
	assert.Equal(t, 10.0, m.Position())

	// 100ms later: inside the throttle window, dropped
	m.HandleEvent(Event{Kind: EventTimeUpdate, Position: 10.1, Duration: 100}, base.Add(100*time.Millisecond))
	assert.Equal(t, 10.0, m.Position())

	// 400ms later: applied
	m.HandleEvent(Event{Kind: EventTimeUpdate, Position: 10.4, Duration: 100}, base.Add(400*time.Millisecond))
	assert.Equal(t, 10.4, m.Position())
}

func TestVolumeAboveZeroClearsMute(t *testing.T) {
	m, surface := newTestMachine()
	m.SetMedia(playableMedia(1))

	m.ToggleMute()
	require.True(t, m.State().Muted())

	m.SetVolume(0.5)
	assert.False(t, m.State().Muted())
	assert.True(t, surface.has("muted false"))
}

func TestVolumeZeroDoesNotMute(t *testing.T) {
	m, _ := newTestMachine()
	m.SetMedia(playableMedia(1))

	m.SetVolume(0)
	assert.False(t, m.State().Muted())
}

func TestDoubleClickTogglesFullscreenNotPlayback(t *testing.T) {
	m, surface := newTestMachine()
	m.SetMedia(playableMedia(1))
	m.HandleEvent(Event{Kind: EventPlaying}, time.Now())
	require.True(t, m.State().Fullscreen())

	// First click arms a deferred toggle
	token, double := m.Click()
	require.False(t, double)

	// Second click inside the window cancels it and exits fullscreen
	_, double = m.Click()
	assert.True(t, double)
	assert.False(t, m.State().Fullscreen())

	// The expired first-click timer must not fire play/pause now
	playsBefore := countCalls(surface, "pause") + countCalls(surface, "play")
	m.ResolveClick(token)
	playsAfter := countCalls(surface, "pause") + countCalls(surface, "play")
	assert.Equal(t, playsBefore, playsAfter)
}

func TestSingleClickResolvesToPlayPause(t *testing.T) {
	m, surface := newTestMachine()
	m.SetMedia(playableMedia(1))
	m.HandleEvent(Event{Kind: EventPlaying}, time.Now())

	token, double := m.Click()
	require.False(t, double)

	m.ResolveClick(token)
	assert.True(t, surface.has("pause"))
}

func countCalls(f *fakeSurface, call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func TestControlsAutoHide(t *testing.T) {
	m, _ := newTestMachine()
	m.SetMedia(playableMedia(1))

	first := m.TouchControls()
	second := m.TouchControls()
	require.True(t, m.ControlsVisible())

	// The superseded timer must not hide controls
	m.ResolveHideControls(first)
	assert.True(t, m.ControlsVisible())

	m.ResolveHideControls(second)
	assert.False(t, m.ControlsVisible())
}

func TestDigitKeysSeekByTenths(t *testing.T) {
	m, surface := newTestMachine()
	m.SetMedia(playableMedia(1))
	m.HandleEvent(Event{Kind: EventTimeUpdate, Position: 5, Duration: 200}, time.Now())

	assert.True(t, m.HandleKey("5"))
	assert.True(t, surface.has("seekTo 100.0"))

	// Digit zero computes a zero target and never seeks
	before := len(surface.calls)
	assert.True(t, m.HandleKey("0"))
	assert.Equal(t, before, len(surface.calls))
}

func TestSeekKeys(t *testing.T) {
	m, surface := newTestMachine()
	m.SetMedia(playableMedia(1))

	assert.True(t, m.HandleKey("left"))
	assert.True(t, surface.has("seekBy -10.0"))

	assert.True(t, m.HandleKey("right"))
	assert.True(t, surface.has("seekBy 30.0"))
}

func TestKeysIgnoredWhenIdle(t *testing.T) {
	m, _ := newTestMachine()
	assert.False(t, m.HandleKey(" "))
	assert.False(t, m.HandleKey("f"))
}

func TestFatalErrorIsTerminal(t *testing.T) {
	m, surface := newTestMachine()
	m.SetMedia(playableMedia(1))
	m.HandleEvent(Event{Kind: EventPlaying}, time.Now())

	m.HandleEvent(Event{Kind: EventFatalError, ErrType: "networkError", Reason: "manifest fetch failed"}, time.Now())

	assert.Equal(t, StatusError, m.Status())
	assert.Contains(t, m.Message(), "manifest fetch failed")
	assert.True(t, surface.has("stop"))
}

func TestFullscreenFollowsSurface(t *testing.T) {
	m, _ := newTestMachine()
	m.SetMedia(playableMedia(1))
	require.True(t, m.State().Fullscreen())

	// The runtime exited fullscreen on its own
	m.HandleEvent(Event{Kind: EventFullscreenChange, Fullscreen: false}, time.Now())
	assert.False(t, m.State().Fullscreen())
}

func TestFinishesAt(t *testing.T) {
	m, _ := newTestMachine()
	m.SetMedia(playableMedia(1))

	assert.Empty(t, m.FinishesAt(time.Now()))

	now := time.Date(2026, 1, 10, 15, 0, 0, 0, time.Local)
	m.HandleEvent(Event{Kind: EventTimeUpdate, Position: 60, Duration: 300}, now)
	assert.Equal(t, "3:04 PM", m.FinishesAt(now))
}
