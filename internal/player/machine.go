package player

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jharlow/reel/internal/domain"
)

// Status names the playback states
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusError
)

// String returns a human-readable representation of the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	// DoubleClickWindow disambiguates single from double clicks
	DoubleClickWindow = 300 * time.Millisecond
	// ControlsTimeout hides the controls after inactivity
	ControlsTimeout = 3 * time.Second
	// mirrorInterval throttles high-frequency time updates
	mirrorInterval = 300 * time.Millisecond

	seekBackSeconds    = 10
	seekForwardSeconds = 30

	unavailableMessage = "This file isn't available right now"
)

// Machine is the playback state machine. It owns the one attached stream
// session, issues commands to the surface, and treats surface events as the
// only source of truth for displayed state. It is independent of any UI
// binding; the TUI feeds it keys, clicks, timer expirations, and events.
type Machine struct {
	state       *State
	surface     Surface
	manifestURL func(connectionID int) string
	logger      *slog.Logger

	status  Status
	message string

	playing    bool
	position   float64
	duration   float64
	buffered   []TimeRange
	lastMirror time.Time

	click        Pending
	controls     Pending
	showControls bool
}

// NewMachine creates a playback machine bound to a surface. manifestURL
// maps a connection id to its stream index URL.
func NewMachine(state *State, surface Surface, manifestURL func(int) string, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		state:       state,
		surface:     surface,
		manifestURL: manifestURL,
		logger:      logger,
	}
}

func (m *Machine) Status() Status        { return m.status }
func (m *Machine) Message() string       { return m.message }
func (m *Machine) Playing() bool         { return m.playing }
func (m *Machine) Position() float64     { return m.position }
func (m *Machine) Duration() float64     { return m.duration }
func (m *Machine) Buffered() []TimeRange { return m.buffered }
func (m *Machine) ControlsVisible() bool { return m.showControls }
func (m *Machine) State() *State         { return m.state }

// SetMedia starts playback of a new item, or dismisses playback when media
// is nil. Any previous session is torn down synchronously first so no
// orphaned stream keeps fetching segments.
func (m *Machine) SetMedia(media *domain.Media) {
	m.state.SetMedia(media)

	if err := m.surface.Stop(); err != nil {
		m.logger.Debug("surface stop failed", "error", err)
	}
	m.click.Cancel()
	m.controls.Cancel()
	m.playing = false
	m.position = 0
	m.duration = 0
	m.buffered = nil
	m.message = ""

	if media == nil {
		m.status = StatusIdle
		m.showControls = false
		m.state.SetLoading(false)
		return
	}

	if media.DefaultConnection == nil {
		// No session is constructed and no manifest is requested
		m.status = StatusError
		m.message = unavailableMessage
		m.state.SetLoading(false)
		m.logger.Info("media has no playable connection", "media", media.ID)
		return
	}

	m.status = StatusLoading
	m.showControls = true
	m.state.SetLoading(true)

	url := m.manifestURL(media.DefaultConnection.ID)
	m.logger.Info("attaching stream", "media", media.ID, "connection", media.DefaultConnection.ID)
	if err := m.surface.Load(url); err != nil {
		m.status = StatusError
		m.message = fmt.Sprintf("failed to attach stream: %v", err)
		m.state.SetLoading(false)
		return
	}

	// Push the persisted volume/mute/fullscreen onto the fresh session. The
	// surface echoes them back as events, which is what updates the store.
	m.command(m.surface.SetVolume(m.state.Volume()))
	m.command(m.surface.SetMuted(m.state.Muted()))
	m.command(m.surface.SetFullscreen(m.state.Fullscreen()))
}

// Dismiss closes the player, releasing the stream session
func (m *Machine) Dismiss() {
	m.SetMedia(nil)
}

// HandleEvent applies one surface event. now is the event-loop time, used
// to throttle high-frequency time updates.
func (m *Machine) HandleEvent(ev Event, now time.Time) {
	switch ev.Kind {
	case EventLoadStart, EventWaiting:
		m.state.SetLoading(true)
		if m.status == StatusPlaying {
			m.status = StatusLoading
		}

	case EventCanPlay, EventLoadedData:
		m.state.SetLoading(false)

	case EventPlaying:
		m.state.SetLoading(false)
		m.playing = true
		m.status = StatusPlaying

	case EventPlay:
		m.playing = true
		m.status = StatusPlaying

	case EventPause:
		m.playing = false
		if m.status == StatusPlaying || m.status == StatusLoading {
			m.status = StatusPaused
		}

	case EventTimeUpdate:
		if now.Sub(m.lastMirror) < mirrorInterval {
			return
		}
		m.lastMirror = now
		m.position = ev.Position
		if ev.Duration > 0 {
			m.duration = ev.Duration
		}
		m.buffered = ev.Buffered

	case EventVolumeChange:
		m.state.SetVolume(ev.Volume)
		m.state.SetMuted(ev.Muted)

	case EventFullscreenChange:
		// The runtime can exit fullscreen on its own (back gesture, window
		// manager); the stored flag always follows the actual state.
		m.state.SetFullscreen(ev.Fullscreen)

	case EventEnded:
		m.playing = false
		if m.status != StatusError && m.status != StatusIdle {
			m.status = StatusPaused
		}

	case EventFatalError:
		// Terminal for this playback attempt; the user must re-select the
		// media to retry.
		m.status = StatusError
		m.message = fmt.Sprintf("%s: %s", ev.ErrType, ev.Reason)
		m.state.SetLoading(false)
		m.logger.Error("fatal stream error", "type", ev.ErrType, "reason", ev.Reason)
		if err := m.surface.Stop(); err != nil {
			m.logger.Debug("surface stop failed", "error", err)
		}

	case EventError:
		m.logger.Warn("stream error", "type", ev.ErrType, "reason", ev.Reason)
	}
}

// TogglePlayPause issues play or pause to the surface. Displayed state only
// changes when the surface reports the result, so a rejected command cannot
// drift the UI.
func (m *Machine) TogglePlayPause() {
	if m.playing {
		m.command(m.surface.Pause())
	} else {
		m.command(m.surface.Play())
	}
}

// ToggleMute flips the mute flag
func (m *Machine) ToggleMute() {
	muted := !m.state.Muted()
	m.state.SetMuted(muted)
	m.command(m.surface.SetMuted(muted))
}

// SetVolume changes the volume. Raising the volume above zero while muted
// clears mute; setting it to zero alone never mutes.
func (m *Machine) SetVolume(volume float64) {
	m.state.SetVolume(volume)
	m.command(m.surface.SetVolume(volume))
	if volume > 0 && m.state.Muted() {
		m.state.SetMuted(false)
		m.command(m.surface.SetMuted(false))
	}
}

// ToggleFullscreen enters or exits fullscreen. force always exits.
func (m *Machine) ToggleFullscreen(force bool) {
	if m.state.Fullscreen() || force {
		m.command(m.surface.SetFullscreen(false))
		m.state.SetFullscreen(false)
	} else {
		m.command(m.surface.SetFullscreen(true))
		m.state.SetFullscreen(true)
	}
}

// HandleKey applies a playback keyboard shortcut. It reports whether the
// key was handled so unhandled keys can fall through to the app.
func (m *Machine) HandleKey(key string) bool {
	if m.status == StatusIdle {
		return false
	}

	switch key {
	case "left":
		m.command(m.surface.SeekBy(-seekBackSeconds))
	case "right":
		m.command(m.surface.SeekBy(seekForwardSeconds))
	case "f":
		m.ToggleFullscreen(false)
	case "m":
		m.ToggleMute()
	case " ", "space":
		m.TogglePlayPause()
	case "esc":
		m.ToggleFullscreen(true)
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		seekTo := float64(key[0]-'0') / 10 * m.duration
		if seekTo != 0 {
			m.command(m.surface.SeekTo(seekTo))
		}
	default:
		return false
	}
	return true
}

// Click registers a pointer click. The first click arms a deferred
// play/pause toggle and returns its token; the caller schedules
// ResolveClick(token) after DoubleClickWindow. A second click inside the
// window cancels the pending toggle and toggles fullscreen instead.
func (m *Machine) Click() (token uint64, double bool) {
	if m.click.Armed() {
		m.click.Cancel()
		m.ToggleFullscreen(false)
		return 0, true
	}
	return m.click.Arm(), false
}

// ResolveClick fires the armed single-click action if token is still live
func (m *Machine) ResolveClick(token uint64) {
	if m.click.Claim(token) {
		m.TogglePlayPause()
	}
}

// TouchControls shows the controls and returns a token for the auto-hide
// timer the caller schedules after ControlsTimeout
func (m *Machine) TouchControls() uint64 {
	m.showControls = true
	return m.controls.Arm()
}

// ResolveHideControls hides the controls if no newer activity re-armed them
func (m *Machine) ResolveHideControls(token uint64) {
	if m.controls.Claim(token) {
		m.showControls = false
	}
}

// FinishesAt formats the wall-clock time playback will end, e.g. "6:33 PM".
// Empty until position and duration are known.
func (m *Machine) FinishesAt(now time.Time) string {
	if m.duration == 0 || m.position == 0 {
		return ""
	}
	remaining := time.Duration((m.duration - m.position) * float64(time.Second))
	return now.Add(remaining).Format("3:04 PM")
}

// command logs a rejected surface command. State is never updated here;
// the surface's events carry the real outcome.
func (m *Machine) command(err error) {
	if err != nil {
		m.logger.Warn("surface command rejected", "error", err)
	}
}
