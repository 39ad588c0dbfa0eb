package player

// EventKind identifies a playback surface event
type EventKind int

const (
	// EventLoadStart fires when the surface begins loading a stream
	EventLoadStart EventKind = iota
	// EventLoadedData fires when the first media data is decoded
	EventLoadedData
	// EventCanPlay fires when enough data is buffered to begin
	EventCanPlay
	// EventWaiting fires when playback stalls on an empty buffer
	EventWaiting
	// EventPlaying fires when playback (re)starts after load or stall
	EventPlaying
	// EventPlay fires when the surface leaves the paused state
	EventPlay
	// EventPause fires when the surface enters the paused state
	EventPause
	// EventTimeUpdate carries position/duration/buffered progress
	EventTimeUpdate
	// EventVolumeChange carries the surface's actual volume and mute flag
	EventVolumeChange
	// EventFullscreenChange carries the surface's actual fullscreen state;
	// it also fires when the runtime exits fullscreen on its own
	EventFullscreenChange
	// EventEnded fires when the stream plays to completion
	EventEnded
	// EventFatalError terminates the current playback attempt
	EventFatalError
	// EventError is a non-fatal error, logged and otherwise ignored
	EventError
)

// TimeRange is one buffered span of the stream, in seconds
type TimeRange struct {
	Start float64
	End   float64
}

// Event is a single observation from the playback surface. Commands sent
// to the surface never update displayed state directly; these events are
// the source of truth.
type Event struct {
	Kind EventKind

	Position float64 // EventTimeUpdate
	Duration float64 // EventTimeUpdate
	Buffered []TimeRange

	Volume float64 // EventVolumeChange
	Muted  bool    // EventVolumeChange

	Fullscreen bool // EventFullscreenChange

	ErrType string // EventFatalError / EventError
	Reason  string
}

// Surface is a video output that plays one stream at a time. The machine
// issues commands and observes events; implementations bridge to the actual
// runtime (mpv over JSON IPC in production, a fake in tests).
type Surface interface {
	// Load attaches a new stream, tearing down any previous one first
	Load(url string) error
	// Stop detaches the current stream and idles the surface
	Stop() error

	Play() error
	Pause() error
	SetVolume(volume float64) error
	SetMuted(muted bool) error
	SetFullscreen(fullscreen bool) error
	// SeekTo jumps to an absolute position in seconds
	SeekTo(seconds float64) error
	// SeekBy jumps relative to the current position
	SeekBy(seconds float64) error

	// Events delivers surface observations until Close
	Events() <-chan Event

	Close() error
}
