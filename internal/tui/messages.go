package tui

import (
	"github.com/jharlow/reel/internal/api"
	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/player"
	"github.com/jharlow/reel/internal/store"
)

// Messages follow the one-message-per-async-result convention: every
// command resolves to exactly one of these, and Update is the only
// place state changes.

// pageLoadedMsg carries a freshly fetched (or cached) catalog page.
type pageLoadedMsg struct {
	Route  string
	Page   store.Page
	Append bool
}

// pageErrMsg reports a failed page fetch for a route.
type pageErrMsg struct {
	Route string
	Err   error
}

// mediaLoadedMsg carries a single media item for the detail view.
type mediaLoadedMsg struct {
	Media domain.Media
}

// seasonsLoadedMsg carries the season numbers of a show.
type seasonsLoadedMsg struct {
	ShowID  int
	Seasons []int
}

// posterLoadedMsg carries raw poster bytes for the detail view.
type posterLoadedMsg struct {
	MediaID int
	Data    []byte
}

// initStateMsg reports the server's onboarding state.
type initStateMsg struct {
	State api.InitState
	Err   error
}

// pollInitMsg asks the app to re-check the server's onboarding state.
type pollInitMsg struct{}

// authResultMsg reports the outcome of a login or signup attempt.
type authResultMsg struct {
	Err error
}

// searchResultsMsg carries remote search results for a debounce token.
type searchResultsMsg struct {
	Token   uint64
	Results []domain.Media
	Err     error
}

// searchDebounceMsg fires when the search input has been quiet long
// enough to hit the server.
type searchDebounceMsg struct {
	Token uint64
}

// playerEventMsg wraps one playback surface event.
type playerEventMsg struct {
	Event player.Event
}

// surfaceClosedMsg reports that the surface's event channel drained.
type surfaceClosedMsg struct{}

// clickTimeoutMsg fires when a click's double-click window expires.
type clickTimeoutMsg struct {
	Token uint64
}

// hideControlsMsg fires when the controls idle timeout expires.
type hideControlsMsg struct {
	Token uint64
}

// statusMsg shows a transient line in the status bar.
type statusMsg struct {
	Text  string
	IsErr bool
}

// clearStatusMsg clears the status bar.
type clearStatusMsg struct{}
