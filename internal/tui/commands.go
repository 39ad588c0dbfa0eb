package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jharlow/reel/internal/player"
	"github.com/jharlow/reel/internal/query"
	"github.com/jharlow/reel/internal/service"
)

// Command factories for async operations

const searchDebounce = 500 * time.Millisecond

// loadPageCmd fetches the first page for a route.
func loadPageCmd(svc *service.LibraryService, route string, state query.State) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		page, err := svc.List(ctx, route, state)
		if err != nil {
			if errors.Is(err, service.ErrStale) {
				return nil
			}
			return pageErrMsg{Route: route, Err: err}
		}
		return pageLoadedMsg{Route: route, Page: page}
	}
}

// fetchMoreCmd appends the next page for a route. In-flight and stale
// results resolve to nothing; the list keeps whatever it has.
func fetchMoreCmd(svc *service.LibraryService, route string, state query.State, cursor string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		page, err := svc.FetchMore(ctx, route, state, cursor)
		if err != nil {
			if errors.Is(err, service.ErrFetchInFlight) || errors.Is(err, service.ErrStale) {
				return nil
			}
			return pageErrMsg{Route: route, Err: err}
		}
		return pageLoadedMsg{Route: route, Page: page, Append: true}
	}
}

// loadMediaCmd fetches a single item for the detail view.
func loadMediaCmd(svc *service.LibraryService, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		media, err := svc.MediaByID(ctx, id)
		if err != nil {
			return statusMsg{Text: err.Error(), IsErr: true}
		}
		return mediaLoadedMsg{Media: media}
	}
}

// loadSeasonsCmd fetches the season numbers of a show.
func loadSeasonsCmd(svc *service.LibraryService, showID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		seasons, err := svc.Seasons(ctx, showID)
		if err != nil {
			return statusMsg{Text: err.Error(), IsErr: true}
		}
		return seasonsLoadedMsg{ShowID: showID, Seasons: seasons}
	}
}

// loadPosterCmd fetches scaled poster bytes for the detail view.
func loadPosterCmd(svc *service.LibraryService, mediaID int, url string, height int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data, err := svc.Poster(ctx, url, height)
		if err != nil {
			// Posters are decoration; failures stay quiet.
			return nil
		}
		return posterLoadedMsg{MediaID: mediaID, Data: data}
	}
}

// checkInitCmd asks the server which onboarding state it is in.
func checkInitCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		state, err := svc.InitState(ctx)
		return initStateMsg{State: state, Err: err}
	}
}

// pollInitCmd schedules the next onboarding state check.
func pollInitCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollInitMsg{}
	})
}

// loginCmd attempts a credential login.
func loginCmd(svc *service.SessionService, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return authResultMsg{Err: svc.Login(ctx, username, password)}
	}
}

// signupCmd attempts first-user signup with a setup code.
func signupCmd(svc *service.SessionService, code, username, password, confirm string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return authResultMsg{Err: svc.Signup(ctx, username, password, confirm, code)}
	}
}

// searchRemoteCmd runs a server-side search for a debounce token.
func searchRemoteCmd(svc *service.SearchService, token uint64, term string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		results, err := svc.Search(ctx, token, term)
		if errors.Is(err, service.ErrStale) {
			return nil
		}
		return searchResultsMsg{Token: token, Results: results, Err: err}
	}
}

// debounceCmd fires a search debounce token after the quiet period.
func debounceCmd(token uint64) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{Token: token}
	})
}

// listenSurfaceCmd waits for the next playback surface event. Update
// re-issues it after handling each event.
func listenSurfaceCmd(events <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return surfaceClosedMsg{}
		}
		return playerEventMsg{Event: ev}
	}
}

// clickTimeoutCmd fires when a click's double-click window closes.
func clickTimeoutCmd(token uint64) tea.Cmd {
	return tea.Tick(player.DoubleClickWindow, func(time.Time) tea.Msg {
		return clickTimeoutMsg{Token: token}
	})
}

// hideControlsCmd fires when the controls idle timeout elapses.
func hideControlsCmd(token uint64) tea.Cmd {
	return tea.Tick(player.ControlsTimeout, func(time.Time) tea.Msg {
		return hideControlsMsg{Token: token}
	})
}

// clearStatusCmd clears the status line after a short delay.
func clearStatusCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
