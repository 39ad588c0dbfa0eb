package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jharlow/reel/internal/api"
	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/player"
	"github.com/jharlow/reel/internal/query"
	"github.com/jharlow/reel/internal/service"
	"github.com/jharlow/reel/internal/tui/components"
)

type screen int

const (
	screenSetup screen = iota
	screenBrowse
	screenDetail
)

// navEntry is one step of the navigation history
type navEntry struct {
	screen  screen
	path    string
	filters query.State
	detail  domain.Media
}

// Model is the top-level application model
type Model struct {
	keys   KeyMap
	width  int
	height int
	ready  bool

	library *service.LibraryService
	search  *service.SearchService
	session *service.SessionService

	machine *player.Machine
	events  <-chan player.Event

	screen  screen
	path    string
	filters query.State
	back    []navEntry

	setup      components.SetupForm
	list       components.MediaList
	filterBar  components.FilterBar
	overlay    components.SearchOverlay
	playerView components.PlayerView

	detail  domain.Media
	seasons []int
	// seasonIdx is the highlighted chip, an index into seasons
	seasonIdx int
	poster    string

	status    string
	statusErr bool
}

// NewModel creates the application model. startView, when non-empty, is
// an encoded view state applied to the root catalog on startup.
func NewModel(
	library *service.LibraryService,
	search *service.SearchService,
	session *service.SessionService,
	machine *player.Machine,
	events <-chan player.Event,
	startView string,
) Model {
	m := Model{
		keys:       DefaultKeyMap(),
		library:    library,
		search:     search,
		session:    session,
		machine:    machine,
		events:     events,
		screen:     screenSetup,
		path:       "/",
		setup:      components.NewSetupForm(),
		list:       components.NewMediaList(),
		filterBar:  components.NewFilterBar(),
		overlay:    components.NewSearchOverlay(),
		playerView: components.NewPlayerView(),
	}
	if startView != "" {
		m.filters = query.Decode(startView)
	}
	return m
}

// Init starts the onboarding check and the surface event pump
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		checkInitCmd(m.session),
		listenSurfaceCmd(m.events),
	)
}

// routeKey identifies the current path+filters combination for caching
// and request-generation bookkeeping.
func (m Model) routeKey() string {
	return routeKeyFor(m.path, m.filters)
}

func routeKeyFor(path string, s query.State) string {
	if enc := query.Encode(s); enc != "" {
		return path + "?" + enc
	}
	return path
}

// Update routes messages to the active screen
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case playerEventMsg:
		m.machine.HandleEvent(msg.Event, time.Now())
		return m, listenSurfaceCmd(m.events)

	case surfaceClosedMsg:
		return m, nil

	case initStateMsg:
		return m.handleInitState(msg)

	case pollInitMsg:
		if m.screen == screenSetup && !m.setup.Busy() {
			return m, checkInitCmd(m.session)
		}
		return m, nil

	case authResultMsg:
		return m.handleAuthResult(msg)

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case pageErrMsg:
		if msg.Route == m.routeKey() {
			m.list.SetLoading(false)
			return m.showError(msg.Err)
		}
		return m, nil

	case mediaLoadedMsg:
		return m.handleMediaLoaded(msg)

	case seasonsLoadedMsg:
		if m.screen == screenDetail && msg.ShowID == m.detail.ID {
			m.seasons = msg.Seasons
			m.clampSeasonIdx()
		}
		return m, nil

	case posterLoadedMsg:
		if m.screen == screenDetail && msg.MediaID == m.detail.ID {
			m.poster = components.Mosaic(msg.Data, 18, 11)
		}
		return m, nil

	case searchDebounceMsg:
		if m.overlay.IsVisible() && m.search.Current(msg.Token) && m.overlay.Query() != "" {
			return m, searchRemoteCmd(m.search, msg.Token, m.overlay.Query())
		}
		return m, nil

	case searchResultsMsg:
		if m.overlay.IsVisible() && m.search.Current(msg.Token) {
			if msg.Err != nil {
				return m.showError(msg.Err)
			}
			m.overlay.SetResults(msg.Results)
		}
		return m, nil

	case clickTimeoutMsg:
		m.machine.ResolveClick(msg.Token)
		return m, nil

	case hideControlsMsg:
		m.machine.ResolveHideControls(msg.Token)
		return m, nil

	case statusMsg:
		m.status = msg.Text
		m.statusErr = msg.IsErr
		return m, clearStatusCmd()

	case clearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	m.list.SetSize(msg.Width-2, msg.Height-chromeRows(m))
	m.filterBar.SetSize(msg.Width)
	m.overlay.SetSize(msg.Width, msg.Height)
	m.playerView.SetSize(msg.Width, msg.Height)
	m.setup.SetSize(msg.Width)
	return m, nil
}

func (m Model) handleInitState(msg initStateMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenSetup {
		return m, nil
	}

	if msg.Err != nil {
		m.setup.SetMode(components.SetupOffline)
		return m, pollInitCmd(service.PollLogin)
	}

	switch msg.State {
	case api.InitStateReady:
		return m.enterBrowse()

	case api.InitStateCreateFirstUser:
		// Don't yank the user out of a half-filled form on a poll tick
		if m.setup.Mode() != components.SetupCode && m.setup.Mode() != components.SetupAccount {
			m.setup.SetMode(components.SetupCode)
		}
		return m, pollInitCmd(m.session.PollInterval(msg.State))

	default:
		if m.setup.Mode() != components.SetupLogin {
			m.setup.SetMode(components.SetupLogin)
		}
		return m, pollInitCmd(m.session.PollInterval(msg.State))
	}
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.setup.SetError(presentAuthError(msg.Err))
		return m, nil
	}
	return m.enterBrowse()
}

func presentAuthError(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "Wrong username or password"
	case errors.Is(err, domain.ErrServerOffline):
		return "Server unreachable"
	default:
		return err.Error()
	}
}

func (m Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Route != m.routeKey() {
		return m, nil
	}
	if msg.Append {
		m.list.AppendPage(msg.Page.Media, msg.Page.EndCursor, msg.Page.HasNextPage)
	} else {
		m.list.SetPage(msg.Page.Media, msg.Page.EndCursor, msg.Page.HasNextPage)
	}
	return m, nil
}

func (m Model) handleMediaLoaded(msg mediaLoadedMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenDetail || msg.Media.ID != m.detail.ID {
		return m, nil
	}
	m.detail = msg.Media
	if len(msg.Media.Seasons) > 0 {
		m.seasons = msg.Media.Seasons
		m.clampSeasonIdx()
	}
	if msg.Media.PosterURL != "" {
		return m, loadPosterCmd(m.library, msg.Media.ID, msg.Media.PosterURL, components.PosterHeight)
	}
	return m, nil
}

func (m *Model) clampSeasonIdx() {
	if m.seasonIdx >= len(m.seasons) {
		m.seasonIdx = len(m.seasons) - 1
	}
	if m.seasonIdx < 0 {
		m.seasonIdx = 0
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.machine.Status() == player.StatusIdle || !m.machine.State().Fullscreen() {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		token := m.machine.TouchControls()
		return m, hideControlsCmd(token)

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		var cmds []tea.Cmd
		token, double := m.machine.Click()
		if !double {
			cmds = append(cmds, clickTimeoutCmd(token))
		}
		cmds = append(cmds, hideControlsCmd(m.machine.TouchControls()))
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.machine.Status() != player.StatusIdle && m.machine.State().Fullscreen() {
		return m.handlePlayerKey(msg)
	}
	if m.overlay.IsVisible() {
		return m.handleOverlayKey(msg)
	}
	if m.screen == screenSetup {
		return m.handleSetupKey(msg)
	}
	return m.handleCatalogKey(msg)
}

func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	handled := true
	switch key {
	case "q", "x":
		m.machine.Dismiss()
		return m, nil
	case "+", "=":
		m.machine.SetVolume(m.machine.State().Volume() + 0.05)
	case "-":
		m.machine.SetVolume(m.machine.State().Volume() - 0.05)
	default:
		handled = m.machine.HandleKey(key)
	}

	if handled {
		token := m.machine.TouchControls()
		return m, hideControlsCmd(token)
	}
	return m, nil
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay.Hide()
		return m, nil
	case "up", "ctrl+p":
		m.overlay.CursorUp()
		return m, nil
	case "down", "ctrl+n":
		m.overlay.CursorDown()
		return m, nil
	case "enter":
		if selected, ok := m.overlay.Selected(); ok {
			m.overlay.Hide()
			return m.navigateMedia(selected)
		}
		return m, nil
	}

	before := m.overlay.Query()
	inputCmd := m.overlay.UpdateInput(msg)
	after := m.overlay.Query()
	if before == after {
		return m, inputCmd
	}

	token := m.search.Arm()
	if after == "" {
		m.overlay.SetResults(nil)
		return m, inputCmd
	}
	m.overlay.SetNarrowed(service.Narrow(m.list.Items(), after))
	return m, tea.Batch(inputCmd, debounceCmd(token))
}

func (m Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.setup.Busy() {
		return m, nil
	}

	switch msg.String() {
	case "tab", "shift+tab":
		m.setup.NextField()
		return m, nil
	case "enter":
		return m.submitSetup()
	}
	return m, m.setup.UpdateInputs(msg)
}

func (m Model) submitSetup() (tea.Model, tea.Cmd) {
	switch m.setup.Mode() {
	case components.SetupLogin:
		vals := m.setup.Values()
		m.setup.SetBusy(true)
		return m, loginCmd(m.session, vals[0], vals[1])

	case components.SetupCode:
		m.setup.AdvanceToAccount()
		return m, nil

	case components.SetupAccount:
		vals := m.setup.Values()
		m.setup.SetBusy(true)
		return m, signupCmd(m.session, m.setup.Code(), vals[0], vals[1], vals[2])
	}
	return m, nil
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.overlay.Show()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		return m.popNav()

	case key.Matches(msg, m.keys.Refresh):
		return m.reload()

	case key.Matches(msg, m.keys.Up):
		m.list.CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.list.CursorDown()
		return m.maybeFetchMore()
	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
		return m.maybeFetchMore()
	case key.Matches(msg, m.keys.Home):
		m.list.Home()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.list.End()
		return m.maybeFetchMore()

	case key.Matches(msg, m.keys.Enter):
		if selected, ok := m.list.Selected(); ok {
			return m.openMedia(selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.Play):
		return m.playSelected()
	}

	if m.screen == screenBrowse {
		return m.handleBrowseFilterKey(msg)
	}
	return m.handleDetailFilterKey(msg)
}

func (m Model) handleBrowseFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Movies):
		m.filters.ToggleMediaType(domain.MediaTypeMovie)
	case key.Matches(msg, m.keys.Shows):
		m.filters.ToggleMediaType(domain.MediaTypeShow)
	case key.Matches(msg, m.keys.Watched):
		m.filters.ToggleWatched(true)
	case key.Matches(msg, m.keys.Unwatched):
		m.filters.ToggleWatched(false)
	case key.Matches(msg, m.keys.Sort):
		m.filters.OrderBy = nextOrder(m.filters.OrderBy)
	default:
		return m, nil
	}
	return m.applyFilters()
}

func (m Model) handleDetailFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.seasons) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.PrevSeason):
		if m.seasonIdx > 0 {
			m.seasonIdx--
		}
		return m, nil
	case key.Matches(msg, m.keys.NextSeason):
		if m.seasonIdx < len(m.seasons)-1 {
			m.seasonIdx++
		}
		return m, nil
	case key.Matches(msg, m.keys.AllSeasons):
		m.filters.Seasons = nil
	case key.Matches(msg, m.keys.SelectSeason):
		m.filters.SelectSeason(m.seasons[m.seasonIdx])
	case key.Matches(msg, m.keys.ToggleSeason):
		m.filters.ToggleSeason(m.seasons[m.seasonIdx])
	default:
		return m, nil
	}
	return m.applyFilters()
}

// nextOrder cycles through the sort orders
func nextOrder(o query.OrderBy) query.OrderBy {
	switch o {
	case "", query.OrderAlphabetical:
		return query.OrderRating
	case query.OrderRating:
		return query.OrderReleasedAt
	case query.OrderReleasedAt:
		return query.OrderAddedAt
	case query.OrderAddedAt:
		return query.OrderSeasonEpisode
	default:
		return query.OrderAlphabetical
	}
}

// applyFilters persists the new view state and reloads the route.
// Changing filters supersedes any fetch still in flight for the old
// state; its late result fails the route-key match and is dropped.
func (m Model) applyFilters() (tea.Model, tea.Cmd) {
	m.library.SaveViewState(m.path, m.filters)
	return m.reload()
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	// Movie detail has no child listing to fetch
	if m.screen == screenDetail && m.detail.Type == domain.MediaTypeMovie {
		m.list.SetPage(nil, "", false)
		return m, nil
	}

	routeK := m.routeKey()
	if cached, ok := m.library.CachedPage(routeK); ok {
		m.list.SetPage(cached.Media, cached.EndCursor, cached.HasNextPage)
		m.list.MarkStale()
	} else {
		m.list.SetPage(nil, "", false)
		m.list.SetLoading(true)
	}
	return m, loadPageCmd(m.library, routeK, m.filters)
}

func (m Model) maybeFetchMore() (tea.Model, tea.Cmd) {
	if !m.list.WantsMore() {
		return m, nil
	}
	m.list.SetLoading(true)
	return m, fetchMoreCmd(m.library, m.routeKey(), m.filters, m.list.EndCursor())
}

// openMedia navigates to the media's canonical location: shows and
// movies get a detail view, episodes land on their show with the
// episode's season selected.
func (m Model) openMedia(media domain.Media) (tea.Model, tea.Cmd) {
	switch media.Type {
	case domain.MediaTypeMovie, domain.MediaTypeShow:
		return m.enterDetail(media)

	case domain.MediaTypeEpisode:
		if media.Playable() {
			return m.playMedia(media)
		}
		return m.navigateMedia(media)
	}
	return m, nil
}

// navigateMedia goes to the media's canonical location without starting
// playback: episodes land on their show with the episode's season
// selected.
func (m Model) navigateMedia(media domain.Media) (tea.Model, tea.Cmd) {
	if media.Type != domain.MediaTypeEpisode {
		return m.enterDetail(media)
	}
	if media.ParentID == nil {
		return m.showError(fmt.Errorf("episode %d has no parent series", media.ID))
	}

	parent := domain.Media{ID: *media.ParentID, Name: media.ParentName, Type: domain.MediaTypeShow}
	next, cmd := m.enterDetail(parent)
	nm := next.(Model)
	if media.SeasonNumber != nil {
		nm.filters.SelectSeason(*media.SeasonNumber)
		next2, reloadCmd := nm.reload()
		return next2, tea.Batch(cmd, reloadCmd)
	}
	return nm, cmd
}

func (m Model) playSelected() (tea.Model, tea.Cmd) {
	var target domain.Media
	var ok bool
	if m.screen == screenDetail && m.detail.Type == domain.MediaTypeMovie {
		target, ok = m.detail, true
	} else {
		target, ok = m.list.Selected()
	}
	if !ok {
		return m, nil
	}
	return m.playMedia(target)
}

// playMedia attaches the player to a media item. Starting playback while
// nothing is playing always opens fullscreen; swapping media mid-play
// keeps whatever mode the user chose.
func (m Model) playMedia(media domain.Media) (tea.Model, tea.Cmd) {
	m.machine.SetMedia(&media)
	token := m.machine.TouchControls()
	return m, hideControlsCmd(token)
}

func (m Model) enterBrowse() (tea.Model, tea.Cmd) {
	m.screen = screenBrowse
	m.path = "/"
	m.back = nil
	if m.filters.IsZero() {
		m.filters = m.library.ViewState(m.path)
	}
	return m.reload()
}

func (m Model) enterDetail(media domain.Media) (tea.Model, tea.Cmd) {
	m.back = append(m.back, navEntry{
		screen:  m.screen,
		path:    m.path,
		filters: m.filters,
		detail:  m.detail,
	})

	path, err := domain.PathForMedia(media)
	if err != nil {
		m.back = m.back[:len(m.back)-1]
		return m.showError(err)
	}

	m.screen = screenDetail
	m.path = path
	m.detail = media
	m.seasons = media.Seasons
	m.seasonIdx = 0
	m.poster = ""

	cmds := []tea.Cmd{loadMediaCmd(m.library, media.ID)}

	if media.Type == domain.MediaTypeShow {
		m.filters = m.library.ViewState(m.path)
		id := media.ID
		m.filters.ParentID = &id
		m.filters.MediaTypes = []domain.MediaType{domain.MediaTypeEpisode}
		if m.filters.OrderBy == "" {
			m.filters.OrderBy = query.OrderSeasonEpisode
		}
		next, reloadCmd := m.reload()
		nm := next.(Model)
		cmds = append(cmds, reloadCmd, loadSeasonsCmd(nm.library, media.ID))
		return nm.withCmds(cmds)
	}

	// Movies have no child listing
	m.filters = query.State{}
	m.list.SetPage(nil, "", false)
	return m.withCmds(cmds)
}

func (m Model) withCmds(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	return m, tea.Batch(cmds...)
}

func (m Model) popNav() (tea.Model, tea.Cmd) {
	if len(m.back) == 0 {
		return m, nil
	}
	entry := m.back[len(m.back)-1]
	m.back = m.back[:len(m.back)-1]

	m.screen = entry.screen
	m.path = entry.path
	m.filters = entry.filters
	m.detail = entry.detail
	m.seasons = entry.detail.Seasons
	m.seasonIdx = 0
	m.poster = ""
	return m.reload()
}

func (m Model) showError(err error) (tea.Model, tea.Cmd) {
	m.status = presentError(err)
	m.statusErr = true
	return m, clearStatusCmd()
}

func presentError(err error) string {
	switch {
	case errors.Is(err, domain.ErrServerOffline):
		return "Server unreachable"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Session expired, restart to sign in again"
	case errors.Is(err, domain.ErrNotFound):
		return "Not found"
	default:
		return err.Error()
	}
}
