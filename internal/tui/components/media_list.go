package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/tui/styles"
)

// fetchAhead is how close to the end the cursor gets before the list
// asks for the next page.
const fetchAhead = 10

// MediaList is a scrolling catalog list with cursor selection and an
// end-of-list sentinel for cursor pagination.
type MediaList struct {
	items       []domain.Media
	cursor      int
	offset      int
	width       int
	height      int
	hasNextPage bool
	endCursor   string
	loading     bool
	stale       bool
}

// NewMediaList creates an empty media list
func NewMediaList() MediaList {
	return MediaList{}
}

// SetSize updates the list's render dimensions
func (l *MediaList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampScroll()
}

// SetPage replaces the list contents with a fresh first page
func (l *MediaList) SetPage(items []domain.Media, endCursor string, hasNextPage bool) {
	l.items = items
	l.endCursor = endCursor
	l.hasNextPage = hasNextPage
	l.loading = false
	l.stale = false
	if l.cursor >= len(items) {
		l.cursor = 0
		l.offset = 0
	}
	l.clampScroll()
}

// AppendPage adds a follow-up page to the list
func (l *MediaList) AppendPage(items []domain.Media, endCursor string, hasNextPage bool) {
	l.items = append(l.items, items...)
	l.endCursor = endCursor
	l.hasNextPage = hasNextPage
	l.loading = false
}

// MarkStale flags the current contents as a cached page being refreshed
func (l *MediaList) MarkStale() { l.stale = true }

// SetLoading toggles the loading indicator
func (l *MediaList) SetLoading(loading bool) { l.loading = loading }

// Items returns the loaded items
func (l *MediaList) Items() []domain.Media { return l.items }

// Selected returns the item under the cursor, if any
func (l *MediaList) Selected() (domain.Media, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return domain.Media{}, false
	}
	return l.items[l.cursor], true
}

// EndCursor returns the pagination cursor for the next page
func (l *MediaList) EndCursor() string { return l.endCursor }

// WantsMore reports whether the cursor is close enough to the end that
// the next page should be requested.
func (l *MediaList) WantsMore() bool {
	return l.hasNextPage && len(l.items)-l.cursor <= fetchAhead
}

// CursorUp moves the selection up one row
func (l *MediaList) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.clampScroll()
}

// CursorDown moves the selection down one row
func (l *MediaList) CursorDown() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
	l.clampScroll()
}

// PageUp moves the selection up one screen
func (l *MediaList) PageUp() {
	l.cursor -= l.visibleRows()
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampScroll()
}

// PageDown moves the selection down one screen
func (l *MediaList) PageDown() {
	l.cursor += l.visibleRows()
	if l.cursor > len(l.items)-1 {
		l.cursor = len(l.items) - 1
	}
	l.clampScroll()
}

// Home jumps to the first row
func (l *MediaList) Home() {
	l.cursor = 0
	l.offset = 0
}

// End jumps to the last loaded row
func (l *MediaList) End() {
	l.cursor = len(l.items) - 1
	l.clampScroll()
}

func (l *MediaList) visibleRows() int {
	if l.height < 1 {
		return 1
	}
	return l.height
}

func (l *MediaList) clampScroll() {
	rows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the visible window of the list
func (l MediaList) View() string {
	if len(l.items) == 0 {
		if l.loading {
			return styles.DimStyle.Render("Loading…")
		}
		return styles.DimStyle.Render("Nothing here")
	}

	var b strings.Builder
	rows := l.visibleRows()
	end := l.offset + rows
	if end > len(l.items) {
		end = len(l.items)
	}

	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderRow(l.items[i], i == l.cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if l.loading && l.hasNextPage && end == len(l.items) {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("  loading more…"))
	}

	out := b.String()
	if l.stale {
		out = styles.DimStyle.Render("refreshing…") + "\n" + out
	}
	return out
}

func (l MediaList) renderRow(m domain.Media, selected bool) string {
	indicator := watchIndicator(m)

	title := m.DisplayTitle()
	meta := rowMeta(m)

	width := l.width
	if width < 20 {
		width = 20
	}

	line := fmt.Sprintf("%s %s", indicator, title)
	if meta != "" {
		pad := width - lipgloss.Width(line) - lipgloss.Width(meta) - 2
		if pad < 1 {
			pad = 1
		}
		line += strings.Repeat(" ", pad) + styles.DimStyle.Render(meta)
	}

	if selected {
		return styles.SelectedStyle.Width(width).Render(line)
	}
	return line
}

func rowMeta(m domain.Media) string {
	switch m.Type {
	case domain.MediaTypeMovie:
		parts := []string{}
		if y := m.ReleaseYear(); y > 0 {
			parts = append(parts, strconv.Itoa(y))
		}
		if r := m.FormattedRuntime(); r != "" {
			parts = append(parts, r)
		}
		return strings.Join(parts, " · ")
	case domain.MediaTypeShow:
		return m.YearSpan()
	case domain.MediaTypeEpisode:
		return m.EpisodeCode()
	}
	return ""
}

func watchIndicator(m domain.Media) string {
	switch {
	case m.WatchProgress() >= 95:
		return styles.PlayedCheck
	case m.WatchProgress() > 0:
		return styles.InProgressDot
	default:
		return styles.UnplayedDot
	}
}
