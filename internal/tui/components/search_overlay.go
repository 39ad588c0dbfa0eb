package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/service"
	"github.com/jharlow/reel/internal/tui/styles"
)

const maxOverlayResults = 12

// SearchOverlay is the modal search component. While the remote query
// is in flight it shows a locally narrowed view of the loaded catalog,
// then swaps in the server results when they land.
type SearchOverlay struct {
	input   textinput.Model
	results []domain.Media
	cursor  int
	visible bool
	loading bool
	width   int
	height  int
}

// NewSearchOverlay creates a new search overlay component
func NewSearchOverlay() SearchOverlay {
	ti := textinput.New()
	ti.Placeholder = "Search…"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchOverlay{input: ti}
}

// Show opens the overlay with a cleared input
func (o *SearchOverlay) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.results = nil
	o.cursor = 0
	o.loading = false
}

// Hide closes the overlay
func (o *SearchOverlay) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible reports whether the overlay is open
func (o SearchOverlay) IsVisible() bool { return o.visible }

// Query returns the current input text
func (o SearchOverlay) Query() string { return strings.TrimSpace(o.input.Value()) }

// SetSize updates the overlay's render dimensions
func (o *SearchOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// SetNarrowed shows locally narrowed results while a query is pending
func (o *SearchOverlay) SetNarrowed(results []domain.Media) {
	o.results = results
	o.cursor = 0
	o.loading = true
}

// SetResults swaps in the server's results
func (o *SearchOverlay) SetResults(results []domain.Media) {
	o.results = results
	o.cursor = 0
	o.loading = false
}

// Selected returns the highlighted result, if any
func (o SearchOverlay) Selected() (domain.Media, bool) {
	if o.cursor < 0 || o.cursor >= len(o.results) {
		return domain.Media{}, false
	}
	return o.results[o.cursor], true
}

// CursorUp moves the highlight up
func (o *SearchOverlay) CursorUp() {
	if o.cursor > 0 {
		o.cursor--
	}
}

// CursorDown moves the highlight down
func (o *SearchOverlay) CursorDown() {
	if o.cursor < len(o.results)-1 {
		o.cursor++
	}
}

// UpdateInput forwards a message to the text input
func (o *SearchOverlay) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	return cmd
}

// View renders the overlay box
func (o SearchOverlay) View() string {
	var b strings.Builder
	b.WriteString(o.input.View())
	b.WriteString("\n\n")

	term := o.Query()
	shown := o.results
	if len(shown) > maxOverlayResults {
		shown = shown[:maxOverlayResults]
	}

	switch {
	case len(shown) == 0 && o.loading:
		b.WriteString(styles.DimStyle.Render("Searching…"))
	case len(shown) == 0 && term != "":
		b.WriteString(styles.DimStyle.Render("No results"))
	case len(shown) == 0:
		b.WriteString(styles.DimStyle.Render("Type to search"))
	default:
		for i, m := range shown {
			line := o.renderResult(m, term, i == o.cursor)
			b.WriteString(line)
			if i < len(shown)-1 {
				b.WriteString("\n")
			}
		}
		if o.loading {
			b.WriteString("\n")
			b.WriteString(styles.DimStyle.Render("searching…"))
		}
	}

	return styles.OverlayStyle.Width(minInt(o.width-4, 60)).Render(b.String())
}

func (o SearchOverlay) renderResult(m domain.Media, term string, selected bool) string {
	title := m.DisplayTitle()
	rendered := highlightMatches(title, term)

	label := styles.DimStyle.Render(" " + strings.ToLower(m.Type.String()))
	line := rendered + label
	if selected {
		return "> " + line
	}
	return "  " + line
}

// highlightMatches accents the fuzzy-matched runes of title.
func highlightMatches(title, term string) string {
	indexes := service.HighlightIndexes(term, title)
	if len(indexes) == 0 {
		return title
	}

	matched := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		matched[i] = true
	}

	var b strings.Builder
	for i, r := range []rune(title) {
		if matched[i] {
			b.WriteString(styles.AccentStyle.Render(string(r)))
		} else {
			b.WriteString(string(r))
		}
	}
	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
