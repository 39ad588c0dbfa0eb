package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/query"
	"github.com/jharlow/reel/internal/tui/styles"
)

// FilterBar renders the active catalog filters as a row of chips.
type FilterBar struct {
	width int
}

// NewFilterBar creates a filter bar
func NewFilterBar() FilterBar {
	return FilterBar{}
}

// SetSize updates the bar's render width
func (f *FilterBar) SetSize(width int) { f.width = width }

func chip(label string, active bool) string {
	if active {
		return styles.ChipActiveStyle.Render(label)
	}
	return styles.ChipStyle.Render(label)
}

func containsType(types []domain.MediaType, t domain.MediaType) bool {
	for _, mt := range types {
		if mt == t {
			return true
		}
	}
	return false
}

func containsSeason(seasons []int, n int) bool {
	for _, s := range seasons {
		if s == n {
			return true
		}
	}
	return false
}

func orderLabel(o query.OrderBy) string {
	switch o {
	case query.OrderRating:
		return "rating"
	case query.OrderReleasedAt:
		return "released"
	case query.OrderAddedAt:
		return "added"
	case query.OrderSeasonEpisode:
		return "episode"
	default:
		return "a-z"
	}
}

// View renders the catalog filter chips
func (f FilterBar) View(state query.State) string {
	chips := []string{
		chip("movies", containsType(state.MediaTypes, domain.MediaTypeMovie)),
		chip("shows", containsType(state.MediaTypes, domain.MediaTypeShow)),
		chip("watched", state.Watched != nil && *state.Watched),
		chip("unwatched", state.Watched != nil && !*state.Watched),
		styles.DimStyle.Render("│"),
		chip("sort: "+orderLabel(state.OrderBy), state.OrderBy != "" && state.OrderBy != query.OrderAlphabetical),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// SeasonsView renders the season chips for a show's detail view
func (f FilterBar) SeasonsView(seasons []int, state query.State, highlighted int) string {
	if len(seasons) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(chip("all", len(state.Seasons) == 0))
	for _, n := range seasons {
		label := fmt.Sprintf("S%d", n)
		if n == highlighted {
			label = "[" + label + "]"
		}
		b.WriteString(" ")
		b.WriteString(chip(label, containsSeason(state.Seasons, n)))
	}
	return b.String()
}
