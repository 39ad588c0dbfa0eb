package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/player"
	"github.com/jharlow/reel/internal/tui/styles"
)

// chromeRows is the vertical space taken by everything around the list:
// header, filter bar, status bar, and the player bar when active.
func chromeRows(m Model) int {
	rows := 5
	if m.machine.Status() != player.StatusIdle {
		rows++
	}
	return rows
}

// View renders the whole terminal frame
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	// Fullscreen playback replaces the entire frame
	if m.machine.Status() != player.StatusIdle && m.machine.State().Fullscreen() {
		return m.playerView.Full(m.machine, time.Now())
	}

	contentHeight := m.height - chromeRows(m)
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.screen {
	case screenSetup:
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, m.setup.View())
	case screenBrowse:
		content = m.browseView(contentHeight)
	case screenDetail:
		content = m.detailView(contentHeight)
	}

	if m.overlay.IsVisible() {
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, m.overlay.View())
	}

	sections := []string{m.headerView(), content}
	if m.machine.Status() != player.StatusIdle {
		sections = append(sections, m.playerView.Bar(m.machine, time.Now()))
	}
	sections = append(sections, m.statusView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	title := styles.AccentStyle.Bold(true).Render("reel")

	var crumb string
	switch m.screen {
	case screenDetail:
		crumb = styles.SubtitleStyle.Render(" › " + m.detail.DisplayTitle())
	case screenBrowse:
		crumb = styles.SubtitleStyle.Render(" › library")
	}
	return lipgloss.NewStyle().Width(m.width).Render(title + crumb)
}

func (m Model) browseView(height int) string {
	bar := m.filterBar.View(m.filters)
	list := lipgloss.NewStyle().Height(height - 1).Render(m.list.View())
	return lipgloss.JoinVertical(lipgloss.Left, bar, list)
}

func (m Model) detailView(height int) string {
	header := m.detailHeader()

	if m.detail.Type == domain.MediaTypeMovie {
		return lipgloss.NewStyle().Height(height).Render(header)
	}

	seasonBar := m.filterBar.SeasonsView(m.seasons, m.filters, m.highlightedSeason())
	headerRows := lipgloss.Height(header) + 1
	listHeight := height - headerRows - 1
	if listHeight < 1 {
		listHeight = 1
	}
	list := lipgloss.NewStyle().Height(listHeight).Render(m.list.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, seasonBar, list)
}

func (m Model) highlightedSeason() int {
	if m.seasonIdx < 0 || m.seasonIdx >= len(m.seasons) {
		return -1
	}
	return m.seasons[m.seasonIdx]
}

func (m Model) detailHeader() string {
	d := m.detail

	var meta []string
	switch d.Type {
	case domain.MediaTypeMovie:
		if y := d.ReleaseYear(); y > 0 {
			meta = append(meta, fmt.Sprintf("%d", y))
		}
		if r := d.FormattedRuntime(); r != "" {
			meta = append(meta, r)
		}
	case domain.MediaTypeShow:
		if span := d.YearSpan(); span != "" {
			meta = append(meta, span)
		}
	}
	if d.Rating > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f", d.Rating))
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(d.Name))
	if len(meta) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Render(strings.Join(meta, " · ")))
	}
	if d.Description != "" {
		b.WriteString("\n\n")
		width := m.width - 4
		if m.poster != "" {
			width -= 20
		}
		if width < 20 {
			width = 20
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(styles.LightGray).Render(d.Description))
	}
	if d.Type == domain.MediaTypeMovie {
		b.WriteString("\n\n")
		if d.Playable() {
			b.WriteString(styles.AccentStyle.Render("p: play"))
		} else {
			b.WriteString(styles.DimStyle.Render("no playable file"))
		}
	}

	text := b.String()
	if m.poster == "" {
		return text
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.poster, "  ", text)
}

func (m Model) statusView() string {
	if m.status != "" {
		if m.statusErr {
			return styles.StatusBarStyle.Width(m.width).Render(styles.ErrorStyle.Render(m.status))
		}
		return styles.StatusBarStyle.Width(m.width).Render(m.status)
	}

	hints := "/: search · enter: open · p: play · q: quit"
	if m.screen == screenDetail {
		hints = "[/]: season · s: select · S: add · a: all · esc: back"
	}
	return styles.StatusBarStyle.Width(m.width).Render(styles.DimStyle.Render(hints))
}
