package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jharlow/reel/internal/player"
	"github.com/jharlow/reel/internal/tui/styles"
)

// PlayerView renders the playback machine's state, either as a compact
// bar under the catalog or as the whole screen when fullscreen.
type PlayerView struct {
	width  int
	height int
}

// NewPlayerView creates a player view
func NewPlayerView() PlayerView {
	return PlayerView{}
}

// SetSize updates the view's render dimensions
func (v *PlayerView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Bar renders the compact one-line player bar
func (v PlayerView) Bar(m *player.Machine, now time.Time) string {
	media := m.State().Media()
	if media == nil {
		return ""
	}

	var parts []string
	parts = append(parts, styles.TitleStyle.Render(truncate(media.DisplayTitle(), 40)))
	parts = append(parts, v.statusLabel(m))
	parts = append(parts, v.progressBar(m, 24))
	parts = append(parts, styles.SubtitleStyle.Render(clockPair(m)))
	parts = append(parts, v.volumeLabel(m))

	return styles.PlayerBarStyle.Width(v.width).Render(strings.Join(parts, "  "))
}

// Full renders the fullscreen player view
func (v PlayerView) Full(m *player.Machine, now time.Time) string {
	media := m.State().Media()
	if media == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(media.DisplayTitle()))
	if media.EpisodeCode() != "" {
		b.WriteString("  ")
		b.WriteString(styles.SubtitleStyle.Render(media.EpisodeCode()))
	}
	b.WriteString("\n\n")

	switch {
	case m.Status() == player.StatusError:
		b.WriteString(styles.ErrorStyle.Render(m.Message()))
	case m.Status() == player.StatusLoading || m.State().Loading():
		b.WriteString(styles.DimStyle.Render("Buffering…"))
	default:
		b.WriteString(v.statusLabel(m))
	}
	b.WriteString("\n\n")

	barWidth := v.width - 4
	if barWidth < 20 {
		barWidth = 20
	}
	b.WriteString(v.progressBar(m, barWidth))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(clockPair(m)))

	if fin := m.FinishesAt(now); fin != "" {
		b.WriteString(styles.DimStyle.Render("  ·  finishes at " + fin))
	}
	b.WriteString("\n")
	b.WriteString(v.volumeLabel(m))

	if m.ControlsVisible() {
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render(
			"space: play/pause · ←/→: seek · 1-9: jump · f: fullscreen · m: mute · esc: exit"))
	}

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (v PlayerView) statusLabel(m *player.Machine) string {
	switch m.Status() {
	case player.StatusError:
		return styles.ErrorStyle.Render("error")
	case player.StatusLoading:
		return styles.DimStyle.Render("loading")
	default:
		if m.State().Loading() {
			return styles.DimStyle.Render("buffering")
		}
		if m.Playing() {
			return styles.SuccessStyle.Render("▶")
		}
		return styles.AccentStyle.Render("⏸")
	}
}

func (v PlayerView) volumeLabel(m *player.Machine) string {
	if m.State().Muted() {
		return styles.DimStyle.Render("muted")
	}
	return styles.SubtitleStyle.Render(fmt.Sprintf("vol %d%%", int(m.State().Volume()*100+0.5)))
}

// progressBar draws position over buffered ranges over the track.
func (v PlayerView) progressBar(m *player.Machine, width int) string {
	duration := m.Duration()
	if duration <= 0 {
		return styles.ProgressTrackStyle.Render(strings.Repeat("─", width))
	}

	cells := make([]rune, width)
	for i := range cells {
		cells[i] = '─'
	}

	buffered := make([]bool, width)
	for _, r := range m.Buffered() {
		start := int(r.Start / duration * float64(width))
		end := int(r.End / duration * float64(width))
		for i := start; i <= end && i < width; i++ {
			if i >= 0 {
				buffered[i] = true
			}
		}
	}

	played := int(m.Position() / duration * float64(width))
	if played > width {
		played = width
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i < played:
			b.WriteString(styles.ProgressFillStyle.Render("━"))
		case buffered[i]:
			b.WriteString(styles.ProgressBufferStyle.Render("━"))
		default:
			b.WriteString(styles.ProgressTrackStyle.Render(string(cells[i])))
		}
	}
	return b.String()
}

func clockPair(m *player.Machine) string {
	return formatClock(m.Position()) + " / " + formatClock(m.Duration())
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	min := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%d:%02d", min, sec)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
