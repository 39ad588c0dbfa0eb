package domain

import (
	"fmt"
	"time"
)

// MediaType discriminates catalog records. Values match the server's enum.
type MediaType string

const (
	MediaTypeMovie   MediaType = "MOVIE"
	MediaTypeShow    MediaType = "SHOW"
	MediaTypeEpisode MediaType = "EPISODE"
)

// String returns a human-readable representation of the media type
func (t MediaType) String() string {
	switch t {
	case MediaTypeMovie:
		return "Movie"
	case MediaTypeShow:
		return "Series"
	case MediaTypeEpisode:
		return "Episode"
	default:
		return string(t)
	}
}

// Connection references a specific playable file for a media item.
type Connection struct {
	ID          int    // Server-side file identifier
	Key         string // File key on the backend
	BackendName string // Storage backend that holds the file
}

// Watch carries watch progress for a media item, used only for
// rendering a progress indicator.
type Watch struct {
	Percentage float64 // 0-100
	UpdatedAt  int64   // Unix timestamp of the last progress write
}

// Media is a read view of a server catalog record. It is never mutated
// locally; fresh state only ever arrives via re-fetch.
type Media struct {
	ID   int
	Name string
	Type MediaType

	// Parent linkage (episodes point at their show)
	ParentID   *int
	ParentName string

	// Episode-specific fields (nil for movies and shows)
	SeasonNumber  *int
	EpisodeNumber *int

	// Descriptive metadata
	Description    string
	Rating         float64 // 0-10 community rating
	RuntimeMinutes int
	StartDate      int64 // Unix timestamp (release / first air date)
	EndDate        int64 // Unix timestamp (0 = still airing / n/a)
	Seasons        []int // Season numbers, shows only

	// Image URLs as stored by the server; resolve through the image proxy
	PosterURL     string
	ThumbnailURL  string
	BackgroundURL string

	// DefaultConnection is the connection chosen automatically for
	// playback. Nil means the item has no playable file right now.
	DefaultConnection *Connection

	// WatchState is present when the signed-in user has progress on this item
	WatchState *Watch
}

// EpisodeCode returns the formatted episode code (e.g., "S02E05")
func (m Media) EpisodeCode() string {
	if m.Type != MediaTypeEpisode || m.SeasonNumber == nil || m.EpisodeNumber == nil {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", *m.SeasonNumber, *m.EpisodeNumber)
}

// FormattedRuntime returns the runtime in a human-readable format
func (m Media) FormattedRuntime() string {
	if m.RuntimeMinutes <= 0 {
		return ""
	}
	h := m.RuntimeMinutes / 60
	mins := m.RuntimeMinutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// ReleaseYear returns the year of the start date, or 0 when unknown
func (m Media) ReleaseYear() int {
	if m.StartDate == 0 {
		return 0
	}
	return time.Unix(m.StartDate, 0).UTC().Year()
}

// YearSpan returns "2019" for movies and single-year runs, "2019-2023" for
// shows that span years, and "2019-" while still airing.
func (m Media) YearSpan() string {
	start := m.ReleaseYear()
	if start == 0 {
		return ""
	}
	if m.Type != MediaTypeShow {
		return fmt.Sprintf("%d", start)
	}
	if m.EndDate == 0 {
		return fmt.Sprintf("%d-", start)
	}
	end := time.Unix(m.EndDate, 0).UTC().Year()
	if end == start {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

// Playable returns true when the item has a default connection
func (m Media) Playable() bool {
	return m.DefaultConnection != nil
}

// DisplayTitle returns the list row title: "Show: S01E02 Name" for
// episodes, the plain name otherwise.
func (m Media) DisplayTitle() string {
	if m.Type == MediaTypeEpisode && m.ParentName != "" {
		if code := m.EpisodeCode(); code != "" {
			return fmt.Sprintf("%s %s %s", m.ParentName, code, m.Name)
		}
		return fmt.Sprintf("%s %s", m.ParentName, m.Name)
	}
	return m.Name
}

// WatchProgress returns the progress percentage, 0 when no watch state exists
func (m Media) WatchProgress() float64 {
	if m.WatchState == nil {
		return 0
	}
	return m.WatchState.Percentage
}
