package api

import "github.com/jharlow/reel/internal/domain"

// mediaDTO mirrors the GraphQL Media object
type mediaDTO struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	MediaType      string   `json:"mediaType"`
	Description    *string  `json:"description"`
	Rating         *float64 `json:"rating"`
	RuntimeMinutes *int     `json:"runtimeMinutes"`
	StartDate      *int64   `json:"startDate"`
	EndDate        *int64   `json:"endDate"`
	SeasonNumber   *int     `json:"seasonNumber"`
	EpisodeNumber  *int     `json:"episodeNumber"`
	ParentID       *int     `json:"parentId"`
	Seasons        []int    `json:"seasons"`
	PosterURL      *string  `json:"posterUrl"`
	ThumbnailURL   *string  `json:"thumbnailUrl"`
	BackgroundURL  *string  `json:"backgroundUrl"`

	Parent *struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"parent"`

	DefaultConnection *struct {
		ID          int    `json:"id"`
		Key         string `json:"key"`
		BackendName string `json:"backendName"`
	} `json:"defaultConnection"`

	WatchState *struct {
		Percentage float64 `json:"percentage"`
		UpdatedAt  int64   `json:"updatedAt"`
	} `json:"watchState"`
}

func (d mediaDTO) toDomain() domain.Media {
	m := domain.Media{
		ID:            d.ID,
		Name:          d.Name,
		Type:          domain.MediaType(d.MediaType),
		ParentID:      d.ParentID,
		SeasonNumber:  d.SeasonNumber,
		EpisodeNumber: d.EpisodeNumber,
		Seasons:       d.Seasons,
	}

	if d.Description != nil {
		m.Description = *d.Description
	}
	if d.Rating != nil {
		m.Rating = *d.Rating
	}
	if d.RuntimeMinutes != nil {
		m.RuntimeMinutes = *d.RuntimeMinutes
	}
	if d.StartDate != nil {
		m.StartDate = *d.StartDate
	}
	if d.EndDate != nil {
		m.EndDate = *d.EndDate
	}
	if d.PosterURL != nil {
		m.PosterURL = *d.PosterURL
	}
	if d.ThumbnailURL != nil {
		m.ThumbnailURL = *d.ThumbnailURL
	}
	if d.BackgroundURL != nil {
		m.BackgroundURL = *d.BackgroundURL
	}

	if d.Parent != nil {
		m.ParentName = d.Parent.Name
		if m.ParentID == nil {
			id := d.Parent.ID
			m.ParentID = &id
		}
	}

	if d.DefaultConnection != nil {
		m.DefaultConnection = &domain.Connection{
			ID:          d.DefaultConnection.ID,
			Key:         d.DefaultConnection.Key,
			BackendName: d.DefaultConnection.BackendName,
		}
	}

	if d.WatchState != nil {
		m.WatchState = &domain.Watch{
			Percentage: d.WatchState.Percentage,
			UpdatedAt:  d.WatchState.UpdatedAt,
		}
	}

	return m
}
