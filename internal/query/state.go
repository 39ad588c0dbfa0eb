// Package query serializes view state (filters, sort order, pagination
// cursor) to and from a query string. Values are encoded as base64 JSON;
// values equal to their default are omitted, and garbage decodes fall back
// to the default so a mangled deep link never breaks a view.
package query

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"slices"

	"github.com/jharlow/reel/internal/domain"
)

// OrderBy enumerates the server's sort orders
type OrderBy string

const (
	OrderAlphabetical  OrderBy = "ALPHABETICAL"
	OrderRating        OrderBy = "RATING"
	OrderReleasedAt    OrderBy = "RELEASED_AT"
	OrderAddedAt       OrderBy = "ADDED_AT"
	OrderSeasonEpisode OrderBy = "SEASON_EPISODE"
)

// State is the filter/pagination state of a list view. The encoded query
// string is the source of truth; views read and write it through
// Encode/Decode only.
type State struct {
	ParentID   *int               `json:"parentId,omitempty"`
	MediaTypes []domain.MediaType `json:"mediaTypes,omitempty"`
	Watched    *bool              `json:"watched,omitempty"`
	OrderBy    OrderBy            `json:"orderBy,omitempty"`
	Seasons    []int              `json:"seasons,omitempty"`
	Search     string             `json:"search,omitempty"`
	Cursor     string             `json:"cursor,omitempty"`
}

// IsZero reports whether the state equals the default (everything unset)
func (s State) IsZero() bool {
	return s.ParentID == nil && len(s.MediaTypes) == 0 && s.Watched == nil &&
		s.OrderBy == "" && len(s.Seasons) == 0 && s.Search == "" && s.Cursor == ""
}

// ToggleMediaType adds the type to the selection, or removes it when
// already selected. Toggling twice returns the original set.
func (s *State) ToggleMediaType(t domain.MediaType) {
	if i := slices.Index(s.MediaTypes, t); i >= 0 {
		s.MediaTypes = slices.Delete(s.MediaTypes, i, i+1)
		return
	}
	s.MediaTypes = append(s.MediaTypes, t)
}

// ToggleWatched flips the exclusive watched/unwatched filter. Selecting the
// already-active value clears the filter entirely; there is no way to leave
// it in an invalid tri-state.
func (s *State) ToggleWatched(watched bool) {
	if s.Watched != nil && *s.Watched == watched {
		s.Watched = nil
		return
	}
	s.Watched = &watched
}

// ToggleSeason adds or removes a season from the multi-select
func (s *State) ToggleSeason(n int) {
	if i := slices.Index(s.Seasons, n); i >= 0 {
		s.Seasons = slices.Delete(s.Seasons, i, i+1)
		return
	}
	s.Seasons = append(s.Seasons, n)
}

// SelectSeason replaces the selection with a single season, matching a
// plain click on a season button (ctrl-click semantics go via ToggleSeason).
func (s *State) SelectSeason(n int) {
	s.Seasons = []int{n}
}

// EncodeValue encodes any value as base64 JSON, the per-parameter encoding
// used throughout the query string
func EncodeValue(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeValue decodes a base64 JSON parameter into dest
func DecodeValue(raw string, dest any) error {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

const stateKey = "state"

// Encode renders the state as a query string. A default state encodes to
// the empty string so clean views carry no parameters.
func Encode(s State) string {
	if s.IsZero() {
		return ""
	}
	encoded, err := EncodeValue(s)
	if err != nil {
		// State is plain data; marshal cannot fail on it
		return ""
	}
	values := url.Values{}
	values.Set(stateKey, encoded)
	return values.Encode()
}

// Decode parses a query string back into a State. Missing or malformed
// parameters yield the default state.
func Decode(raw string) State {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return State{}
	}
	encoded := values.Get(stateKey)
	if encoded == "" {
		return State{}
	}
	var s State
	if err := DecodeValue(encoded, &s); err != nil {
		return State{}
	}
	return s
}
