package domain

import "fmt"

// PathForMedia derives the canonical route for a media record:
// shows land on their series page, movies on their movie page, and
// episodes on the parent series page annotated with their season.
// It has no side effects and is total over all valid media types.
func PathForMedia(m Media) (string, error) {
	switch m.Type {
	case MediaTypeShow:
		return fmt.Sprintf("/series/%d", m.ID), nil

	case MediaTypeMovie:
		return fmt.Sprintf("/movie/%d", m.ID), nil

	case MediaTypeEpisode:
		if m.ParentID == nil {
			return "", fmt.Errorf("episode %d has no parent series", m.ID)
		}
		if m.SeasonNumber == nil {
			return fmt.Sprintf("/series/%d", *m.ParentID), nil
		}
		return fmt.Sprintf("/series/%d?season=%d", *m.ParentID, *m.SeasonNumber), nil

	default:
		return "", fmt.Errorf("no route for media type %q (media %d)", m.Type, m.ID)
	}
}
