package domain

import (
	"fmt"
	"strings"
)

// MediaListStatus is a user's tracking state for a media entry.
type MediaListStatus string

const (
	StatusCurrent   MediaListStatus = "CURRENT"
	StatusCompleted MediaListStatus = "COMPLETED"
	StatusPaused    MediaListStatus = "PAUSED"
	StatusDropped   MediaListStatus = "DROPPED"
	StatusPlanning  MediaListStatus = "PLANNING"
	StatusRepeating MediaListStatus = "REPEATING"
)

// MediaListStatuses lists every valid status in display order.
var MediaListStatuses = []MediaListStatus{
	StatusCurrent,
	StatusCompleted,
	StatusPaused,
	StatusDropped,
	StatusPlanning,
	StatusRepeating,
}

// ParseMediaListStatus validates s case-insensitively against the fixed
// enumeration. Aliases such as "watching" are rejected.
func ParseMediaListStatus(s string) (MediaListStatus, error) {
	candidate := MediaListStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range MediaListStatuses {
		if candidate == status {
			return status, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// MediaListEntry is one user-specific tracking record, keyed by
// (UserID, MediaID). Entries only come from the authenticated provider.
type MediaListEntry struct {
	ID       int             `json:"id"`
	UserID   int             `json:"userId"`
	MediaID  int             `json:"mediaId"`
	Status   MediaListStatus `json:"status"`
	Progress int             `json:"progress"`
	Score    int             `json:"score"` // 0-100
	Media    *CanonicalMedia `json:"media,omitempty"`
}

// MediaList is a named group of entries sharing a status.
type MediaList struct {
	Name    string           `json:"name"`
	Status  MediaListStatus  `json:"status"`
	Entries []MediaListEntry `json:"entries"`
}

// MediaListCollection is a user's full tracking list.
type MediaListCollection struct {
	Lists []MediaList `json:"lists"`
}

// NewMediaListCollection returns an empty, non-nil collection.
func NewMediaListCollection() MediaListCollection {
	return MediaListCollection{Lists: []MediaList{}}
}

// Len returns the total number of entries across all lists.
func (c *MediaListCollection) Len() int {
	n := 0
	for _, l := range c.Lists {
		n += len(l.Entries)
	}

	return n
}
