package anilist

import (
	"fmt"
	"math"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider"
)

// Media is the media object shared by every document.
type Media struct {
	ID           int         `json:"id"`
	Title        *MediaTitle `json:"title"`
	CoverImage   *CoverImage `json:"coverImage"`
	Description  string      `json:"description"`
	AverageScore *int        `json:"averageScore"`
	Episodes     *int        `json:"episodes"`
	StartDate    *FuzzyDate  `json:"startDate"`
	Genres       []string    `json:"genres"`
	IsFavourite  bool        `json:"isFavourite"`
}

// MediaTitle holds the three title variants.
type MediaTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// CoverImage holds cover URLs by size.
type CoverImage struct {
	ExtraLarge string `json:"extraLarge"`
	Large      string `json:"large"`
	Medium     string `json:"medium"`
}

// FuzzyDate is a date whose parts may each be unknown.
type FuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// String renders the known prefix as YYYY, YYYY-MM or YYYY-MM-DD, and ""
// when the year is unknown.
func (d *FuzzyDate) String() string {
	if d == nil || d.Year == nil {
		return ""
	}
	if d.Month == nil {
		return fmt.Sprintf("%04d", *d.Year)
	}
	if d.Day == nil {
		return fmt.Sprintf("%04d-%02d", *d.Year, *d.Month)
	}

	return fmt.Sprintf("%04d-%02d-%02d", *d.Year, *d.Month, *d.Day)
}

// ToDomain converts Media to domain.CanonicalMedia.
func (m *Media) ToDomain() domain.CanonicalMedia {
	out := domain.NewCanonicalMedia()
	out.ID = m.ID
	if m.Title != nil {
		out.Title = domain.Title{Romaji: m.Title.Romaji, English: m.Title.English, Native: m.Title.Native}
	}
	if c := m.CoverImage; c != nil {
		out.CoverImageURL = provider.FirstNonEmpty(c.ExtraLarge, c.Large, c.Medium)
	}
	out.Description = m.Description
	if m.AverageScore != nil {
		out.AverageScore = provider.IntPtr(provider.ScoreFromHundredScale(float64(*m.AverageScore)))
	}
	if m.Episodes != nil {
		out.EpisodeCount = provider.IntPtr(*m.Episodes)
	}
	out.StartDate = provider.StringPtrOrNil(m.StartDate.String())
	for _, g := range m.Genres {
		if g != "" {
			out.Genres = append(out.Genres, domain.Genre{Name: g})
		}
	}

	return out
}

// MediaListEntry is one tracking record.
type MediaListEntry struct {
	ID       int     `json:"id"`
	UserID   int     `json:"userId"`
	MediaID  int     `json:"mediaId"`
	Status   string  `json:"status"`
	Progress int     `json:"progress"`
	Score    float64 `json:"score"`
	Media    *Media  `json:"media"`
}

// ToDomain converts MediaListEntry to domain.MediaListEntry.
func (e *MediaListEntry) ToDomain() domain.MediaListEntry {
	out := domain.MediaListEntry{
		ID:       e.ID,
		UserID:   e.UserID,
		MediaID:  e.MediaID,
		Status:   domain.MediaListStatus(e.Status),
		Progress: e.Progress,
		Score:    int(math.Floor(e.Score)),
	}
	if e.Media != nil {
		media := e.Media.ToDomain()
		out.Media = &media
		if out.MediaID == 0 {
			out.MediaID = media.ID
		}
	}

	return out
}

// MediaList is one named list of a collection.
type MediaList struct {
	Name    string           `json:"name"`
	Status  string           `json:"status"`
	Entries []MediaListEntry `json:"entries"`
}

// UserAnimeListData is the data member of GetUserAnimeList.
type UserAnimeListData struct {
	MediaListCollection *struct {
		Lists []MediaList `json:"lists"`
	} `json:"MediaListCollection"`
}

// ToDomain converts the response to a collection; a missing collection is empty.
func (d *UserAnimeListData) ToDomain() domain.MediaListCollection {
	out := domain.NewMediaListCollection()
	if d.MediaListCollection == nil {
		return out
	}
	for _, l := range d.MediaListCollection.Lists {
		list := domain.MediaList{
			Name:    l.Name,
			Status:  domain.MediaListStatus(l.Status),
			Entries: make([]domain.MediaListEntry, 0, len(l.Entries)),
		}
		for i := range l.Entries {
			list.Entries = append(list.Entries, l.Entries[i].ToDomain())
		}
		out.Lists = append(out.Lists, list)
	}

	return out
}

// FavoritesData is the data member of GetFavorites.
type FavoritesData struct {
	User *struct {
		Favourites *struct {
			Anime *struct {
				Nodes []Media `json:"nodes"`
			} `json:"anime"`
		} `json:"favourites"`
	} `json:"User"`
}

// ToDomain returns the favourites in server order; never nil.
func (d *FavoritesData) ToDomain() []domain.CanonicalMedia {
	out := []domain.CanonicalMedia{}
	if d.User == nil || d.User.Favourites == nil || d.User.Favourites.Anime == nil {
		return out
	}
	for i := range d.User.Favourites.Anime.Nodes {
		out = append(out, d.User.Favourites.Anime.Nodes[i].ToDomain())
	}

	return out
}

// IsFavoriteData is the data member of IsAnimeFavorite.
type IsFavoriteData struct {
	Media *Media `json:"Media"`
}

// Favourite reports the flag; a missing media is not a favourite.
func (d *IsFavoriteData) Favourite() bool {
	return d.Media != nil && d.Media.IsFavourite
}

// AnimeStatusData is the data member of GetAnimeStatus.
type AnimeStatusData struct {
	MediaList *MediaListEntry `json:"MediaList"`
}

// ToDomain returns nil when there is no entry.
func (d *AnimeStatusData) ToDomain() *domain.MediaListEntry {
	if d.MediaList == nil {
		return nil
	}
	e := d.MediaList.ToDomain()

	return &e
}

// DeleteEntryData is the data member of DeleteAnimeEntry.
type DeleteEntryData struct {
	DeleteMediaListEntry *struct {
		Deleted bool `json:"deleted"`
	} `json:"DeleteMediaListEntry"`
}

// Deleted reports whether the server removed the entry.
func (d *DeleteEntryData) Deleted() bool {
	return d.DeleteMediaListEntry != nil && d.DeleteMediaListEntry.Deleted
}
