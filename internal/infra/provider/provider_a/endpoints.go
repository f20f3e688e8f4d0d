// Package provider_a maps the primary REST provider (Jikan v4 shape) onto
// canonical media records.
package provider_a

import (
	"net/url"
	"strconv"
	"strings"

	"anime-aggregator/internal/domain"
)

// Paths consumed on the primary provider.
const (
	PathAnime          = "/anime"
	PathTopAnime       = "/top/anime"
	PathSeasonNow      = "/seasons/now"
	PathSeasonUpcoming = "/seasons/upcoming"
)

// Top list filters understood by /top/anime.
const (
	FilterAiring       = "airing"
	FilterByPopularity = "bypopularity"
	FilterFavorite     = "favorite"
)

// SearchURL builds GET /anime?q=<query>&page=<n>&limit=<size>.
func SearchURL(baseURL, query string, p domain.PageParams) string {
	q := pageQuery(p)
	q.Set("q", query)

	return build(baseURL, PathAnime, q)
}

// TopURL builds GET /top/anime, optionally filtered.
func TopURL(baseURL, filter string, p domain.PageParams) string {
	q := pageQuery(p)
	if filter != "" {
		q.Set("filter", filter)
	}

	return build(baseURL, PathTopAnime, q)
}

// SeasonNowURL builds GET /seasons/now.
func SeasonNowURL(baseURL string, p domain.PageParams) string {
	return build(baseURL, PathSeasonNow, pageQuery(p))
}

// SeasonUpcomingURL builds GET /seasons/upcoming.
func SeasonUpcomingURL(baseURL string, p domain.PageParams) string {
	return build(baseURL, PathSeasonUpcoming, pageQuery(p))
}

// DetailURL builds GET /anime/<id>.
func DetailURL(baseURL string, id int) string {
	return build(baseURL, PathAnime+"/"+strconv.Itoa(id), nil)
}

func pageQuery(p domain.PageParams) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.PageSize))

	return q
}

func build(baseURL, path string, q url.Values) string {
	u := strings.TrimRight(baseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return u
}
