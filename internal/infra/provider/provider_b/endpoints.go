// Package provider_b maps the backup REST provider (Kitsu JSON:API shape)
// onto canonical media records.
package provider_b

import (
	"net/url"
	"strconv"
	"strings"

	"anime-aggregator/internal/domain"
)

// PathAnime is the only collection consumed on the backup provider.
const PathAnime = "/anime"

// Sort orders understood by /anime.
const (
	SortPopularity = "popularityRank"
	SortRating     = "ratingRank"
	SortUpdated    = "-updatedAt"
)

// Status filters understood by /anime.
const (
	StatusCurrent  = "current"
	StatusUpcoming = "upcoming"
)

// SearchURL builds GET /anime?filter[text]=<query> with page[limit]/page[offset].
func SearchURL(baseURL, query string, p domain.PageParams) string {
	q := pageQuery(p)
	q.Set("filter[text]", query)

	return build(baseURL, PathAnime, q)
}

// ListURL builds GET /anime with an optional status filter and sort.
func ListURL(baseURL, status, sort string, p domain.PageParams) string {
	q := pageQuery(p)
	if status != "" {
		q.Set("filter[status]", status)
	}
	if sort != "" {
		q.Set("sort", sort)
	}

	return build(baseURL, PathAnime, q)
}

// DetailURL builds GET /anime/<id>.
func DetailURL(baseURL string, id int) string {
	return build(baseURL, PathAnime+"/"+strconv.Itoa(id), nil)
}

func pageQuery(p domain.PageParams) url.Values {
	q := url.Values{}
	q.Set("page[limit]", strconv.Itoa(p.PageSize))
	q.Set("page[offset]", strconv.Itoa(p.Offset()))

	return q
}

func build(baseURL, path string, q url.Values) string {
	u := strings.TrimRight(baseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return u
}
