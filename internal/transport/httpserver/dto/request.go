// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import "anime-aggregator/internal/domain"

// PageRequest holds the paging query parameters of listing routes.
type PageRequest struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=25"`
}

// ToPageParams applies defaults to unset values.
func (r *PageRequest) ToPageParams() domain.PageParams {
	return domain.NewPageParams(r.Page, r.PageSize)
}

// SearchRequest holds the query parameters of GET /anime/search.
type SearchRequest struct {
	Query    string `query:"q" validate:"required,max=200"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=25"`
}

// ToPageParams applies defaults to unset values.
func (r *SearchRequest) ToPageParams() domain.PageParams {
	return domain.NewPageParams(r.Page, r.PageSize)
}

// ListRequest holds the query parameters of GET /me/list.
type ListRequest struct {
	Status string `query:"status" validate:"omitempty,media_list_status"`
}

// ToStatus returns the normalized status, or "" for every list.
func (r *ListRequest) ToStatus() domain.MediaListStatus {
	status, err := domain.ParseMediaListStatus(r.Status)
	if err != nil {
		return ""
	}

	return status
}

// ProgressRequest is the body of PUT /me/entries/:id/progress.
type ProgressRequest struct {
	Progress *int `json:"progress" validate:"required,min=0"`
}

// StatusRequest is the body of PUT /me/entries/:id/status. The value is
// checked against MediaListStatus by the service, not here.
type StatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}
