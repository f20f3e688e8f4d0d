package domain

import "strings"

// AuthContext is the (userID, accessToken) pair supplied by the external
// auth subsystem. The aggregation service only reads it.
type AuthContext struct {
	UserID      int
	AccessToken string
}

// Valid reports whether authenticated operations may proceed.
func (a AuthContext) Valid() bool {
	return a.UserID > 0 && strings.TrimSpace(a.AccessToken) != ""
}
