package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"anime-aggregator/internal/domain"
)

const (
	authLocalsKey = "auth"
	userIDHeader  = "X-User-ID"
)

// Auth reads the AuthContext issued by the external auth subsystem from
// "Authorization: Bearer <token>" and X-User-ID. It never rejects: a
// missing or malformed pair yields an invalid AuthContext, for which the
// library operations return empty results.
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(authLocalsKey, parseAuth(c.Get(fiber.HeaderAuthorization), c.Get(userIDHeader)))

		return c.Next()
	}
}

// AuthFrom returns the AuthContext stored by Auth, or the zero value.
func AuthFrom(c *fiber.Ctx) domain.AuthContext {
	auth, _ := c.Locals(authLocalsKey).(domain.AuthContext)

	return auth
}

func parseAuth(header, userID string) domain.AuthContext {
	var auth domain.AuthContext

	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		auth.AccessToken = strings.TrimSpace(token)
	}
	if id, err := strconv.Atoi(strings.TrimSpace(userID)); err == nil {
		auth.UserID = id
	}

	return auth
}
