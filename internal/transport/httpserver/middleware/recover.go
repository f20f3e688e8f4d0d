package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"anime-aggregator/internal/transport/httpserver/dto"
)

// Recover returns a middleware that turns a handler panic into a 500 and
// logs it with the matched route, so a panic can be tied to the catalog,
// library or provider operation behind it.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			fields := []zap.Field{
				zap.Any("error", r),
				zap.String("method", c.Method()),
				zap.String("route", c.Route().Path),
				zap.String("path", c.Path()),
				zap.String("stack", string(debug.Stack())),
			}
			if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			logger.Error("panic recovered", fields...)

			err = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "internal server error",
				Code:  "PANIC",
			})
		}()

		return c.Next()
	}
}
