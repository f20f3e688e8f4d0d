// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"anime-aggregator/internal/transport/httpserver/handler"
	"anime-aggregator/internal/transport/httpserver/middleware"
	"anime-aggregator/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name      string
	Port      int
	BodyLimit int
}

// Services groups the facade halves the routes call into.
type Services struct {
	Anime   handler.AnimeCatalog
	Library handler.Library
	Health  handler.HealthMonitor
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, svcs Services, v *validator.Validator, logger *zap.Logger) *Server {
	name := cfg.Name
	if name == "" {
		name = "anime-aggregator"
	}

	app := fiber.New(fiber.Config{
		AppName:      name,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(svcs.Health))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(cors.New())
	app.Use(compress.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	animeHandler := handler.NewAnimeHandler(svcs.Anime, v, logger)
	libraryHandler := handler.NewLibraryHandler(svcs.Library, v, logger)
	providerHandler := handler.NewProviderHandler(svcs.Health, logger)

	registerRoutes(app, animeHandler, libraryHandler, providerHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	animeHandler *handler.AnimeHandler,
	libraryHandler *handler.LibraryHandler,
	providerHandler *handler.ProviderHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	// Catalogue; static segments are registered before /:id
	anime := v1.Group("/anime")
	anime.Get("/search", animeHandler.Search)
	anime.Get("/trending", animeHandler.Trending())
	anime.Get("/popular", animeHandler.Popular())
	anime.Get("/top-rated", animeHandler.TopRated())
	anime.Get("/recent", animeHandler.Recent())
	anime.Get("/most-favorited", animeHandler.MostFavorited())
	anime.Get("/most-watched", animeHandler.MostWatched())
	anime.Get("/upcoming", animeHandler.Upcoming())
	anime.Get("/:id", animeHandler.GetByID)

	// Authenticated library
	me := v1.Group("/me", middleware.Auth())
	me.Get("/list", libraryHandler.List)
	me.Get("/favorites", libraryHandler.Favorites)
	me.Get("/favorites/:id", libraryHandler.IsFavorite)
	me.Post("/favorites/:id/toggle", libraryHandler.ToggleFavorite)
	me.Get("/entries/:id", libraryHandler.Entry)
	me.Put("/entries/:id/progress", libraryHandler.SaveProgress)
	me.Put("/entries/:id/status", libraryHandler.UpdateStatus)
	me.Delete("/entries/:id", libraryHandler.DeleteEntry)

	// Provider health
	providers := v1.Group("/providers")
	providers.Get("/", providerHandler.GetProviders)
	providers.Post("/probe", providerHandler.Probe)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
