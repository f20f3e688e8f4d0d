// Package cli implements the anictl command tree. It drives the same
// services as the HTTP API in-process, so every facade operation can be
// exercised from a shell.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"anime-aggregator/internal/app/fallback"
	"anime-aggregator/internal/app/service"
	"anime-aggregator/internal/config"
	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider/registry"
	"anime-aggregator/internal/logger"
)

// Env fallbacks for the AuthContext flags.
const (
	EnvToken  = "ANILIST_TOKEN"
	EnvUserID = "ANILIST_USER_ID"
)

// Catalog is the unauthenticated half of the facade.
type Catalog interface {
	SearchAnime(ctx context.Context, query string, page, pageSize int) []domain.CanonicalMedia
	GetTrendingAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetPopularAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetTopRatedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetRecentlyUpdatedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetMostFavoritedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetMostWatchedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetUpcomingAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetAnimeDetails(ctx context.Context, id int) domain.CanonicalMedia
}

// Library is the authenticated half of the facade.
type Library interface {
	GetUserAnimeList(ctx context.Context, auth domain.AuthContext, status domain.MediaListStatus) (domain.MediaListCollection, error)
	GetFavorites(ctx context.Context, auth domain.AuthContext) ([]domain.CanonicalMedia, error)
	IsAnimeFavorite(ctx context.Context, auth domain.AuthContext, mediaID int) (bool, error)
	ToggleFavorite(ctx context.Context, auth domain.AuthContext, mediaID int) (bool, error)
	GetAnimeStatus(ctx context.Context, auth domain.AuthContext, mediaID int) (*domain.MediaListEntry, error)
	SaveProgress(ctx context.Context, auth domain.AuthContext, mediaID, progress int) error
	UpdateAnimeStatus(ctx context.Context, auth domain.AuthContext, mediaID int, status string) error
	DeleteAnimeEntry(ctx context.Context, auth domain.AuthContext, mediaID int) error
}

// Services is what a command needs to run.
type Services struct {
	Catalog Catalog
	Library Library
}

// ServiceFactory builds Services from the loaded configuration.
type ServiceFactory func(cfg *config.Config, logger *zap.Logger) Services

// NewServices wires the real provider clients.
func NewServices(cfg *config.Config, logger *zap.Logger) Services {
	providers := registry.NewProviders(cfg.Provider, logger)
	orchestrator := fallback.NewOrchestrator(providers.Primary, providers.Backup, logger)

	return Services{
		Catalog: service.NewAnimeService(orchestrator, service.BaseURLs{
			Primary: providers.Primary.BaseURL(),
			Backup:  providers.Backup.BaseURL(),
		}, logger),
		Library: service.NewLibraryService(providers.AniList, logger),
	}
}

type options struct {
	configPath string
	apiURL     string
	backupURL  string
	anilistURL string
	token      string
	userID     int
	noColor    bool
	verbose    bool
	timeout    time.Duration
}

// app carries state from the root PersistentPreRunE to subcommands.
type app struct {
	opts    options
	factory ServiceFactory
	out     io.Writer
	errOut  io.Writer

	svcs   Services
	auth   domain.AuthContext
	logger *logger.Logger
}

// Execute is the entry point called from main.
func Execute() {
	cmd := NewRootCmd(os.Stdout, os.Stderr, NewServices)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree writing results to out and
// diagnostics to errOut.
func NewRootCmd(out, errOut io.Writer, factory ServiceFactory) *cobra.Command {
	a := &app{factory: factory, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "anictl",
		Short: "Query anime catalogues and manage an AniList library",
		Long: `anictl searches and lists anime through a primary REST provider with
automatic fallback to a backup provider, and manages the authenticated
user's AniList library.

Results are printed as indented JSON.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.PersistentFlags()
	f.StringVar(&a.opts.configPath, "config", "", "Config file path (default: ./config/config.yaml)")
	f.StringVar(&a.opts.apiURL, "api-url", "", "Primary provider base URL (overrides "+config.EnvPrimaryURL+")")
	f.StringVar(&a.opts.backupURL, "backup-api-url", "", "Backup provider base URL (overrides "+config.EnvBackupURL+")")
	f.StringVar(&a.opts.anilistURL, "anilist-url", "", "AniList GraphQL endpoint (overrides "+config.EnvAniListURL+")")
	f.StringVar(&a.opts.token, "token", "", "AniList access token (default $"+EnvToken+")")
	f.IntVar(&a.opts.userID, "user-id", 0, "AniList user id (default $"+EnvUserID+")")
	f.BoolVar(&a.opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log provider traffic to stderr")
	f.DurationVar(&a.opts.timeout, "timeout", 30*time.Second, "Overall command timeout")

	root.AddCommand(a.catalogCmds()...)
	root.AddCommand(a.showCmd(), a.meCmd())

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.opts.noColor {
		color.NoColor = true
	}

	level := "warn"
	if a.opts.verbose {
		level = "debug"
	}

	cfg, err := config.Load(a.opts.configPath,
		config.WithValue("provider.a.base_url", a.opts.apiURL),
		config.WithValue("provider.b.base_url", a.opts.backupURL),
		config.WithValue("provider.anilist.base_url", a.opts.anilistURL),
		config.WithValue("logger.level", level),
		config.WithValue("logger.output", "stderr"),
	)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a.logger, err = logger.New(
		logger.Config{Level: cfg.Logger.Level, Format: "console", Output: cfg.Logger.Output},
		logger.SentryConfig{},
	)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	a.auth, err = a.resolveAuth()
	if err != nil {
		return err
	}
	if parent := cmd.Parent(); parent != nil && parent.Name() == "me" && !a.auth.Valid() {
		a.warn("no AniList credentials; results will be empty")
	}

	a.svcs = a.factory(cfg, a.logger.Logger)

	return nil
}

func (a *app) resolveAuth() (domain.AuthContext, error) {
	auth := domain.AuthContext{UserID: a.opts.userID, AccessToken: a.opts.token}

	if auth.AccessToken == "" {
		auth.AccessToken = os.Getenv(EnvToken)
	}
	if auth.UserID == 0 {
		if raw := os.Getenv(EnvUserID); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return auth, fmt.Errorf("%s: %q is not a number", EnvUserID, raw)
			}
			auth.UserID = id
		}
	}

	return auth, nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithTimeout(ctx, a.opts.timeout)
}
