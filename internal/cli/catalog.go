package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"anime-aggregator/internal/domain"
)

type pageFlags struct {
	page     int
	pageSize int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", domain.DefaultPage, "Page number (1-indexed)")
	cmd.Flags().IntVar(&p.pageSize, "page-size", domain.DefaultPageSize,
		fmt.Sprintf("Results per page (max %d)", domain.MaxPageSize))
}

type listing struct {
	use   string
	short string
	run   func(Catalog, context.Context, int, int) []domain.CanonicalMedia
}

var listings = []listing{
	{"trending", "Currently airing anime, most popular first", Catalog.GetTrendingAnime},
	{"popular", "All-time most popular anime", Catalog.GetPopularAnime},
	{"top", "Highest rated anime", Catalog.GetTopRatedAnime},
	{"recent", "Recently updated anime of the current season", Catalog.GetRecentlyUpdatedAnime},
	{"favorited", "Most favourited anime (same ranking as top)", Catalog.GetMostFavoritedAnime},
	{"watched", "Most watched anime (same ranking as trending)", Catalog.GetMostWatchedAnime},
	{"upcoming", "Anime of the upcoming season", Catalog.GetUpcomingAnime},
}

func (a *app) catalogCmds() []*cobra.Command {
	cmds := []*cobra.Command{a.searchCmd()}
	for _, l := range listings {
		cmds = append(cmds, a.listingCmd(l))
	}

	return cmds
}

func (a *app) searchCmd() *cobra.Command {
	var p pageFlags

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search anime by title",
		Long: `Search anime by title on the primary provider, falling back to the
backup provider when the primary does not answer with 200.

Examples:
  anictl search naruto
  anictl search "cowboy bebop" --page-size 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("search query is empty")
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			return a.printMedia(a.svcs.Catalog.SearchAnime(ctx, query, p.page, p.pageSize))
		},
	}
	p.register(cmd)

	return cmd
}

func (a *app) listingCmd(l listing) *cobra.Command {
	var p pageFlags

	cmd := &cobra.Command{
		Use:   l.use,
		Short: l.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			return a.printMedia(l.run(a.svcs.Catalog, ctx, p.page, p.pageSize))
		},
	}
	p.register(cmd)

	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one anime by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			m := a.svcs.Catalog.GetAnimeDetails(ctx, id)
			if m.IsBlank() {
				a.warn("anime %d not found on any provider", id)
			}

			return a.printJSON(m)
		},
	}
}

func (a *app) printMedia(items []domain.CanonicalMedia) error {
	if len(items) == 0 {
		a.warn("no results")
	}

	return a.printJSON(items)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", raw)
	}

	return id, nil
}
