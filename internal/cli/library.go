package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"anime-aggregator/internal/domain"
)

func (a *app) meCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Manage the authenticated AniList library",
		Long: `Read and change the AniList library of the user given by --user-id and
--token (or $` + EnvUserID + ` and $` + EnvToken + `).

Without credentials every command prints an empty result and makes no
network call. Writes that the provider rejects are logged, not raised.`,
	}

	cmd.AddCommand(
		a.meListCmd(),
		a.meFavoritesCmd(),
		a.meIsFavoriteCmd(),
		a.meToggleFavoriteCmd(),
		a.meStatusCmd(),
		a.meProgressCmd(),
		a.meSetStatusCmd(),
		a.meDeleteCmd(),
	)

	return cmd
}

func (a *app) meListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the user's anime lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var st domain.MediaListStatus
			if status != "" {
				var err error
				if st, err = domain.ParseMediaListStatus(status); err != nil {
					return err
				}
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			collection, err := a.svcs.Library.GetUserAnimeList(ctx, a.auth, st)
			if err != nil {
				return err
			}

			return a.printJSON(collection)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only this list (current, planning, completed, dropped, paused, repeating)")

	return cmd
}

func (a *app) meFavoritesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "Show the user's favourite anime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			items, err := a.svcs.Library.GetFavorites(ctx, a.auth)
			if err != nil {
				return err
			}

			return a.printJSON(items)
		},
	}
}

type favoriteOutput struct {
	MediaID  int  `json:"media_id"`
	Favorite bool `json:"favorite"`
}

func (a *app) meIsFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "is-favorite <id>",
		Short: "Report whether an anime is a favourite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			fav, err := a.svcs.Library.IsAnimeFavorite(ctx, a.auth, id)
			if err != nil {
				return err
			}

			return a.printJSON(favoriteOutput{MediaID: id, Favorite: fav})
		},
	}
}

func (a *app) meToggleFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-favorite <id>",
		Short: "Flip the favourite flag of an anime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			fav, err := a.svcs.Library.ToggleFavorite(ctx, a.auth, id)
			if err != nil {
				return err
			}

			return a.printJSON(favoriteOutput{MediaID: id, Favorite: fav})
		},
	}
}

func (a *app) meStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show the user's list entry for an anime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			entry, err := a.svcs.Library.GetAnimeStatus(ctx, a.auth, id)
			if err != nil {
				return err
			}
			if entry == nil {
				a.warn("anime %d is not on any list", id)
			}

			return a.printJSON(entry)
		},
	}
}

func (a *app) meProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id> <episodes>",
		Short: "Set the number of watched episodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			progress, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("episodes must be a number, got %q", args[1])
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.svcs.Library.SaveProgress(ctx, a.auth, id, progress); err != nil {
				return err
			}
			a.ok("progress of %d set to %d", id, progress)

			return nil
		},
	}
}

func (a *app) meSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Move an anime to a list",
		Long: `Move an anime to a list. The status is one of current, planning,
completed, dropped, paused or repeating (case-insensitive).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.svcs.Library.UpdateAnimeStatus(ctx, a.auth, id, args[1]); err != nil {
				return err
			}
			a.ok("status of %d set to %s", id, args[1])

			return nil
		},
	}
}

func (a *app) meDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an anime from the user's lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.svcs.Library.DeleteAnimeEntry(ctx, a.auth, id); err != nil {
				return err
			}
			a.ok("entry for %d removed", id)

			return nil
		},
	}
}
